package event

import "time"

// Service implements the event lifecycle, organizer edits, batch request
// resolution and the read-side projections built on top of them.
type Service struct {
	events     EventRepo
	requests   RequestRepo
	categories CategoryRepo
	users      UserRepo
	stats      StatsReader
	cache      Cache
	clock      Clock

	ttlDetails time.Duration
}

func New(
	events EventRepo,
	requests RequestRepo,
	categories CategoryRepo,
	users UserRepo,
	stats StatsReader,
	cache Cache,
	clock Clock,
	ttlDetails time.Duration,
) *Service {
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	return &Service{
		events:     events,
		requests:   requests,
		categories: categories,
		users:      users,
		stats:      stats,
		cache:      cache,
		clock:      clock,
		ttlDetails: ttlDetails,
	}
}

// Actor identifies the caller of a mutating operation. Admin-scoped calls
// bypass ownership checks but not lifecycle guards.
type Actor struct {
	ID    string
	Admin bool
}
