package event

import (
	"context"

	zlog "github.com/rs/zerolog/log"
)

// PublicAPIPrefix is the canonical URI prefix the stats service keys event
// views by.
const PublicAPIPrefix = "/events"

// Occupancy is the read-side projection merged into event views.
type Occupancy struct {
	ConfirmedRequests int
	Views             int64
}

// Occupancy merges confirmed-request counts with externally-sourced view
// counts. It never fails the caller: the stats lookup degrades to zero
// views, and every requested id is present in the result.
func (s *Service) Occupancy(ctx context.Context, eventIDs []string) (map[string]Occupancy, error) {
	confirmed, err := s.requests.ConfirmedCounts(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	views := s.eventViews(ctx, eventIDs)

	out := make(map[string]Occupancy, len(eventIDs))
	for _, id := range eventIDs {
		out[id] = Occupancy{
			ConfirmedRequests: confirmed[id],
			Views:             views[id],
		}
	}
	return out, nil
}

func (s *Service) eventViews(ctx context.Context, eventIDs []string) map[string]int64 {
	out := make(map[string]int64, len(eventIDs))
	for _, id := range eventIDs {
		out[id] = 0
	}
	if s.stats == nil || len(eventIDs) == 0 {
		return out
	}

	uris := make([]string, 0, len(eventIDs))
	for _, id := range eventIDs {
		uris = append(uris, eventURI(id))
	}

	hits, err := s.stats.Views(ctx, uris, s.clock.Now())
	if err != nil {
		zlog.Warn().Err(err).Int("events", len(eventIDs)).Msg("stats lookup failed, views degrade to zero")
		return out
	}
	for _, id := range eventIDs {
		out[id] = hits[eventURI(id)]
	}
	return out
}

func eventURI(id string) string { return PublicAPIPrefix + "/" + id }
