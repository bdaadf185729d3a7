package event

import (
	"context"
	"sort"

	"github.com/dkomarev/afisha/internal/domain"
)

type PublicSort string

const (
	SortByDate  PublicSort = "EVENT_DATE"
	SortByViews PublicSort = "VIEWS"
)

// PublicSearchQuery is PublicFilter plus the post-query options that need
// enrichment: availability filtering and view-based ordering.
type PublicSearchQuery struct {
	Filter        PublicFilter
	OnlyAvailable bool
	Sort          PublicSort
}

// EnrichedEvent pairs an event with its occupancy projection.
type EnrichedEvent struct {
	Event *domain.Event
	Occupancy
}

// SearchAdmin is the moderation search across all states.
func (s *Service) SearchAdmin(ctx context.Context, f AdminFilter) ([]*domain.Event, error) {
	var err error
	f.From, f.Size, err = normalizePage(f.From, f.Size)
	if err != nil {
		return nil, err
	}
	if f.RangeStart != nil && f.RangeEnd != nil && f.RangeEnd.Before(*f.RangeStart) {
		return nil, domain.ErrValidation("range end must not be before range start")
	}
	return s.events.Search(ctx, f)
}

// SearchPublic searches published events and returns them enriched.
// Availability filtering and view sorting both depend on the occupancy
// projection, so enrichment happens before pagination.
func (s *Service) SearchPublic(ctx context.Context, q PublicSearchQuery) ([]EnrichedEvent, error) {
	from, size, err := normalizePage(q.Filter.From, q.Filter.Size)
	if err != nil {
		return nil, err
	}
	if q.Filter.RangeStart != nil && q.Filter.RangeEnd != nil && q.Filter.RangeEnd.Before(*q.Filter.RangeStart) {
		return nil, domain.ErrValidation("range end must not be before range start")
	}
	if len(q.Filter.CategoryIDs) > 0 {
		ok, err := s.categories.ExistAll(ctx, q.Filter.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrValidation("categories from search query are not found")
		}
	}

	// With no explicit range only upcoming events are shown.
	if q.Filter.RangeStart == nil && q.Filter.RangeEnd == nil {
		now := s.clock.Now()
		q.Filter.RangeStart = &now
	}

	// Fetch the full candidate set; pagination is applied after
	// enrichment-dependent filtering and sorting.
	q.Filter.From = 0
	q.Filter.Size = 0
	events, err := s.events.SearchPublic(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	occ, err := s.Occupancy(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedEvent, 0, len(events))
	for _, ev := range events {
		o := occ[ev.ID]
		if q.OnlyAvailable && ev.ParticipantLimit > 0 && o.ConfirmedRequests >= ev.ParticipantLimit {
			continue
		}
		enriched = append(enriched, EnrichedEvent{Event: ev, Occupancy: o})
	}

	switch q.Sort {
	case SortByViews:
		sort.SliceStable(enriched, func(i, j int) bool {
			return enriched[i].Views > enriched[j].Views
		})
	default:
		sort.SliceStable(enriched, func(i, j int) bool {
			return enriched[i].Event.EventDate.Before(enriched[j].Event.EventDate)
		})
	}

	if from >= len(enriched) {
		return []EnrichedEvent{}, nil
	}
	end := from + size
	if end > len(enriched) {
		end = len(enriched)
	}
	return enriched[from:end], nil
}
