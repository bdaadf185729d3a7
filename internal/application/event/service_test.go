package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkomarev/afisha/internal/domain"
)

// --- fakes ---

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeStore struct {
	events   map[string]*domain.Event
	requests map[string]*domain.Request
	outbox   []OutboxMessage

	lastPublicFilter PublicFilter
	publicResult     []*domain.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:   map[string]*domain.Event{},
		requests: map[string]*domain.Request{},
	}
}

func (f *fakeStore) Create(ctx context.Context, e *domain.Event) error {
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) ListByInitiator(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.events {
		if e.InitiatorID == initiatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Search(ctx context.Context, flt AdminFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) SearchPublic(ctx context.Context, flt PublicFilter) ([]*domain.Event, error) {
	f.lastPublicFilter = flt
	return f.publicResult, nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tr TxEventRepo) error) error {
	return fn(&fakeTx{store: f})
}

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := t.store.events[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	cp := *e
	return &cp, nil
}

func (t *fakeTx) Update(ctx context.Context, e *domain.Event) error {
	t.store.events[e.ID] = e
	return nil
}

func (t *fakeTx) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	n := 0
	for _, r := range t.store.requests {
		if r.EventID == eventID && r.Status == domain.RequestConfirmed {
			n++
		}
	}
	return n, nil
}

func (t *fakeTx) GetRequestsByIDs(ctx context.Context, ids []string) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, id := range ids {
		if r, ok := t.store.requests[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (t *fakeTx) UpdateRequests(ctx context.Context, reqs []*domain.Request) error {
	for _, r := range reqs {
		t.store.requests[r.ID] = r
	}
	return nil
}

func (t *fakeTx) InsertOutbox(ctx context.Context, msg OutboxMessage) error {
	t.store.outbox = append(t.store.outbox, msg)
	return nil
}

type fakeRequestReads struct{ store *fakeStore }

func (f fakeRequestReads) ListByEvent(ctx context.Context, eventID string) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, r := range f.store.requests {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeRequestReads) ConfirmedCounts(ctx context.Context, eventIDs []string) (map[string]int, error) {
	out := map[string]int{}
	for _, id := range eventIDs {
		for _, r := range f.store.requests {
			if r.EventID == id && r.Status == domain.RequestConfirmed {
				out[id]++
			}
		}
	}
	return out, nil
}

type fakeCategories struct{ ids map[string]bool }

func (f fakeCategories) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if !f.ids[id] {
		return nil, domain.ErrNotFound("category not found")
	}
	return &domain.Category{ID: id, Name: "concerts"}, nil
}

func (f fakeCategories) ExistAll(ctx context.Context, ids []string) (bool, error) {
	for _, id := range ids {
		if !f.ids[id] {
			return false, nil
		}
	}
	return true, nil
}

type fakeUsers struct{ ids map[string]bool }

func (f fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !f.ids[id] {
		return nil, domain.ErrNotFound("user not found")
	}
	return &domain.User{ID: id, Name: "user", Email: "u@example.com"}, nil
}

type fakeStats struct {
	views map[string]int64
	err   error
	hits  []string
}

func (f *fakeStats) Views(ctx context.Context, uris []string, end time.Time) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.views, nil
}

func (f *fakeStats) Hit(ctx context.Context, uri, ip string, at time.Time) error {
	f.hits = append(f.hits, uri)
	return nil
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return tt.UTC()
}

func newTestService(store *fakeStore, now time.Time, stats StatsReader) *Service {
	return New(
		store,
		fakeRequestReads{store: store},
		fakeCategories{ids: map[string]bool{"cat_1": true}},
		fakeUsers{ids: map[string]bool{"user_a": true, "user_b": true}},
		stats,
		nil,
		fakeClock{t: now},
		0,
	)
}

func pendingEvent(id, initiator string, eventDate time.Time, limit int, moderation bool) *domain.Event {
	return &domain.Event{
		ID:                id,
		InitiatorID:       initiator,
		CategoryID:        "cat_1",
		Title:             "Jazz night",
		Annotation:        "An evening of live jazz",
		Description:       "Full program with two sets and a break",
		Paid:              true,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             domain.StatePending,
		EventDate:         eventDate,
		CreatedOn:         eventDate.Add(-48 * time.Hour),
	}
}

func action(a StateAction) *StateAction { return &a }

// --- lifecycle via Update ---

func TestUpdate_AdminPublish(t *testing.T) {
	now := mustTime(t, "2026-01-10T12:00:00Z")

	t.Run("publishes_pending_event_and_emits_outbox", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(2*time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		ev, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "admin", Admin: true},
			EventID:     "evt_1",
			StateAction: action(PublishEvent),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatePublished, ev.State)
		require.NotNil(t, ev.PublishedOn)
		assert.Equal(t, now, *ev.PublishedOn)

		require.Len(t, store.outbox, 1)
		assert.Equal(t, "event.published", store.outbox[0].RoutingKey)
	})

	t.Run("rejects_when_less_than_one_hour_ahead", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(30*time.Minute), 0, true)
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "admin", Admin: true},
			EventID:     "evt_1",
			StateAction: action(PublishEvent),
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("publishes_at_exactly_one_hour", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "admin", Admin: true},
			EventID:     "evt_1",
			StateAction: action(PublishEvent),
		})
		assert.NoError(t, err)
	})

	t.Run("publish_requires_pending_state", func(t *testing.T) {
		store := newFakeStore()
		ev := pendingEvent("evt_1", "user_a", now.Add(2*time.Hour), 0, true)
		ev.State = domain.StateCanceled
		store.events["evt_1"] = ev
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "admin", Admin: true},
			EventID:     "evt_1",
			StateAction: action(PublishEvent),
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("reject_of_published_event_conflicts", func(t *testing.T) {
		store := newFakeStore()
		ev := pendingEvent("evt_1", "user_a", now.Add(2*time.Hour), 0, true)
		ev.State = domain.StatePublished
		store.events["evt_1"] = ev
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "admin", Admin: true},
			EventID:     "evt_1",
			StateAction: action(RejectEvent),
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("owner_cannot_publish", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(2*time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "user_a"},
			EventID:     "evt_1",
			StateAction: action(PublishEvent),
		})
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})
}

func TestUpdate_OwnerPath(t *testing.T) {
	now := mustTime(t, "2026-01-10T12:00:00Z")

	t.Run("review_toggle", func(t *testing.T) {
		store := newFakeStore()
		ev := pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		ev.State = domain.StateCanceled
		store.events["evt_1"] = ev
		svc := newTestService(store, now, nil)

		out, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "user_a"},
			EventID:     "evt_1",
			StateAction: action(SendToReview),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatePending, out.State)

		out, err = svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "user_a"},
			EventID:     "evt_1",
			StateAction: action(CancelReview),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StateCanceled, out.State)
	})

	t.Run("non_owner_is_forbidden", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:   Actor{ID: "user_b"},
			EventID: "evt_1",
			Patch:   domain.EventPatch{Title: ptr("New title")},
		})
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("owner_cannot_edit_published_event", func(t *testing.T) {
		store := newFakeStore()
		ev := pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		ev.State = domain.StatePublished
		store.events["evt_1"] = ev
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:   Actor{ID: "user_a"},
			EventID: "evt_1",
			Patch:   domain.EventPatch{Title: ptr("New title")},
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("merge_patch_keeps_absent_fields", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 10, true)
		svc := newTestService(store, now, nil)

		out, err := svc.Update(context.Background(), UpdateCmd{
			Actor:   Actor{ID: "user_a"},
			EventID: "evt_1",
			Patch:   domain.EventPatch{Title: ptr("Renamed")},
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", out.Title)
		assert.Equal(t, "An evening of live jazz", out.Annotation)
		assert.Equal(t, 10, out.ParticipantLimit)
	})

	t.Run("patch_event_date_rechecks_lead_time", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		tooSoon := now.Add(time.Hour)
		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:   Actor{ID: "user_a"},
			EventID: "evt_1",
			Patch:   domain.EventPatch{EventDate: &tooSoon},
		})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})

	t.Run("admin_cannot_use_review_actions", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		_, err := svc.Update(context.Background(), UpdateCmd{
			Actor:       Actor{ID: "admin", Admin: true},
			EventID:     "evt_1",
			StateAction: action(SendToReview),
		})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})
}

// --- batch resolution ---

func addRequest(store *fakeStore, id, requester, eventID string, status domain.RequestStatus) {
	store.requests[id] = &domain.Request{
		ID: id, RequesterID: requester, EventID: eventID, Status: status,
	}
}

func TestResolveRequests(t *testing.T) {
	now := mustTime(t, "2026-01-10T12:00:00Z")

	setup := func(limit, confirmed int) (*fakeStore, *Service) {
		store := newFakeStore()
		ev := pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), limit, true)
		ev.State = domain.StatePublished
		store.events["evt_1"] = ev
		for i := 0; i < confirmed; i++ {
			addRequest(store, "conf_"+string(rune('a'+i)), "other", "evt_1", domain.RequestConfirmed)
		}
		return store, newTestService(store, now, nil)
	}

	t.Run("confirms_all_when_capacity_suffices", func(t *testing.T) {
		store, svc := setup(5, 0)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)
		addRequest(store, "r2", "u2", "evt_1", domain.RequestPending)

		res, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1", "r2"},
			Status:     domain.RequestConfirmed,
		})
		require.NoError(t, err)
		assert.Len(t, res.Confirmed, 2)
		assert.Empty(t, res.Rejected)
		assert.Equal(t, domain.RequestConfirmed, store.requests["r1"].Status)
		assert.Equal(t, domain.RequestConfirmed, store.requests["r2"].Status)
	})

	t.Run("partial_confirmation_preserves_caller_order", func(t *testing.T) {
		store, svc := setup(3, 1)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)
		addRequest(store, "r2", "u2", "evt_1", domain.RequestPending)
		addRequest(store, "r3", "u3", "evt_1", domain.RequestPending)

		res, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r3", "r1", "r2"},
			Status:     domain.RequestConfirmed,
		})
		require.NoError(t, err)
		require.Len(t, res.Confirmed, 2)
		assert.Equal(t, "r3", res.Confirmed[0].ID)
		assert.Equal(t, "r1", res.Confirmed[1].ID)
		require.Len(t, res.Rejected, 1)
		assert.Equal(t, "r2", res.Rejected[0].ID)
	})

	t.Run("no_free_slots_conflicts_whole_batch", func(t *testing.T) {
		store, svc := setup(1, 1)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)

		_, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1"},
			Status:     domain.RequestConfirmed,
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
		assert.Equal(t, domain.RequestPending, store.requests["r1"].Status)
	})

	t.Run("full_event_conflicts_even_for_reject_outcome", func(t *testing.T) {
		store, svc := setup(1, 1)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)

		_, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1"},
			Status:     domain.RequestRejected,
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("non_pending_target_aborts_batch", func(t *testing.T) {
		store, svc := setup(5, 0)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)
		addRequest(store, "r2", "u2", "evt_1", domain.RequestCanceled)

		_, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1", "r2"},
			Status:     domain.RequestConfirmed,
		})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
		assert.Equal(t, domain.RequestPending, store.requests["r1"].Status)
	})

	t.Run("request_of_other_event_is_not_found", func(t *testing.T) {
		store, svc := setup(5, 0)
		addRequest(store, "r1", "u1", "evt_other", domain.RequestPending)

		_, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1"},
			Status:     domain.RequestConfirmed,
		})
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("only_initiator_may_resolve", func(t *testing.T) {
		store, svc := setup(5, 0)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)

		_, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_b", EventID: "evt_1",
			RequestIDs: []string{"r1"},
			Status:     domain.RequestConfirmed,
		})
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("reject_outcome_rejects_all", func(t *testing.T) {
		store, svc := setup(5, 0)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)
		addRequest(store, "r2", "u2", "evt_1", domain.RequestPending)

		res, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1", "r2"},
			Status:     domain.RequestRejected,
		})
		require.NoError(t, err)
		assert.Empty(t, res.Confirmed)
		assert.Len(t, res.Rejected, 2)
	})

	t.Run("zero_limit_confirms_any_batch", func(t *testing.T) {
		store, svc := setup(0, 0)
		addRequest(store, "r1", "u1", "evt_1", domain.RequestPending)
		addRequest(store, "r2", "u2", "evt_1", domain.RequestPending)

		res, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1", "r2"},
			Status:     domain.RequestConfirmed,
		})
		require.NoError(t, err)
		assert.Len(t, res.Confirmed, 2)
	})

	t.Run("invalid_status_is_validation_error", func(t *testing.T) {
		_, svc := setup(5, 0)
		_, err := svc.ResolveRequests(context.Background(), ResolveCmd{
			InitiatorID: "user_a", EventID: "evt_1",
			RequestIDs: []string{"r1"},
			Status:     domain.RequestCanceled,
		})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})
}

// --- enrichment ---

func TestOccupancy(t *testing.T) {
	now := mustTime(t, "2026-01-10T12:00:00Z")

	t.Run("merges_confirmed_counts_and_views", func(t *testing.T) {
		store := newFakeStore()
		addRequest(store, "r1", "u1", "evt_1", domain.RequestConfirmed)
		addRequest(store, "r2", "u2", "evt_1", domain.RequestConfirmed)
		addRequest(store, "r3", "u3", "evt_1", domain.RequestPending)
		stats := &fakeStats{views: map[string]int64{"/events/evt_1": 42}}
		svc := newTestService(store, now, stats)

		occ, err := svc.Occupancy(context.Background(), []string{"evt_1", "evt_2"})
		require.NoError(t, err)
		assert.Equal(t, 2, occ["evt_1"].ConfirmedRequests)
		assert.Equal(t, int64(42), occ["evt_1"].Views)
		assert.Equal(t, Occupancy{}, occ["evt_2"])
	})

	t.Run("stats_failure_degrades_views_to_zero", func(t *testing.T) {
		store := newFakeStore()
		addRequest(store, "r1", "u1", "evt_1", domain.RequestConfirmed)
		stats := &fakeStats{err: errors.New("stats down")}
		svc := newTestService(store, now, stats)

		occ, err := svc.Occupancy(context.Background(), []string{"evt_1"})
		require.NoError(t, err)
		assert.Equal(t, 1, occ["evt_1"].ConfirmedRequests)
		assert.Zero(t, occ["evt_1"].Views)
	})

	t.Run("nil_stats_reader_means_zero_views", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, now, nil)

		occ, err := svc.Occupancy(context.Background(), []string{"evt_1"})
		require.NoError(t, err)
		assert.Zero(t, occ["evt_1"].Views)
	})
}

func TestGetPublic(t *testing.T) {
	now := mustTime(t, "2026-01-10T12:00:00Z")

	t.Run("unpublished_event_is_not_found", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		svc := newTestService(store, now, nil)

		_, err := svc.GetPublic(context.Background(), "evt_1", "10.0.0.1")
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("registers_view_hit", func(t *testing.T) {
		store := newFakeStore()
		ev := pendingEvent("evt_1", "user_a", now.Add(3*time.Hour), 0, true)
		ev.State = domain.StatePublished
		store.events["evt_1"] = ev
		stats := &fakeStats{}
		svc := newTestService(store, now, stats)

		got, err := svc.GetPublic(context.Background(), "evt_1", "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, "evt_1", got.ID)
		assert.Equal(t, []string{"/events/evt_1"}, stats.hits)
	})
}

func TestSearchPublic(t *testing.T) {
	now := mustTime(t, "2026-01-10T12:00:00Z")

	published := func(id string, date time.Time, limit int) *domain.Event {
		e := pendingEvent(id, "user_a", date, limit, true)
		e.State = domain.StatePublished
		return e
	}

	t.Run("defaults_range_start_to_now", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, now, nil)

		_, err := svc.SearchPublic(context.Background(), PublicSearchQuery{})
		require.NoError(t, err)
		require.NotNil(t, store.lastPublicFilter.RangeStart)
		assert.Equal(t, now, *store.lastPublicFilter.RangeStart)
	})

	t.Run("unknown_categories_are_validation_error", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, now, nil)

		_, err := svc.SearchPublic(context.Background(), PublicSearchQuery{
			Filter: PublicFilter{CategoryIDs: []string{"nope"}},
		})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})

	t.Run("only_available_drops_full_events", func(t *testing.T) {
		store := newFakeStore()
		store.publicResult = []*domain.Event{
			published("evt_full", now.Add(2*time.Hour), 1),
			published("evt_open", now.Add(3*time.Hour), 2),
		}
		addRequest(store, "r1", "u1", "evt_full", domain.RequestConfirmed)
		svc := newTestService(store, now, nil)

		items, err := svc.SearchPublic(context.Background(), PublicSearchQuery{OnlyAvailable: true})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "evt_open", items[0].Event.ID)
	})

	t.Run("sorts_by_views_desc", func(t *testing.T) {
		store := newFakeStore()
		store.publicResult = []*domain.Event{
			published("evt_a", now.Add(2*time.Hour), 0),
			published("evt_b", now.Add(3*time.Hour), 0),
		}
		stats := &fakeStats{views: map[string]int64{
			"/events/evt_a": 5,
			"/events/evt_b": 50,
		}}
		svc := newTestService(store, now, stats)

		items, err := svc.SearchPublic(context.Background(), PublicSearchQuery{Sort: SortByViews})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "evt_b", items[0].Event.ID)
	})

	t.Run("paginates_after_enrichment", func(t *testing.T) {
		store := newFakeStore()
		store.publicResult = []*domain.Event{
			published("evt_a", now.Add(2*time.Hour), 0),
			published("evt_b", now.Add(3*time.Hour), 0),
			published("evt_c", now.Add(4*time.Hour), 0),
		}
		svc := newTestService(store, now, nil)

		items, err := svc.SearchPublic(context.Background(), PublicSearchQuery{
			Filter: PublicFilter{From: 1, Size: 1},
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "evt_b", items[0].Event.ID)
	})
}

func ptr[T any](v T) *T { return &v }
