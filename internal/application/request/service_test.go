package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkomarev/afisha/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeStore struct {
	events   map[string]*domain.Event
	requests map[string]*domain.Request
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:   map[string]*domain.Event{},
		requests: map[string]*domain.Request{},
	}
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound("request not found")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListByRequester(ctx context.Context, requesterID string) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, r := range f.requests {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, r *domain.Request) error {
	f.requests[r.ID] = r
	return nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tr TxRepo) error) error {
	return fn(&fakeTx{store: f})
}

type fakeTx struct{ store *fakeStore }

func (t *fakeTx) GetEventForUpdate(ctx context.Context, eventID string) (*domain.Event, error) {
	e, ok := t.store.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	cp := *e
	return &cp, nil
}

func (t *fakeTx) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	for _, r := range t.store.requests {
		if r.RequesterID == requesterID && r.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
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

func (t *fakeTx) Insert(ctx context.Context, r *domain.Request) error {
	t.store.requests[r.ID] = r
	return nil
}

type fakeUsers struct{ ids map[string]bool }

func (f fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !f.ids[id] {
		return nil, domain.ErrNotFound("user not found")
	}
	return &domain.User{ID: id, Name: "user", Email: "u@example.com"}, nil
}

func newTestService(store *fakeStore, now time.Time) *Service {
	users := fakeUsers{ids: map[string]bool{
		"initiator": true, "guest": true, "guest_2": true,
	}}
	return New(store, users, fakeClock{t: now})
}

func publishedEvent(id string, limit int, moderation bool) *domain.Event {
	return &domain.Event{
		ID:                id,
		InitiatorID:       "initiator",
		CategoryID:        "cat_1",
		Title:             "Jazz night",
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             domain.StatePublished,
	}
}

func TestCreate_InitialStatus(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		limit      int
		moderation bool
		want       domain.RequestStatus
	}{
		{"unlimited_moderated_confirms", 0, true, domain.RequestConfirmed},
		{"unlimited_unmoderated_confirms", 0, false, domain.RequestConfirmed},
		{"limited_unmoderated_confirms", 5, false, domain.RequestConfirmed},
		{"limited_moderated_stays_pending", 5, true, domain.RequestPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.events["evt_1"] = publishedEvent("evt_1", tc.limit, tc.moderation)
			svc := newTestService(store, now)

			req, err := svc.Create(context.Background(), "guest", "evt_1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, req.Status)
			assert.Equal(t, now, req.Created)
		})
	}
}

func TestCreate_Guards(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("unknown_requester_is_not_found", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = publishedEvent("evt_1", 0, true)
		svc := newTestService(store, now)

		_, err := svc.Create(context.Background(), "ghost", "evt_1")
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("unknown_event_is_not_found", func(t *testing.T) {
		svc := newTestService(newFakeStore(), now)
		_, err := svc.Create(context.Background(), "guest", "evt_none")
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("initiator_cannot_request_own_event", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = publishedEvent("evt_1", 0, true)
		svc := newTestService(store, now)

		_, err := svc.Create(context.Background(), "initiator", "evt_1")
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("unpublished_event_conflicts", func(t *testing.T) {
		store := newFakeStore()
		ev := publishedEvent("evt_1", 0, true)
		ev.State = domain.StatePending
		store.events["evt_1"] = ev
		svc := newTestService(store, now)

		_, err := svc.Create(context.Background(), "guest", "evt_1")
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("duplicate_request_conflicts", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = publishedEvent("evt_1", 0, true)
		svc := newTestService(store, now)

		_, err := svc.Create(context.Background(), "guest", "evt_1")
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), "guest", "evt_1")
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("full_event_conflicts", func(t *testing.T) {
		store := newFakeStore()
		store.events["evt_1"] = publishedEvent("evt_1", 1, false)
		svc := newTestService(store, now)

		_, err := svc.Create(context.Background(), "guest", "evt_1")
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), "guest_2", "evt_1")
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("moderated_event_admits_past_capacity_of_pending", func(t *testing.T) {
		// Capacity counts CONFIRMED rows only; pending requests do not block
		// new admissions.
		store := newFakeStore()
		store.events["evt_1"] = publishedEvent("evt_1", 1, true)
		svc := newTestService(store, now)

		_, err := svc.Create(context.Background(), "guest", "evt_1")
		require.NoError(t, err)
		req, err := svc.Create(context.Background(), "guest_2", "evt_1")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestPending, req.Status)
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	seed := func(status domain.RequestStatus) *fakeStore {
		store := newFakeStore()
		store.requests["req_1"] = &domain.Request{
			ID: "req_1", RequesterID: "guest", EventID: "evt_1", Status: status,
		}
		return store
	}

	t.Run("cancels_pending_request", func(t *testing.T) {
		store := seed(domain.RequestPending)
		svc := newTestService(store, now)

		r, err := svc.Cancel(context.Background(), "guest", "req_1")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestCanceled, r.Status)
		assert.Equal(t, domain.RequestCanceled, store.requests["req_1"].Status)
	})

	t.Run("cancels_confirmed_request", func(t *testing.T) {
		svc := newTestService(seed(domain.RequestConfirmed), now)
		r, err := svc.Cancel(context.Background(), "guest", "req_1")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestCanceled, r.Status)
	})

	t.Run("rejected_request_cannot_be_canceled", func(t *testing.T) {
		svc := newTestService(seed(domain.RequestRejected), now)
		_, err := svc.Cancel(context.Background(), "guest", "req_1")
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("only_requester_may_cancel", func(t *testing.T) {
		svc := newTestService(seed(domain.RequestPending), now)
		_, err := svc.Cancel(context.Background(), "guest_2", "req_1")
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})
}
