package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return tt.UTC()
}

func TestNewEvent_Validation(t *testing.T) {
	now := mustTime(t, "2025-06-10T10:00:00Z")
	date := now.Add(3 * time.Hour)

	t.Run("valid_event_starts_pending", func(t *testing.T) {
		e, err := NewEvent("u1", "cat1", "Concert", "Open air", "Full description", Location{Lat: 55.75, Lon: 37.61}, true, 100, true, date, now)
		assert.NoError(t, err)
		assert.Equal(t, StatePending, e.State)
		assert.Nil(t, e.PublishedOn)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, now, e.CreatedOn)
	})

	t.Run("fail_on_short_lead_time", func(t *testing.T) {
		_, err := NewEvent("u1", "cat1", "t", "a", "d", Location{}, false, 0, true, now.Add(90*time.Minute), now)
		assert.Error(t, err)
		assert.Equal(t, CodeValidation, err.(*AppError).Code)
	})

	t.Run("fail_on_negative_limit", func(t *testing.T) {
		_, err := NewEvent("u1", "cat1", "t", "a", "d", Location{}, false, -1, true, date, now)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "participant limit")
	})
}

func TestEvent_LifecycleTransitions(t *testing.T) {
	now := mustTime(t, "2025-06-10T10:00:00Z")
	date := now.Add(3 * time.Hour)

	newEvent := func(t *testing.T) *Event {
		e, err := NewEvent("u1", "cat1", "t", "a", "d", Location{}, false, 0, true, date, now)
		assert.NoError(t, err)
		return e
	}

	t.Run("publish_from_pending_sets_published_on", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.Publish(now))
		assert.Equal(t, StatePublished, e.State)
		assert.NotNil(t, e.PublishedOn)
		assert.Equal(t, now, *e.PublishedOn)
	})

	t.Run("publish_fails_within_one_hour_of_start", func(t *testing.T) {
		e := newEvent(t)
		err := e.Publish(date.Add(-30 * time.Minute))
		assert.Error(t, err)
		assert.Equal(t, CodeConflict, err.(*AppError).Code)
		assert.Nil(t, e.PublishedOn)
	})

	t.Run("publish_at_exactly_one_hour_succeeds", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.Publish(date.Add(-time.Hour)))
	})

	t.Run("publish_only_from_pending", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.CancelReview())
		err := e.Publish(now)
		assert.Error(t, err)
		assert.Equal(t, CodeConflict, err.(*AppError).Code)
	})

	t.Run("reject_pending_cancels", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.Reject())
		assert.Equal(t, StateCanceled, e.State)
	})

	t.Run("reject_published_fails", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.Publish(now))
		err := e.Reject()
		assert.Error(t, err)
		assert.Equal(t, CodeConflict, err.(*AppError).Code)
		assert.Equal(t, StatePublished, e.State)
	})

	t.Run("review_toggle_between_pending_and_canceled", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.CancelReview())
		assert.Equal(t, StateCanceled, e.State)
		assert.True(t, e.Editable())
		assert.NoError(t, e.SendToReview())
		assert.Equal(t, StatePending, e.State)
	})

	t.Run("send_to_review_fails_when_published", func(t *testing.T) {
		e := newEvent(t)
		assert.NoError(t, e.Publish(now))
		assert.Error(t, e.SendToReview())
		assert.Error(t, e.CancelReview())
		assert.False(t, e.Editable())
	})
}

func TestEvent_ApplyPatch(t *testing.T) {
	now := mustTime(t, "2025-06-10T10:00:00Z")
	date := now.Add(3 * time.Hour)
	e, err := NewEvent("u1", "cat1", "Old title", "a", "d", Location{}, false, 10, true, date, now)
	assert.NoError(t, err)

	t.Run("absent_fields_left_untouched", func(t *testing.T) {
		title := "New title"
		assert.NoError(t, e.ApplyPatch(EventPatch{Title: &title}, now))
		assert.Equal(t, "New title", e.Title)
		assert.Equal(t, 10, e.ParticipantLimit)
		assert.Equal(t, date, e.EventDate)
	})

	t.Run("event_date_reruns_lead_time_check", func(t *testing.T) {
		tooClose := now.Add(time.Hour)
		err := e.ApplyPatch(EventPatch{EventDate: &tooClose}, now)
		assert.Error(t, err)
		assert.Equal(t, CodeValidation, err.(*AppError).Code)
		assert.Equal(t, date, e.EventDate)
	})

	t.Run("limit_and_moderation_patch", func(t *testing.T) {
		limit := 0
		moderation := false
		assert.NoError(t, e.ApplyPatch(EventPatch{ParticipantLimit: &limit, RequestModeration: &moderation}, now))
		assert.Equal(t, 0, e.ParticipantLimit)
		assert.False(t, e.RequestModeration)
	})
}

func TestRequest_InitialStatus(t *testing.T) {
	now := mustTime(t, "2025-06-10T10:00:00Z")

	cases := []struct {
		name       string
		limit      int
		moderation bool
		want       RequestStatus
	}{
		{"unlimited_moderated_auto_confirms", 0, true, RequestConfirmed},
		{"unlimited_unmoderated_auto_confirms", 0, false, RequestConfirmed},
		{"limited_unmoderated_auto_confirms", 5, false, RequestConfirmed},
		{"limited_moderated_stays_pending", 5, true, RequestPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := &Event{ID: "e1", ParticipantLimit: tc.limit, RequestModeration: tc.moderation}
			r := NewRequest("u2", ev, now)
			assert.Equal(t, tc.want, r.Status)
			assert.Equal(t, now, r.Created)
		})
	}
}

func TestRequest_Cancel(t *testing.T) {
	t.Run("pending_and_confirmed_cancel", func(t *testing.T) {
		for _, st := range []RequestStatus{RequestPending, RequestConfirmed} {
			r := &Request{Status: st}
			assert.NoError(t, r.Cancel())
			assert.Equal(t, RequestCanceled, r.Status)
		}
	})

	t.Run("terminal_statuses_conflict", func(t *testing.T) {
		for _, st := range []RequestStatus{RequestRejected, RequestCanceled} {
			r := &Request{Status: st}
			err := r.Cancel()
			assert.Error(t, err)
			assert.Equal(t, CodeConflict, err.(*AppError).Code)
		}
	})
}

func TestComment_Moderation(t *testing.T) {
	now := mustTime(t, "2025-06-10T10:00:00Z")
	c, err := NewComment("u1", "e1", "great event", now)
	assert.NoError(t, err)
	assert.Equal(t, CommentPending, c.Status)

	t.Run("cannot_edit_while_pending", func(t *testing.T) {
		assert.Error(t, c.Edit("changed"))
	})

	t.Run("approve_then_edit_returns_to_pending", func(t *testing.T) {
		assert.NoError(t, c.Moderate(true))
		assert.Equal(t, CommentApprove, c.Status)
		assert.NoError(t, c.Edit("changed"))
		assert.Equal(t, CommentPending, c.Status)
	})

	t.Run("moderating_non_pending_conflicts", func(t *testing.T) {
		assert.NoError(t, c.Moderate(false))
		err := c.Moderate(true)
		assert.Error(t, err)
		assert.Equal(t, CodeConflict, err.(*AppError).Code)
	})
}
