package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dkomarev/afisha/internal/application/event"
	"github.com/dkomarev/afisha/internal/domain"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore { return &EventStore{db: db} }

func (s *EventStore) Create(ctx context.Context, e *domain.Event) error {
	_, err := s.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.InitiatorID, e.CategoryID, e.Title, e.Annotation, e.Description,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		string(e.State), e.EventDate.UTC(), e.CreatedOn.UTC(), nullTime(e.PublishedOn),
	)
	return err
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, getEventSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, err
}

func (s *EventStore) ListByInitiator(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, listEventsByInitiatorSQL, initiatorID, from, size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ExistAll reports whether every given id resolves to an event row.
func (s *EventStore) ExistAll(ctx context.Context, ids []string) (bool, error) {
	uniq := dedup(ids)
	if len(uniq) == 0 {
		return true, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE id = ANY($1)`, pq.Array(uniq),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == len(uniq), nil
}

// Search builds the admin filter dynamically; empty fields are skipped.
func (s *EventStore) Search(ctx context.Context, f event.AdminFilter) ([]*domain.Event, error) {
	where := []string{}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if len(f.InitiatorIDs) > 0 {
		add("initiator_id = ANY($%d)", pq.Array(f.InitiatorIDs))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, st := range f.States {
			states[i] = string(st)
		}
		add("state = ANY($%d)", pq.Array(states))
	}
	if len(f.CategoryIDs) > 0 {
		add("category_id = ANY($%d)", pq.Array(f.CategoryIDs))
	}
	if f.RangeStart != nil {
		add("event_date >= $%d", f.RangeStart.UTC())
	}
	if f.RangeEnd != nil {
		add("event_date <= $%d", f.RangeEnd.UTC())
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	listSQL := `
SELECT` + eventColumns + `
FROM events
` + whereSQL + `
ORDER BY event_date ASC, id ASC
OFFSET $` + fmt.Sprintf("%d", argN) + ` LIMIT $` + fmt.Sprintf("%d", argN+1)
	args = append(args, f.From, f.Size)

	rows, err := s.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// SearchPublic returns published events only. Size <= 0 means no limit;
// the caller paginates after enrichment when it sorts by views.
func (s *EventStore) SearchPublic(ctx context.Context, f event.PublicFilter) ([]*domain.Event, error) {
	where := []string{"state = 'PUBLISHED'"}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		where = append(where, fmt.Sprintf("(annotation ILIKE $%d OR description ILIKE $%d)", argN, argN))
		args = append(args, "%"+text+"%")
		argN++
	}
	if len(f.CategoryIDs) > 0 {
		add("category_id = ANY($%d)", pq.Array(f.CategoryIDs))
	}
	if f.Paid != nil {
		add("paid = $%d", *f.Paid)
	}
	if f.RangeStart != nil {
		add("event_date >= $%d", f.RangeStart.UTC())
	}
	if f.RangeEnd != nil {
		add("event_date <= $%d", f.RangeEnd.UTC())
	}

	listSQL := `
SELECT` + eventColumns + `
FROM events
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY event_date ASC, id ASC`

	if f.Size > 0 {
		listSQL += fmt.Sprintf("\nOFFSET $%d LIMIT $%d", argN, argN+1)
		args = append(args, f.From, f.Size)
	}

	rows, err := s.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *EventStore) WithTx(ctx context.Context, fn func(tr event.TxEventRepo) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		// Rollback on panic to avoid a leaked tx.
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txEventRepo{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txEventRepo struct {
	tx *sql.Tx
}

func (r *txEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.tx.QueryRowContext(ctx, getEventForUpdateSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, err
}

func (r *txEventRepo) Update(ctx context.Context, e *domain.Event) error {
	_, err := r.tx.ExecContext(ctx, updateEventSQL,
		e.ID,
		e.CategoryID, e.Title, e.Annotation, e.Description,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		string(e.State), e.EventDate.UTC(), nullTime(e.PublishedOn),
	)
	return err
}

func (r *txEventRepo) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.tx.QueryRowContext(ctx, countConfirmedSQL, eventID).Scan(&n)
	return n, err
}

func (r *txEventRepo) GetRequestsByIDs(ctx context.Context, ids []string) ([]*domain.Request, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.tx.QueryContext(ctx,
		`SELECT`+requestColumns+` FROM requests WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *txEventRepo) UpdateRequests(ctx context.Context, reqs []*domain.Request) error {
	for _, req := range reqs {
		if _, err := r.tx.ExecContext(ctx, updateRequestStatusSQL, req.ID, string(req.Status)); err != nil {
			return err
		}
	}
	return nil
}

func (r *txEventRepo) InsertOutbox(ctx context.Context, msg event.OutboxMessage) error {
	// JSON goes in as text cast to jsonb for lib/pq compatibility;
	// next_retry_at = created_at makes the row immediately pollable.
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID, msg.RoutingKey, string(msg.Body), msg.CreatedAt.UTC())
	return err
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	var out []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func collectRequests(rows *sql.Rows) ([]*domain.Request, error) {
	var out []*domain.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
