package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/dkomarev/afisha/internal/application/request"
	"github.com/dkomarev/afisha/internal/domain"
)

type RequestStore struct {
	db *sql.DB
}

func NewRequestStore(db *sql.DB) *RequestStore { return &RequestStore{db: db} }

func (s *RequestStore) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	r, err := scanRequest(s.db.QueryRowContext(ctx, getRequestSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("request not found")
	}
	return r, err
}

func (s *RequestStore) ListByRequester(ctx context.Context, requesterID string) ([]*domain.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+requestColumns+` FROM requests WHERE requester_id = $1 ORDER BY created DESC, id`,
		requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *RequestStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+requestColumns+` FROM requests WHERE event_id = $1 ORDER BY created, id`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *RequestStore) Update(ctx context.Context, r *domain.Request) error {
	_, err := s.db.ExecContext(ctx, updateRequestStatusSQL, r.ID, string(r.Status))
	return err
}

// FindByRequesterAndEvent returns nil without error when no row matches.
func (s *RequestStore) FindByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (*domain.Request, error) {
	r, err := scanRequest(s.db.QueryRowContext(ctx,
		`SELECT`+requestColumns+` FROM requests WHERE requester_id = $1 AND event_id = $2`,
		requesterID, eventID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *RequestStore) ConfirmedCounts(ctx context.Context, eventIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx, confirmedCountsSQL, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RequestStore) WithTx(ctx context.Context, fn func(tr request.TxRepo) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRequestRepo{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRequestRepo struct {
	tx *sql.Tx
}

func (r *txRequestRepo) GetEventForUpdate(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := scanEvent(r.tx.QueryRowContext(ctx, getEventForUpdateSQL, eventID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, err
}

func (r *txRequestRepo) ExistsByRequesterAndEvent(ctx context.Context, requesterID, eventID string) (bool, error) {
	var exists bool
	err := r.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE requester_id = $1 AND event_id = $2)`,
		requesterID, eventID).Scan(&exists)
	return exists, err
}

func (r *txRequestRepo) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.tx.QueryRowContext(ctx, countConfirmedSQL, eventID).Scan(&n)
	return n, err
}

func (r *txRequestRepo) Insert(ctx context.Context, req *domain.Request) error {
	_, err := r.tx.ExecContext(ctx, insertRequestSQL,
		req.ID, req.RequesterID, req.EventID, string(req.Status), req.Created.UTC())
	if uniqueViolation(err) {
		// Backstop behind the in-tx existence check.
		return domain.ErrConflict("a request for this event already exists")
	}
	return err
}
