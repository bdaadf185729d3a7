package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkomarev/afisha/internal/domain"
)

type CompilationStore struct {
	db *sql.DB
}

func NewCompilationStore(db *sql.DB) *CompilationStore { return &CompilationStore{db: db} }

func (s *CompilationStore) Create(ctx context.Context, c *domain.Compilation) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO compilations (id, title, pinned) VALUES ($1, $2, $3)`,
			c.ID, c.Title, c.Pinned)
		if uniqueViolation(err) {
			return domain.ErrConflict("compilation title must be unique")
		}
		if err != nil {
			return err
		}
		return insertCompilationEvents(ctx, tx, c.ID, c.EventIDs)
	})
}

func (s *CompilationStore) GetByID(ctx context.Context, id string) (*domain.Compilation, error) {
	var c domain.Compilation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Pinned)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("compilation not found")
	}
	if err != nil {
		return nil, err
	}
	c.EventIDs, err = s.eventIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update rewrites the member list wholesale; position keeps the caller's
// ordering stable.
func (s *CompilationStore) Update(ctx context.Context, c *domain.Compilation) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`,
			c.ID, c.Title, c.Pinned)
		if uniqueViolation(err) {
			return domain.ErrConflict("compilation title must be unique")
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM compilation_events WHERE compilation_id = $1`, c.ID); err != nil {
			return err
		}
		return insertCompilationEvents(ctx, tx, c.ID, c.EventIDs)
	})
}

func (s *CompilationStore) Delete(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM compilation_events WHERE compilation_id = $1`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
		return err
	})
}

func (s *CompilationStore) List(ctx context.Context, pinned *bool, from, size int) ([]*domain.Compilation, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if pinned != nil {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, title, pinned FROM compilations WHERE pinned = $1
			 ORDER BY title, id OFFSET $2 LIMIT $3`, *pinned, from, size)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, title, pinned FROM compilations
			 ORDER BY title, id OFFSET $1 LIMIT $2`, from, size)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Compilation
	for rows.Next() {
		var c domain.Compilation
		if err := rows.Scan(&c.ID, &c.Title, &c.Pinned); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range out {
		if c.EventIDs, err = s.eventIDs(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *CompilationStore) eventIDs(ctx context.Context, compilationID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id FROM compilation_events WHERE compilation_id = $1 ORDER BY position`,
		compilationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *CompilationStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
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
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertCompilationEvents(ctx context.Context, tx *sql.Tx, compilationID string, eventIDs []string) error {
	for i, id := range eventIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id, position) VALUES ($1, $2, $3)`,
			compilationID, id, i); err != nil {
			return err
		}
	}
	return nil
}
