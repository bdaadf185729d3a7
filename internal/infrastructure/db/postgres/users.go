package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/dkomarev/afisha/internal/domain"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`, u.ID, u.Name, u.Email)
	if uniqueViolation(err) {
		return domain.ErrConflict("email must be unique")
	}
	return err
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name, &u.Email)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users page by page, or only the requested ids when the
// filter is non-empty.
func (s *UserStore) List(ctx context.Context, ids []string, from, size int) ([]*domain.User, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if len(ids) > 0 {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, name, email FROM users WHERE id = ANY($1) ORDER BY id OFFSET $2 LIMIT $3`,
			pq.Array(ids), from, size)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, name, email FROM users ORDER BY id OFFSET $1 LIMIT $2`, from, size)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
