package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/dkomarev/afisha/internal/domain"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore { return &CategoryStore{db: db} }

func (s *CategoryStore) Create(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if uniqueViolation(err) {
		return domain.ErrConflict("category name must be unique")
	}
	return err
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("category not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if uniqueViolation(err) {
		return domain.ErrConflict("category name must be unique")
	}
	return err
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (s *CategoryStore) List(ctx context.Context, from, size int) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY name, id OFFSET $1 LIMIT $2`, from, size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CategoryStore) HasEvents(ctx context.Context, id string) (bool, error) {
	var used bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE category_id = $1)`, id).Scan(&used)
	return used, err
}

func (s *CategoryStore) ExistAll(ctx context.Context, ids []string) (bool, error) {
	uniq := dedup(ids)
	if len(uniq) == 0 {
		return true, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, pq.Array(uniq)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == len(uniq), nil
}
