package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dkomarev/afisha/internal/application/comment"
	"github.com/dkomarev/afisha/internal/domain"
)

const commentColumns = ` id, author_id, event_id, text, status, created_on`

type CommentStore struct {
	db *sql.DB
}

func NewCommentStore(db *sql.DB) *CommentStore { return &CommentStore{db: db} }

func (s *CommentStore) Create(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, author_id, event_id, text, status, created_on)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.AuthorID, c.EventID, c.Text, string(c.Status), c.CreatedOn.UTC())
	if uniqueViolation(err) {
		return domain.ErrConflict("a comment for this event already exists")
	}
	return err
}

func (s *CommentStore) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx,
		`SELECT`+commentColumns+` FROM comments WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("comment not found")
	}
	return c, err
}

func (s *CommentStore) ExistsByAuthorAndEvent(ctx context.Context, authorID, eventID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM comments WHERE author_id = $1 AND event_id = $2)`,
		authorID, eventID).Scan(&exists)
	return exists, err
}

func (s *CommentStore) Update(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE comments SET text = $2, status = $3 WHERE id = $1`,
		c.ID, c.Text, string(c.Status))
	return err
}

func (s *CommentStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func (s *CommentStore) ListByAuthor(ctx context.Context, f comment.AuthorFilter) ([]*domain.Comment, error) {
	where := []string{"author_id = $1"}
	args := []any{f.AuthorID}
	argN := 2

	if len(f.EventIDs) > 0 {
		where = append(where, fmt.Sprintf("event_id = ANY($%d)", argN))
		args = append(args, pq.Array(f.EventIDs))
		argN++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, string(*f.Status))
		argN++
	}

	listSQL := `SELECT` + commentColumns + ` FROM comments
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY created_on DESC, id
OFFSET $` + fmt.Sprintf("%d", argN) + ` LIMIT $` + fmt.Sprintf("%d", argN+1)
	args = append(args, f.From, f.Size)

	rows, err := s.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (s *CommentStore) ListByStatus(ctx context.Context, status *domain.CommentStatus, from, size int) ([]*domain.Comment, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = s.db.QueryContext(ctx,
			`SELECT`+commentColumns+` FROM comments WHERE status = $1
			 ORDER BY created_on DESC, id OFFSET $2 LIMIT $3`,
			string(*status), from, size)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT`+commentColumns+` FROM comments
			 ORDER BY created_on DESC, id OFFSET $1 LIMIT $2`, from, size)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (s *CommentStore) ListApprovedByEvent(ctx context.Context, eventID string, from, size int) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+commentColumns+` FROM comments
		 WHERE event_id = $1 AND status = 'APPROVE'
		 ORDER BY created_on DESC, id OFFSET $2 LIMIT $3`,
		eventID, from, size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var (
		c      domain.Comment
		status string
	)
	if err := row.Scan(&c.ID, &c.AuthorID, &c.EventID, &c.Text, &status, &c.CreatedOn); err != nil {
		return nil, err
	}
	c.Status = domain.CommentStatus(status)
	c.CreatedOn = c.CreatedOn.UTC()
	return &c, nil
}

func collectComments(rows *sql.Rows) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
