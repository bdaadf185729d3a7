package comment

import (
	"context"

	"github.com/dkomarev/afisha/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Service implements the comment workflow: author-gated creation and a
// moderation state machine parallel to the event one, but simpler.
type Service struct {
	comments Repo
	events   EventRepo
	users    UserRepo
	requests RequestRepo
	clock    Clock
}

func New(comments Repo, events EventRepo, users UserRepo, requests RequestRepo, clock Clock) *Service {
	return &Service{comments: comments, events: events, users: users, requests: requests, clock: clock}
}

// Create accepts a comment from a user holding a CONFIRMED request for the
// event. One comment per (author, event).
func (s *Service) Create(ctx context.Context, authorID, eventID, text string) (*domain.Comment, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByRequesterAndEvent(ctx, authorID, eventID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Status != domain.RequestConfirmed {
		return nil, domain.ErrValidation("commenting requires a confirmed participation request")
	}

	exists, err := s.comments.ExistsByAuthorAndEvent(ctx, authorID, eventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict("a comment for this event already exists")
	}

	c, err := domain.NewComment(authorID, eventID, text, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	zlog.Info().Str("author_id", authorID).Str("event_id", eventID).Msg("comment created")
	return c, nil
}

func (s *Service) Get(ctx context.Context, authorID, commentID string) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != authorID {
		return nil, domain.ErrForbidden("only the author can view the comment")
	}
	return c, nil
}

func (s *Service) ListByAuthor(ctx context.Context, f AuthorFilter) ([]*domain.Comment, error) {
	if _, err := s.users.GetByID(ctx, f.AuthorID); err != nil {
		return nil, err
	}
	f.From, f.Size = clampPage(f.From, f.Size)
	return s.comments.ListByAuthor(ctx, f)
}

// Update lets the author edit a moderated comment; the edit goes back to
// PENDING for re-moderation.
func (s *Service) Update(ctx context.Context, authorID, commentID, text string) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != authorID {
		return nil, domain.ErrForbidden("only the author can update the comment")
	}
	if err := c.Edit(text); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, authorID, commentID string) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != authorID {
		return domain.ErrForbidden("only the author can delete the comment")
	}
	return s.comments.Delete(ctx, c.ID)
}

// Moderate applies the admin approve/reject decision to a pending comment.
func (s *Service) Moderate(ctx context.Context, commentID string, approve bool) (*domain.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := c.Moderate(approve); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListForAdmin(ctx context.Context, status *domain.CommentStatus, from, size int) ([]*domain.Comment, error) {
	from, size = clampPage(from, size)
	return s.comments.ListByStatus(ctx, status, from, size)
}

// ListPublic returns approved comments for a published event.
func (s *Service) ListPublic(ctx context.Context, eventID string, from, size int) ([]*domain.Comment, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	from, size = clampPage(from, size)
	return s.comments.ListApprovedByEvent(ctx, eventID, from, size)
}

func clampPage(from, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return from, size
}
