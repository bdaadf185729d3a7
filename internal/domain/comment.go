package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        string
	AuthorID  string
	EventID   string
	Text      string
	Status    CommentStatus
	CreatedOn time.Time
}

func NewComment(authorID, eventID, text string, now time.Time) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > 2000 {
		return nil, ErrValidation("comment text is required and must be <= 2000 chars")
	}
	return &Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		EventID:   eventID,
		Text:      text,
		Status:    CommentPending,
		CreatedOn: now.UTC(),
	}, nil
}

// Edit replaces the text and sends the comment back to moderation.
// A comment that is still pending cannot be edited.
func (c *Comment) Edit(text string) error {
	if c.Status == CommentPending {
		return ErrValidation("cannot edit comment while it is pending moderation")
	}
	text = strings.TrimSpace(text)
	if text == "" || len(text) > 2000 {
		return ErrValidation("comment text is required and must be <= 2000 chars")
	}
	c.Text = text
	c.Status = CommentPending
	return nil
}

// Moderate applies the admin decision. Only pending comments move.
func (c *Comment) Moderate(approve bool) error {
	if c.Status != CommentPending {
		return ErrConflict("comment must have status PENDING")
	}
	if approve {
		c.Status = CommentApprove
	} else {
		c.Status = CommentReject
	}
	return nil
}
