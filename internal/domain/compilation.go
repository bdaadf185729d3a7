package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Compilation is a curated, optionally pinned selection of events.
type Compilation struct {
	ID       string
	Title    string
	Pinned   bool
	EventIDs []string
}

func (c *Compilation) Retitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 50 {
		return ErrValidation("compilation title is required and must be <= 50 chars")
	}
	c.Title = title
	return nil
}

func NewCompilation(title string, pinned bool, eventIDs []string) (*Compilation, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 50 {
		return nil, ErrValidation("compilation title is required and must be <= 50 chars")
	}
	return &Compilation{
		ID:       uuid.NewString(),
		Title:    title,
		Pinned:   pinned,
		EventIDs: eventIDs,
	}, nil
}
