package domain

import (
	"strings"

	"github.com/google/uuid"
)

type User struct {
	ID    string
	Name  string
	Email string
}

func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || len(name) > 250 {
		return nil, ErrValidation("user name is required and must be <= 250 chars")
	}
	if email == "" || len(email) > 254 || !strings.Contains(email, "@") {
		return nil, ErrValidation("a valid email is required")
	}
	return &User{ID: uuid.NewString(), Name: name, Email: email}, nil
}
