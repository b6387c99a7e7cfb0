package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is an account holder. Authentication endpoints live outside this
// service; users exist so trip membership has something to reference.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	email := strings.TrimSpace(p.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}
