package transport

import (
	"strings"
	"unicode"

	"github.com/fastygo/tasktracker/domain"
)

const minUsernameLength = 3

type LoginRequest struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
}

// Normalize trims the credentials and checks their shape.
func (r *LoginRequest) Normalize() error {
	r.Username = strings.TrimSpace(r.Username)
	r.HashedPassword = strings.TrimSpace(r.HashedPassword)

	if len(r.Username) < minUsernameLength {
		return domain.Invalid("username must be at least 3 characters long")
	}
	for _, c := range r.Username {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return domain.Invalid("username must be alphanumeric")
		}
	}
	if r.HashedPassword == "" {
		return domain.Invalid("hashed_password cannot be empty")
	}
	return nil
}

// CreateTaskRequest is decoded as is; field rules live in the task use case.
type CreateTaskRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Coordinator string   `json:"coordinator"`
	Assignees   []string `json:"assignees"`
	Status      string   `json:"status"`
	Priority    *int     `json:"priority"`
}

// Check reports missing required fields before the use case sees the request.
func (r CreateTaskRequest) Check() error {
	switch {
	case r.Coordinator == "":
		return domain.Invalid("coordinator is required")
	case r.Status == "":
		return domain.Invalid("status is required")
	case r.Priority == nil:
		return domain.Invalid("priority is required")
	}
	return nil
}
