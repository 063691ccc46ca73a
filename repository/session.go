package repository

import (
	"context"
	"time"

	"github.com/fastygo/tasktracker/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// GetActiveByToken loads an active session together with its owner's role.
	GetActiveByToken(ctx context.Context, token string) (*domain.Session, error)
	// Deactivate is idempotent; an unknown or already inactive token is not an error.
	Deactivate(ctx context.Context, token string) error
	// ExtendExpiry never shortens a session. It returns domain.ErrSessionNotFound
	// when no active session holds token.
	ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionCache keeps recently authenticated sessions close to the guard.
type SessionCache interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, token string) error
}
