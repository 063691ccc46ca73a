package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetActiveByCredentials matches username and stored credential exactly.
	GetActiveByCredentials(ctx context.Context, username, hashedPassword string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
