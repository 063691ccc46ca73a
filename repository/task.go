package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

type TaskRepository interface {
	// Create persists the task row and its assignee links.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
}
