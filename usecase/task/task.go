package task

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/pkg/retry"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/usecase"
)

const (
	minNameLength        = 3
	maxNameLength        = 255
	maxDescriptionLength = 1024
)

// CreateInput carries an already decoded create-task request.
type CreateInput struct {
	Name          string
	Description   *string
	CoordinatorID string
	AssigneeIDs   []string
	Status        domain.TaskStatus
	Priority      int
}

type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	tx     repository.Transactor
	retry  retry.Policy
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, tx repository.Transactor, policy retry.Policy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Retryable == nil {
		policy.Retryable = usecase.IsTransient
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		tx:     tx,
		retry:  policy,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := uc.tasks.List(ctx)
			if err != nil {
				return err
			}
			tasks = out
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask validates the input, resolves every actor and persists the task.
// Either the task and all of its assignee links are stored, or nothing is.
func (uc *UseCase) CreateTask(ctx context.Context, in CreateInput) (*domain.Task, error) {
	task, err := newTask(in)
	if err != nil {
		return nil, err
	}

	var created *domain.Task
	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := uc.resolveActors(ctx, task); err != nil {
				return err
			}
			attempt := *task
			out, err := uc.tasks.Create(ctx, &attempt)
			if err != nil {
				return err
			}
			created = out
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("task created",
		zap.String("task_id", created.ID),
		zap.Int("assignees", len(created.AssigneeIDs)))
	return created, nil
}

func (uc *UseCase) resolveActors(ctx context.Context, task *domain.Task) error {
	ids := task.ActorIDs()
	users, err := uc.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	found := make(map[string]struct{}, len(users))
	for _, u := range users {
		found[strings.ToLower(u.ID)] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[strings.ToLower(id)]; !ok {
			return domain.UserNotFound(id)
		}
	}
	return nil
}

func newTask(in CreateInput) (*domain.Task, error) {
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, domain.Invalid("name must be at least 3 characters long")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, domain.Invalid("name must be at most 255 characters long")
	}

	var description *string
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(d) > maxDescriptionLength {
			return nil, domain.Invalid("description must be at most 1024 characters long")
		}
		description = &d
	}

	coordinator, err := normalizeID(in.CoordinatorID)
	if err != nil {
		return nil, domain.Invalid("coordinator must be a valid uuid")
	}

	if len(in.AssigneeIDs) == 0 {
		return nil, domain.Invalid("assignees cannot be empty")
	}
	assignees := make([]string, 0, len(in.AssigneeIDs))
	seen := make(map[string]struct{}, len(in.AssigneeIDs))
	for _, raw := range in.AssigneeIDs {
		id, err := normalizeID(raw)
		if err != nil {
			return nil, domain.Invalid("assignees must be valid uuids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		assignees = append(assignees, id)
	}

	if !in.Status.Valid() {
		return nil, domain.Invalid("status must be one of TODO, In Progress, Done")
	}

	return &domain.Task{
		Name:          name,
		Description:   description,
		CoordinatorID: coordinator,
		AssigneeIDs:   assignees,
		Status:        in.Status,
		Priority:      in.Priority,
	}, nil
}

func normalizeID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
