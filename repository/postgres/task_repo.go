package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type taskRepository struct {
	pool Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

// Create inserts the task and its assignee links. Callers wanting both rows or
// neither run it inside Transactor.WithinTx.
func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || len(task.AssigneeIDs) == 0 {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const insertTask = `
	INSERT INTO tasks (id, name, description, coordinator_id, status, priority)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	const insertAssignees = `
	INSERT INTO task_assignees (task_id, user_id, position)
	SELECT $1, a.user_id, a.position
	FROM unnest($2::uuid[]) WITH ORDINALITY AS a(user_id, position)
	`

	db := conn(ctx, r.pool)
	if err := db.QueryRow(ctx, insertTask,
		task.ID,
		task.Name,
		task.Description,
		task.CoordinatorID,
		string(task.Status),
		task.Priority,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, classify(err)
	}

	if _, err := db.Exec(ctx, insertAssignees, task.ID, task.AssigneeIDs); err != nil {
		return nil, classify(err)
	}

	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT t.id, t.name, t.description, t.coordinator_id, t.status, t.priority, t.created_at, t.updated_at,
		COALESCE(
			array_agg(ta.user_id::text ORDER BY ta.position) FILTER (WHERE ta.user_id IS NOT NULL),
			'{}'::text[]
		) AS assignees
	FROM tasks t
	LEFT JOIN task_assignees ta ON ta.task_id = t.id
	GROUP BY t.id
	ORDER BY t.created_at, t.id
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task   domain.Task
		status string
	)

	if err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&task.CoordinatorID,
		&status,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.AssigneeIDs,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	return &task, nil
}
