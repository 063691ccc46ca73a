package domain

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work with one coordinator and at least one assignee.
type Task struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	CoordinatorID string     `json:"coordinator_id"`
	AssigneeIDs   []string   `json:"assignee_ids"`
	Status        TaskStatus `json:"status"`
	Priority      int        `json:"priority"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ActorIDs returns the coordinator followed by the assignees, without duplicates.
func (t *Task) ActorIDs() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(t.AssigneeIDs)+1)
	ids := make([]string, 0, len(t.AssigneeIDs)+1)
	for _, id := range append([]string{t.CoordinatorID}, t.AssigneeIDs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskStatusDone
}
