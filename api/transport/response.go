package transport

import (
	"encoding/json"
	"time"

	"github.com/fastygo/tasktracker/domain"
)

// SuccessDescription is the description carried by every successful result.
const SuccessDescription = "Success!"

// Envelope is the API response wrapper. Successful responses carry Error with
// code 0 and a Result; failures carry only Detail.
type Envelope struct {
	Error  *ErrorInfo  `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

type ErrorInfo struct {
	Code int `json:"code"`
}

// NewSuccess returns a success envelope.
func NewSuccess(result interface{}) Envelope {
	return Envelope{
		Error:  &ErrorInfo{Code: 0},
		Result: result,
	}
}

// NewError returns a failure envelope.
func NewError(detail string) Envelope {
	return Envelope{Detail: detail}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

type Result struct {
	Description string `json:"description"`
}

type CreateTaskResult struct {
	Description string `json:"description"`
	TaskUUID    string `json:"task_uuid"`
}

type TaskListResult struct {
	Description string     `json:"description"`
	Tasks       []TaskView `json:"tasks"`
}

type TaskView struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Coordinator string   `json:"coordinator"`
	Assignees   []string `json:"assignees"`
	Status      string   `json:"status"`
	Priority    int      `json:"priority"`
	CreatedAt   string   `json:"created_at"`
	LastUpdated string   `json:"last_updated"`
}

// NewTaskView renders a task with RFC 3339 UTC timestamps.
func NewTaskView(task domain.Task) TaskView {
	assignees := task.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}
	return TaskView{
		UUID:        task.ID,
		Name:        task.Name,
		Description: task.Description,
		Coordinator: task.CoordinatorID,
		Assignees:   assignees,
		Status:      string(task.Status),
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
		LastUpdated: task.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewTaskList never returns a nil Tasks slice.
func NewTaskList(tasks []domain.Task) TaskListResult {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, NewTaskView(task))
	}
	return TaskListResult{Description: SuccessDescription, Tasks: views}
}
