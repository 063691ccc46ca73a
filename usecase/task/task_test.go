package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/retry"
	"github.com/fastygo/tasktracker/repository/mocks"
)

const (
	coordinatorID = "6f1c1f3e-5a43-4d0b-9a53-3f1f3c5f7a10"
	assigneeA     = "0b7f6f5e-1c2d-4e3f-8a9b-0c1d2e3f4a5b"
	assigneeB     = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
)

func newUseCase(t *testing.T) (*UseCase, *mocks.TaskRepository, *mocks.UserRepository, *mocks.Transactor) {
	t.Helper()
	tasks := new(mocks.TaskRepository)
	users := new(mocks.UserRepository)
	tx := new(mocks.Transactor)
	t.Cleanup(func() {
		tasks.AssertExpectations(t)
		users.AssertExpectations(t)
	})
	uc := New(tasks, users, tx, retry.Policy{Attempts: 2, Interval: time.Millisecond}, nil)
	return uc, tasks, users, tx
}

func validInput() CreateInput {
	return CreateInput{
		Name:          "  Write report  ",
		CoordinatorID: coordinatorID,
		AssigneeIDs:   []string{assigneeA, assigneeB, assigneeA},
		Status:        domain.TaskStatusTodo,
		Priority:      2,
	}
}

func TestCreateTaskPersistsTaskWithAssignees(t *testing.T) {
	uc, tasks, users, tx := newUseCase(t)

	users.On("FindByIDs", mock.Anything, []string{coordinatorID, assigneeA, assigneeB}).
		Return([]domain.User{{ID: coordinatorID}, {ID: assigneeA}, {ID: assigneeB}}, nil).Once()
	tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		return task.Name == "Write report" &&
			task.CoordinatorID == coordinatorID &&
			assert.ObjectsAreEqual([]string{assigneeA, assigneeB}, task.AssigneeIDs)
	})).Return(&domain.Task{ID: "task-1", AssigneeIDs: []string{assigneeA, assigneeB}}, nil).Once()

	created, err := uc.CreateTask(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "task-1", created.ID)
	assert.Equal(t, 1, tx.Calls)
}

func TestCreateTaskUnknownAssigneeStoresNothing(t *testing.T) {
	uc, tasks, users, _ := newUseCase(t)

	users.On("FindByIDs", mock.Anything, mock.Anything).
		Return([]domain.User{{ID: coordinatorID}, {ID: assigneeA}}, nil).Once()

	_, err := uc.CreateTask(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Contains(t, err.Error(), "user "+assigneeB+" not found")
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTaskUnknownCoordinator(t *testing.T) {
	uc, tasks, users, _ := newUseCase(t)

	users.On("FindByIDs", mock.Anything, mock.Anything).
		Return([]domain.User{{ID: assigneeA}, {ID: assigneeB}}, nil).Once()

	_, err := uc.CreateTask(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), coordinatorID)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTaskValidation(t *testing.T) {
	long := strings.Repeat("x", 1025)
	cases := []struct {
		name   string
		mutate func(in *CreateInput)
	}{
		{"short name", func(in *CreateInput) { in.Name = " ab " }},
		{"long name", func(in *CreateInput) { in.Name = strings.Repeat("n", 256) }},
		{"long description", func(in *CreateInput) { in.Description = &long }},
		{"bad coordinator", func(in *CreateInput) { in.CoordinatorID = "not-a-uuid" }},
		{"no assignees", func(in *CreateInput) { in.AssigneeIDs = nil }},
		{"bad assignee", func(in *CreateInput) { in.AssigneeIDs = []string{assigneeA, "nope"} }},
		{"unknown status", func(in *CreateInput) { in.Status = "Blocked" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, _, tx := newUseCase(t)
			in := validInput()
			tc.mutate(&in)

			_, err := uc.CreateTask(context.Background(), in)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
			assert.Zero(t, tx.Calls)
		})
	}
}

func TestCreateTaskDoesNotRetryDomainErrors(t *testing.T) {
	uc, _, users, tx := newUseCase(t)

	users.On("FindByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil).Once()

	_, err := uc.CreateTask(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, 1, tx.Calls)
}

func TestListTasks(t *testing.T) {
	uc, tasks, _, tx := newUseCase(t)

	tasks.On("List", mock.Anything).Return([]domain.Task{{ID: "a"}, {ID: "b"}}, nil).Once()

	list, err := uc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1, tx.Calls)
}

func TestListTasksRetriesTransientFailure(t *testing.T) {
	uc, tasks, _, tx := newUseCase(t)

	tasks.On("List", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	tasks.On("List", mock.Anything).Return([]domain.Task{{ID: "a"}}, nil).Once()

	list, err := uc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, tx.Calls)
}
