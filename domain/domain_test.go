package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/tasktracker/domain"
)

func TestTaskStatusValid(t *testing.T) {
	for _, s := range []domain.TaskStatus{domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone} {
		assert.True(t, s.Valid(), string(s))
	}
	for _, s := range []domain.TaskStatus{"", "todo", "DONE", "In progress"} {
		assert.False(t, s.Valid(), string(s))
	}
}

func TestTaskActorIDs(t *testing.T) {
	task := &domain.Task{CoordinatorID: "u1", AssigneeIDs: []string{"u2", "u1", "u3", "u2"}}
	assert.Equal(t, []string{"u1", "u2", "u3"}, task.ActorIDs())

	var nilTask *domain.Task
	assert.Nil(t, nilTask.ActorIDs())
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := &domain.Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Minute)), "expiry instant counts as expired")
	assert.True(t, s.IsExpired(now.Add(time.Hour)))

	var nilSession *domain.Session
	assert.True(t, nilSession.IsExpired(now))
}

func TestErrorClassification(t *testing.T) {
	err := fmt.Errorf("create task: %w", domain.UserNotFound("abc"))

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.False(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.Contains(t, err.Error(), "user abc not found")

	assert.True(t, domain.IsDomainError(domain.ErrInvalidCredentials, domain.ErrCodeForbidden))
	assert.True(t, errors.Is(domain.Invalid("name too short"), domain.ErrInvalidPayload))
	assert.False(t, domain.IsDomainError(errors.New("boom"), domain.ErrCodeInternal))
}
