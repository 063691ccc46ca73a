package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository/postgres"
)

func TestSessionRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := &domain.Session{ID: "s1", UserID: "u1", Token: "tok", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}

	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs("s1", "u1", "tok", now.Add(24*time.Hour), now).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), session))
	assert.True(t, session.Active)

	assert.ErrorIs(t, repo.Create(context.Background(), &domain.Session{UserID: "u1"}), domain.ErrInvalidPayload)
}

func TestSessionRepository_GetActiveByToken(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	now := time.Now().UTC()
	columns := []string{"id", "user_id", "token", "is_active", "expires_at", "created_at", "updated_at", "role"}
	mock.ExpectQuery(`WHERE s.token = \$1 AND s.is_active`).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows(columns).AddRow("s1", "u1", "tok", true, now.Add(time.Hour), now, now, "admin"))

	session, err := repo.GetActiveByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.UserRole)
	assert.True(t, session.Active)
}

func TestSessionRepository_GetActiveByToken_Missing(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	mock.ExpectQuery(`FROM sessions s`).WithArgs("gone").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetActiveByToken(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_DeactivateIsIdempotent(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	mock.ExpectExec(`SET is_active = FALSE`).WithArgs("tok").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`SET is_active = FALSE`).WithArgs("tok").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Deactivate(context.Background(), "tok"))
	require.NoError(t, repo.Deactivate(context.Background(), "tok"))
}

func TestSessionRepository_ExtendExpiry(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	until := time.Now().Add(28 * 24 * time.Hour)
	mock.ExpectExec(`GREATEST\(expires_at, \$2\)`).WithArgs("tok", until).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.ExtendExpiry(context.Background(), "tok", until))
}

func TestSessionRepository_ExtendExpiryInactiveSession(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	until := time.Now().Add(28 * 24 * time.Hour)
	mock.ExpectExec(`GREATEST\(expires_at, \$2\)`).WithArgs("tok", until).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.ExtendExpiry(context.Background(), "tok", until)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_DeactivateExpired(t *testing.T) {
	mock := newMockPool(t)
	repo := postgres.NewSessionRepository(mock)

	now := time.Now()
	mock.ExpectExec(`WHERE is_active AND expires_at <= \$1`).WithArgs(now).WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.DeactivateExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
