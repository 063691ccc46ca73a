package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type sessionRepository struct {
	pool Pool
}

// NewSessionRepository returns the relational session store.
func NewSessionRepository(pool Pool) repository.SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" || session.UserID == "" {
		return domain.ErrInvalidPayload
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO sessions (id, user_id, token, is_active, expires_at, created_at, updated_at)
	VALUES ($1, $2, $3, TRUE, $4, COALESCE($5, NOW()), NOW())
	RETURNING created_at, updated_at
	`

	if err := conn(ctx, r.pool).QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.ExpiresAt,
		nullTime(session.CreatedAt),
	).Scan(&session.CreatedAt, &session.UpdatedAt); err != nil {
		return classify(err)
	}
	session.Active = true
	return nil
}

func (r *sessionRepository) GetActiveByToken(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
	SELECT s.id, s.user_id, s.token, s.is_active, s.expires_at, s.created_at, s.updated_at, u.role
	FROM sessions s
	JOIN users u ON u.id = s.user_id
	WHERE s.token = $1 AND s.is_active
	ORDER BY s.created_at DESC
	LIMIT 1
	`

	var session domain.Session
	if err := conn(ctx, r.pool).QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.Active,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.UserRole,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Deactivate(ctx context.Context, token string) error {
	const query = `
	UPDATE sessions
	SET is_active = FALSE,
		updated_at = NOW()
	WHERE token = $1 AND is_active
	`
	_, err := conn(ctx, r.pool).Exec(ctx, query, token)
	return err
}

func (r *sessionRepository) ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	const query = `
	UPDATE sessions
	SET expires_at = GREATEST(expires_at, $2),
		updated_at = NOW()
	WHERE token = $1 AND is_active
	`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, token, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `
	UPDATE sessions
	SET is_active = FALSE,
		updated_at = NOW()
	WHERE is_active AND expires_at <= $1
	`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
