package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/pkg/retry"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/usecase"
)

// TokenIssuer mints and checks session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Config holds the session lifetimes.
type Config struct {
	// SessionTTL is the lifetime granted at login.
	SessionTTL time.Duration
	// SlidingTTL is how far each successful check pushes the expiry from now.
	SlidingTTL time.Duration
}

// Deps groups the collaborators of the auth use case. Cache and Buffer are optional.
type Deps struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Tx       repository.Transactor
	Tokens   TokenIssuer
	Cache    repository.SessionCache
	Buffer   usecase.SessionWriteBuffer
	Retry    retry.Policy
	Logger   *zap.Logger
}

// LoginResult is what the transport needs to set the session cookies.
type LoginResult struct {
	Token     string
	Role      string
	ExpiresAt time.Time
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tx       repository.Transactor
	tokens   TokenIssuer
	cache    repository.SessionCache
	buffer   usecase.SessionWriteBuffer
	retry    retry.Policy
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

func New(deps Deps, cfg Config) *UseCase {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Retry.Retryable == nil {
		deps.Retry.Retryable = usecase.IsTransient
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.SlidingTTL <= 0 {
		cfg.SlidingTTL = 4 * 7 * 24 * time.Hour
	}
	return &UseCase{
		users:    deps.Users,
		sessions: deps.Sessions,
		tx:       deps.Tx,
		tokens:   deps.Tokens,
		cache:    deps.Cache,
		buffer:   deps.Buffer,
		retry:    deps.Retry,
		cfg:      cfg,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Login opens a session for the active user matching username and credential.
func (uc *UseCase) Login(ctx context.Context, username, hashedPassword string) (*LoginResult, error) {
	var result *LoginResult

	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
			user, err := uc.users.GetActiveByCredentials(ctx, username, hashedPassword)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return domain.ErrInvalidCredentials
				}
				return err
			}

			token, err := uc.tokens.Issue(user.ID)
			if err != nil {
				return domain.WrapError(domain.ErrCodeInternal, "issue token", err)
			}

			now := uc.now().UTC()
			session := &domain.Session{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				Token:     token,
				CreatedAt: now,
				ExpiresAt: now.Add(uc.cfg.SessionTTL),
				UserRole:  user.Role,
			}
			if err := uc.sessions.Create(ctx, session); err != nil {
				return err
			}

			result = &LoginResult{Token: token, Role: user.Role, ExpiresAt: session.ExpiresAt}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("session opened", zap.String("username", username))
	return result, nil
}

// Authenticate is the session guard: it validates token against the stored
// sessions, checks expiry and role, and slides the expiry window on success.
func (uc *UseCase) Authenticate(ctx context.Context, token, role string) (*domain.Session, error) {
	if token == "" || role == "" {
		return nil, domain.ErrUnauthorized
	}
	subject, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	session, err := uc.lookup(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	now := uc.now().UTC()
	if session.IsExpired(now) {
		uc.deactivate(ctx, session)
		return nil, domain.ErrUnauthorized
	}

	if session.UserID != subject || session.UserRole != role {
		return nil, domain.ErrUnauthorized
	}

	session.ExpiresAt = now.Add(uc.cfg.SlidingTTL)
	if err := uc.extend(ctx, session); err != nil {
		uc.evict(ctx, token)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Logout deactivates the session holding token. Unknown tokens are ignored.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}

	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
			return uc.sessions.Deactivate(ctx, token)
		})
	})
	if err != nil {
		return err
	}

	uc.evict(ctx, token)
	return nil
}

func (uc *UseCase) lookup(ctx context.Context, token string) (*domain.Session, error) {
	if uc.cache != nil {
		session, err := uc.cache.Get(ctx, token)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			logger.WithRequestID(ctx, uc.logger).Warn("session cache read failed", zap.Error(err))
		}
	}

	// The cache is only filled by extend, once the row is confirmed active.
	return uc.sessions.GetActiveByToken(ctx, token)
}

// deactivate is best-effort: failures never reach the caller.
func (uc *UseCase) deactivate(ctx context.Context, session *domain.Session) {
	session.Active = false
	uc.evict(ctx, session.Token)

	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.sessions.Deactivate(ctx, session.Token)
	})
	if err != nil {
		uc.fallback(ctx, usecase.OperationDeactivate, session, err)
	}
}

// extend returns domain.ErrSessionNotFound when the session was deactivated
// concurrently. Storage failures are buffered and do not fail the request.
func (uc *UseCase) extend(ctx context.Context, session *domain.Session) error {
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.sessions.ExtendExpiry(ctx, session.Token, session.ExpiresAt)
	})
	if errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	if err != nil {
		uc.fallback(ctx, usecase.OperationExtend, session, err)
		return nil
	}

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, session); err != nil {
			logger.WithRequestID(ctx, uc.logger).Warn("session cache write failed", zap.Error(err))
		}
	}
	return nil
}

func (uc *UseCase) evict(ctx context.Context, token string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, token); err != nil {
		logger.WithRequestID(ctx, uc.logger).Warn("session cache eviction failed", zap.Error(err))
	}
}

func (uc *UseCase) fallback(ctx context.Context, operation string, session *domain.Session, cause error) {
	log := logger.WithRequestID(ctx, uc.logger).With(zap.String("operation", operation), zap.String("session_id", session.ID))
	if uc.buffer == nil {
		log.Error("session write lost", zap.Error(cause))
		return
	}
	if err := uc.buffer.BufferSessionWrite(ctx, operation, session); err != nil {
		log.Error("failed to buffer session write", zap.Error(cause), zap.NamedError("buffer_error", err))
		return
	}
	log.Warn("session write buffered", zap.Error(cause))
}
