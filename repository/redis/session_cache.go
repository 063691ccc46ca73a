package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type sessionCache struct {
	client redislib.Cmdable
	prefix string
	ttl    time.Duration
}

// NewSessionCache creates a Redis-backed cache of active sessions keyed by token.
// Entries live for at most ttl and never beyond the session's own expiry.
func NewSessionCache(client redislib.Cmdable, ttl time.Duration) repository.SessionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &sessionCache{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (c *sessionCache) Get(ctx context.Context, token string) (*domain.Session, error) {
	result, err := c.client.Get(ctx, c.key(token)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Put(ctx context.Context, session *domain.Session) error {
	if session == nil || session.Token == "" {
		return domain.ErrInvalidPayload
	}
	if !session.Active {
		return c.Delete(ctx, session.Token)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return c.Delete(ctx, session.Token)
	}
	if ttl > c.ttl {
		ttl = c.ttl
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.Token), payload, ttl).Err()
}

func (c *sessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}

func (c *sessionCache) key(token string) string {
	return fmt.Sprintf("%s%s", c.prefix, token)
}
