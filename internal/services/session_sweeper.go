package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/repository"
)

// SessionSweeper periodically deactivates sessions whose expiry has passed.
type SessionSweeper struct {
	sessions repository.SessionRepository
	monitor  ConnectionHealth
	logger   *zap.Logger
	cron     *cron.Cron
	interval time.Duration
	now      func() time.Time
}

func NewSessionSweeper(sessions repository.SessionRepository, monitor ConnectionHealth, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionSweeper{
		sessions: sessions,
		monitor:  monitor,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
		now:      time.Now,
	}
	if interval > 0 {
		s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("session sweep failed", zap.Error(err))
			}
		}))
	}
	return s
}

func (s *SessionSweeper) Start() {
	if s.interval <= 0 {
		s.logger.Info("session sweeper disabled")
		return
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.Duration("interval", s.interval))
}

func (s *SessionSweeper) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep deactivates every active session that has expired by now.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	if s.monitor != nil && !s.monitor.IsOnline() {
		return 0, nil
	}
	n, err := s.sessions.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions deactivated", zap.Int64("count", n))
	}
	return n, nil
}
