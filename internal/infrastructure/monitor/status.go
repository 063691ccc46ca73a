package monitor

import "time"

type Status struct {
	PostgreSQL   bool      `json:"postgresql"`
	Redis        bool      `json:"redis"`
	RedisEnabled bool      `json:"redis_enabled"`
	Buffer       bool      `json:"buffer"`
	BufferSize   int       `json:"buffer_size"`
	LastCheck    time.Time `json:"last_check"`
}

// Healthy is true when Postgres is reachable and, if the cache is enabled, Redis too.
func (s Status) Healthy() bool {
	return s.PostgreSQL && (!s.RedisEnabled || s.Redis)
}
