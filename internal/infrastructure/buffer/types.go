package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntitySession = "session"

	OperationDeactivate = "deactivate"
	OperationExtend     = "extend"
)

// Lower priorities drain first: a pending deactivation must land before any
// extension of the same session is replayed.
const (
	PriorityDeactivate = 1
	PriorityExtend     = 3
)

// Item represents a session write that should be retried once primary storage is reachable.
type Item struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

// SessionWrite is the payload of an EntitySession item.
type SessionWrite struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = PriorityExtend
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
