package usecase

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

const (
	OperationDeactivate = "deactivate"
	OperationExtend     = "extend"
)

// SessionWriteBuffer takes over best-effort session writes that could not be
// persisted right away, so the request that triggered them is not failed.
type SessionWriteBuffer interface {
	BufferSessionWrite(ctx context.Context, operation string, session *domain.Session) error
}
