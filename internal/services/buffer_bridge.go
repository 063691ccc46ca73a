package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/infrastructure/buffer"
	"github.com/fastygo/tasktracker/usecase"
)

// BufferBridge adapts the buffer processor to the use case's SessionWriteBuffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferSessionWrite(_ context.Context, operation string, session *domain.Session) error {
	if b.processor == nil || session == nil {
		return domain.ErrInvalidPayload
	}

	item := buffer.Item{
		SessionID: session.ID,
		Entity:    buffer.EntitySession,
	}
	switch operation {
	case usecase.OperationDeactivate:
		item.Operation = buffer.OperationDeactivate
		item.Priority = buffer.PriorityDeactivate
	case usecase.OperationExtend:
		item.Operation = buffer.OperationExtend
		item.Priority = buffer.PriorityExtend
	default:
		return domain.Invalid("unsupported session write " + operation)
	}

	payload, err := json.Marshal(buffer.SessionWrite{Token: session.Token, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return err
	}
	item.Data = payload
	return b.processor.Enqueue(item)
}

var _ usecase.SessionWriteBuffer = (*BufferBridge)(nil)
