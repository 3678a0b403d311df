package ports

import (
	"context"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// EventPublisher hands audit events to asynchronous processing.
type EventPublisher interface {
	Enqueue(event domain.OrderEvent)
}

// AuditService processes a single audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.OrderEvent) error
}
