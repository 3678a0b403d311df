package ports

import (
	"context"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// EventRepository persists the order audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
}
