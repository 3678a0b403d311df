package ports

import (
	"context"
	"time"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// ListOrdersFilter carries query parameters for listing orders.
type ListOrdersFilter struct {
	Email string // empty = every order
	Page  int    // 1-based; ignored when Limit is 0
	Limit int    // 0 = no pagination
}

// OrderRepository defines persistence operations for the ledger.
type OrderRepository interface {
	// Create inserts o and sets its ID.
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	// UpdateStatus sets the status only if the stored status still equals from,
	// appends a history entry and returns the updated order. It returns
	// domain.ErrOrderNotFound for unknown ids and domain.ErrStaleOrder when the
	// stored status changed in between.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, ts time.Time) (*domain.Order, error)
	Delete(ctx context.Context, id string) (*domain.Order, error)
	// List returns orders newest first, ties broken by insertion order.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
}
