package ports

import (
	"context"

	"github.com/tastybite/food-ordering/internal/core/domain"
)

// OrderLineInput is a single requested line.
type OrderLineInput struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// PlaceOrderInput carries all data needed to place an order.
type PlaceOrderInput struct {
	PurchaserName  string
	PurchaserEmail string
	Lines          []OrderLineInput
	TotalAmount    float64
	PaymentMethod  string
	IdempotencyKey string
}

// PlaceOrderResult wraps the placed order.
type PlaceOrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// OrderService covers the ledger mutations and the order queries.
type OrderService interface {
	Place(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	SetStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Remove(ctx context.Context, id string) (*domain.Order, error)
	ListForIdentity(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	ListAll(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
}

// IdempotencyStore reserves idempotency keys across requests.
type IdempotencyStore interface {
	// Claim reserves key. When it is already reserved, claimed is false and
	// orderID holds the bound order, or is empty while the first request runs.
	Claim(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Bind(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}
