package domain

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusDelivered OrderStatus = "Delivered"
	StatusRejected  OrderStatus = "Rejected"
)

// forwardTransitions lists the moves the business intends. Terminal states have none.
var forwardTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusDelivered, StatusRejected},
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaleOrder        = errors.New("order was modified concurrently")
	ErrTotalMismatch     = errors.New("total amount does not match order lines")
	ErrRequestInFlight   = errors.New("request with this idempotency key is in progress")
)

// ParseOrderStatus converts s into one of the enumerated statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusDelivered, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// Terminal reports whether no forward transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(forwardTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is a forward transition.
// Re-applying the current status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range forwardTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition checks a requested status change. Statuses outside the
// enumeration always fail with ErrInvalidStatus. When strict is set, leaving a
// terminal state fails with ErrInvalidTransition; otherwise any-to-any is allowed.
func ValidateTransition(from, to OrderStatus, strict bool) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if strict && !from.CanTransitionTo(to) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, from, to)
	}
	return nil
}

// Purchaser is the name/email snapshot copied onto an order when it is placed.
type Purchaser struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// OrderLine is a single ordered item.
type OrderLine struct {
	Name      string  `json:"name" bson:"name"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// StatusHistoryEntry records a single status change on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// Order is the ledger aggregate root.
type Order struct {
	ID             string               `json:"id" bson:"-"`
	Purchaser      Purchaser            `json:"purchaser" bson:"purchaser"`
	Lines          []OrderLine          `json:"items" bson:"items"`
	TotalAmount    float64              `json:"total_amount" bson:"total_amount"`
	PaymentMethod  string               `json:"payment_method" bson:"payment_method"`
	Status         OrderStatus          `json:"status" bson:"status"`
	StatusHistory  []StatusHistoryEntry `json:"status_history" bson:"status_history"`
	IdempotencyKey string               `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// NextTimestamp returns now, or the smallest step after prev when the clock
// has not advanced past it. Stored timestamps have millisecond precision.
func NextTimestamp(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
