package domain

import "time"

// OrderAction names the ledger operation an audit event records.
type OrderAction string

const (
	ActionPlaced        OrderAction = "placed"
	ActionStatusChanged OrderAction = "status_changed"
	ActionRemoved       OrderAction = "removed"
)

// OrderEvent is an audit record of a ledger mutation.
type OrderEvent struct {
	OrderID        string
	Action         OrderAction
	FromStatus     OrderStatus // empty for placements
	ToStatus       OrderStatus // empty for removals
	PurchaserEmail string
	Timestamp      time.Time
}
