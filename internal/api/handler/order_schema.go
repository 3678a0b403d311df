package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type purchaserRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type orderLineRequest struct {
	Name      string  `json:"name"       validate:"required"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Quantity  int     `json:"quantity"   validate:"gt=0"`
}

type placeOrderRequest struct {
	Purchaser     purchaserRequest   `json:"purchaser"      validate:"required"`
	Items         []orderLineRequest `json:"items"          validate:"required,min=1,dive"`
	TotalAmount   float64            `json:"total_amount"   validate:"gte=0"`
	PaymentMethod string             `json:"payment_method" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract does not follow domain changes.

type purchaserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderLineResponse struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type statusHistoryItemResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type orderResponse struct {
	ID            string                      `json:"id"`
	Purchaser     purchaserResponse           `json:"purchaser"`
	Items         []orderLineResponse         `json:"items"`
	TotalAmount   float64                     `json:"total_amount"`
	PaymentMethod string                      `json:"payment_method"`
	Status        string                      `json:"status"`
	StatusHistory []statusHistoryItemResponse `json:"status_history"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
