package handler

import (
	"strings"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

func toPlaceOrderInput(req placeOrderRequest, idempotencyKey string) ports.PlaceOrderInput {
	lines := make([]ports.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, ports.OrderLineInput{
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return ports.PlaceOrderInput{
		PurchaserName:  req.Purchaser.Name,
		PurchaserEmail: req.Purchaser.Email,
		Lines:          lines,
		TotalAmount:    req.TotalAmount,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, orderLineResponse{Name: l.Name, UnitPrice: l.UnitPrice, Quantity: l.Quantity})
	}
	history := make([]statusHistoryItemResponse, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, statusHistoryItemResponse{Status: string(h.Status), Timestamp: h.Timestamp})
	}
	return orderResponse{
		ID:            o.ID,
		Purchaser:     purchaserResponse{Name: o.Purchaser.Name, Email: o.Purchaser.Email},
		Items:         items,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		StatusHistory: history,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
