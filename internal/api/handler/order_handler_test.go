package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tastybite/food-ordering/internal/api/middleware"
	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

type stubOrderService struct {
	placeFn     func(ctx context.Context, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error)
	setStatusFn func(ctx context.Context, id, status string) (*domain.Order, error)
	removeFn    func(ctx context.Context, id string) (*domain.Order, error)
	mineFn      func(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error)
	allFn       func(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error)
}

func (s *stubOrderService) Place(ctx context.Context, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	return s.placeFn(ctx, in)
}

func (s *stubOrderService) SetStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	return s.setStatusFn(ctx, id, status)
}

func (s *stubOrderService) Remove(ctx context.Context, id string) (*domain.Order, error) {
	return s.removeFn(ctx, id)
}

func (s *stubOrderService) ListForIdentity(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error) {
	return s.mineFn(ctx, f)
}

func (s *stubOrderService) ListAll(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error) {
	return s.allFn(ctx, f)
}

const validOrderBody = `{
	"purchaser": {"name": "Asha", "email": "asha@example.com"},
	"items": [{"name": "Burger", "unit_price": 5, "quantity": 2}],
	"total_amount": 10,
	"payment_method": "COD"
}`

func sampleOrder(id string, status domain.OrderStatus) *domain.Order {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID:            id,
		Purchaser:     domain.Purchaser{Name: "Asha", Email: "asha@example.com"},
		Lines:         []domain.OrderLine{{Name: "Burger", UnitPrice: 5, Quantity: 2}},
		TotalAmount:   10,
		PaymentMethod: "COD",
		Status:        status,
		StatusHistory: []domain.StatusHistoryEntry{{Status: status, Timestamp: ts}},
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

func TestOrderHandler_Place_Created(t *testing.T) {
	e := newEcho()
	svc := &stubOrderService{
		placeFn: func(_ context.Context, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			if in.PurchaserEmail != "asha@example.com" || len(in.Lines) != 1 || in.Lines[0].Quantity != 2 {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.IdempotencyKey != "key-1" {
				t.Fatalf("idempotency key not forwarded: %q", in.IdempotencyKey)
			}
			return &ports.PlaceOrderResult{Order: sampleOrder("o1", domain.StatusPending)}, nil
		},
	}
	h := NewOrderHandler(svc)

	req := jsonRequest(http.MethodPost, "/orders", validOrderBody)
	req.Header.Set(HeaderIdempotencyKey, " key-1 ")
	rec := httptest.NewRecorder()

	if err := h.Place(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "o1" || resp.Status != "Pending" || len(resp.Items) != 1 || len(resp.StatusHistory) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOrderHandler_Place_Replay(t *testing.T) {
	e := newEcho()
	svc := &stubOrderService{
		placeFn: func(context.Context, ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			return &ports.PlaceOrderResult{Order: sampleOrder("o1", domain.StatusPending), AlreadyExisted: true}, nil
		},
	}

	rec := httptest.NewRecorder()
	if err := NewOrderHandler(svc).Place(e.NewContext(jsonRequest(http.MethodPost, "/orders", validOrderBody), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", rec.Code)
	}
}

func TestOrderHandler_Place_InvalidPayloads(t *testing.T) {
	svc := &stubOrderService{
		placeFn: func(context.Context, ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}

	bodies := map[string]string{
		"not json":      "{",
		"no items":      `{"purchaser":{"name":"A","email":"a@x.com"},"items":[],"payment_method":"COD"}`,
		"bad email":     `{"purchaser":{"name":"A","email":"nope"},"items":[{"name":"x","unit_price":1,"quantity":1}],"payment_method":"COD"}`,
		"zero quantity": `{"purchaser":{"name":"A","email":"a@x.com"},"items":[{"name":"x","unit_price":1,"quantity":0}],"payment_method":"COD"}`,
		"no payment":    `{"purchaser":{"name":"A","email":"a@x.com"},"items":[{"name":"x","unit_price":1,"quantity":1}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newEcho().NewContext(jsonRequest(http.MethodPost, "/orders", body), httptest.NewRecorder())
			if err := NewOrderHandler(svc).Place(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	e := newEcho()
	svc := &stubOrderService{
		setStatusFn: func(_ context.Context, id, status string) (*domain.Order, error) {
			if id != "o1" || status != "Delivered" {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			return sampleOrder(id, domain.StatusDelivered), nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/orders/o1", `{"status":"Delivered"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("o1")

	if err := NewOrderHandler(svc).UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOrderHandler_UpdateStatus_PropagatesDomainError(t *testing.T) {
	svc := &stubOrderService{
		setStatusFn: func(context.Context, string, string) (*domain.Order, error) {
			return nil, domain.ErrInvalidStatus
		},
	}
	c := newEcho().NewContext(jsonRequest(http.MethodPut, "/orders/o1", `{"status":"Bogus"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("o1")

	if err := NewOrderHandler(svc).UpdateStatus(c); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestOrderHandler_Remove(t *testing.T) {
	svc := &stubOrderService{
		removeFn: func(_ context.Context, id string) (*domain.Order, error) {
			if id == "missing" {
				return nil, domain.ErrOrderNotFound
			}
			return sampleOrder(id, domain.StatusPending), nil
		},
	}
	h := NewOrderHandler(svc)

	rec := httptest.NewRecorder()
	c := newEcho().NewContext(httptest.NewRequest(http.MethodDelete, "/orders/o1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("o1")
	if err := h.Remove(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}

	c = newEcho().NewContext(httptest.NewRequest(http.MethodDelete, "/orders/missing", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Remove(c); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderHandler_Mine(t *testing.T) {
	var gotFilter ports.ListOrdersFilter
	orders := []*domain.Order{sampleOrder("o2", domain.StatusPending), sampleOrder("o1", domain.StatusDelivered)}
	svc := &stubOrderService{
		mineFn: func(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error) {
			gotFilter = f
			return orders, nil
		},
	}

	rec := httptest.NewRecorder()
	c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/orders?page=2&limit=5", nil), rec)
	c.Set(middleware.ContextKeyClaim, domain.Claim{Email: "asha@example.com", Kind: domain.KindUser})

	if err := NewOrderHandler(svc).Mine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotFilter.Email != "asha@example.com" || gotFilter.Page != 2 || gotFilter.Limit != 5 {
		t.Fatalf("unexpected filter: %+v", gotFilter)
	}

	var resp []orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "o2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOrderHandler_Mine_Rejections(t *testing.T) {
	empty := &stubOrderService{
		mineFn: func(context.Context, ports.ListOrdersFilter) ([]*domain.Order, error) {
			return []*domain.Order{}, nil
		},
	}

	t.Run("no claim", func(t *testing.T) {
		c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/orders", nil), httptest.NewRecorder())
		if err := NewOrderHandler(empty).Mine(c); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("no orders", func(t *testing.T) {
		c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/orders", nil), httptest.NewRecorder())
		c.Set(middleware.ContextKeyClaim, domain.Claim{Email: "new@x.com"})
		if err := NewOrderHandler(empty).Mine(c); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("bad page", func(t *testing.T) {
		c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/orders?page=two", nil), httptest.NewRecorder())
		c.Set(middleware.ContextKeyClaim, domain.Claim{Email: "new@x.com"})
		if err := NewOrderHandler(empty).Mine(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestOrderHandler_All_EmptyIsOK(t *testing.T) {
	svc := &stubOrderService{
		allFn: func(context.Context, ports.ListOrdersFilter) ([]*domain.Order, error) {
			return []*domain.Order{}, nil
		},
	}

	rec := httptest.NewRecorder()
	if err := NewOrderHandler(svc).All(newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/allorders", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("expected an empty JSON array, got %q", got)
	}
}
