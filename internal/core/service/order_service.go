package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// TotalPolicy decides what happens to the client-supplied order total.
type TotalPolicy string

const (
	// TotalTrust stores the client total as sent.
	TotalTrust TotalPolicy = "trust"
	// TotalVerify rejects totals that differ from the sum of the lines.
	TotalVerify TotalPolicy = "verify"
)

const (
	maxListLimit = 100
	// pages past this are answered empty without touching the store
	maxListPage = 1_000_000
)

// ParseTotalPolicy accepts trust or verify (case-insensitive).
func ParseTotalPolicy(s string) (TotalPolicy, error) {
	switch p := TotalPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case TotalTrust, TotalVerify:
		return p, nil
	}
	return "", fmt.Errorf("unknown order total policy %q", s)
}

// OrderOptions configures ledger rules.
type OrderOptions struct {
	StrictTransitions bool
	TotalPolicy       TotalPolicy
}

// OrderService implements the order ledger and its queries.
type OrderService struct {
	repo   ports.OrderRepository
	idem   ports.IdempotencyStore
	events ports.EventPublisher
	opts   OrderOptions
	logger zerolog.Logger
	now    func() time.Time
}

// NewOrderService returns an OrderService. idem and events may be nil.
func NewOrderService(repo ports.OrderRepository, idem ports.IdempotencyStore, events ports.EventPublisher, opts OrderOptions, logger zerolog.Logger) *OrderService {
	if opts.TotalPolicy == "" {
		opts.TotalPolicy = TotalVerify
	}
	return &OrderService{repo: repo, idem: idem, events: events, opts: opts, logger: logger, now: time.Now}
}

// Place creates a new Pending order. If an idempotency key was already used,
// the order created by the first request is returned instead.
func (s *OrderService) Place(ctx context.Context, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	if err := s.validatePlacement(input); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	reserved := false
	if key != "" && s.idem != nil {
		existing, ok, err := s.reserveKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.logger.Info().Str("idempotency_key", key).Str("order_id", existing.ID).Msg("idempotent replay")
			return &ports.PlaceOrderResult{Order: existing, AlreadyExisted: true}, nil
		}
		reserved = ok
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	order := &domain.Order{
		Purchaser: domain.Purchaser{
			Name:  strings.TrimSpace(input.PurchaserName),
			Email: normalizeEmail(input.PurchaserEmail),
		},
		Lines:          make([]domain.OrderLine, 0, len(input.Lines)),
		TotalAmount:    input.TotalAmount,
		PaymentMethod:  strings.TrimSpace(input.PaymentMethod),
		Status:         domain.StatusPending,
		StatusHistory:  []domain.StatusHistoryEntry{{Status: domain.StatusPending, Timestamp: now}},
		IdempotencyKey: key,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range input.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			Name:      strings.TrimSpace(l.Name),
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		if reserved {
			if relErr := s.idem.Release(ctx, key); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	if reserved {
		s.bindKey(ctx, key, order.ID)
	}

	s.publish(domain.OrderEvent{
		OrderID:        order.ID,
		Action:         domain.ActionPlaced,
		ToStatus:       order.Status,
		PurchaserEmail: order.Purchaser.Email,
		Timestamp:      now,
	})
	s.logger.Info().Str("order_id", order.ID).Int("lines", len(order.Lines)).Msg("order placed")

	return &ports.PlaceOrderResult{Order: order}, nil
}

// reserveKey claims key for a new placement. A non-nil order is the one the key
// already produced. reserved is false when the idempotency store is unreachable
// and placement continues without it.
func (s *OrderService) reserveKey(ctx context.Context, key string) (existing *domain.Order, reserved bool, err error) {
	for attempt := 0; attempt < 2; attempt++ {
		orderID, claimed, err := s.idem.Claim(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, falling back to the order store")
			if existing, findErr := s.repo.FindByIdempotencyKey(ctx, key); findErr == nil {
				return existing, false, nil
			}
			return nil, false, nil
		case claimed:
			// the key may have lost its binding while the order was kept
			if existing, findErr := s.repo.FindByIdempotencyKey(ctx, key); findErr == nil {
				s.bindKey(ctx, key, existing.ID)
				return existing, false, nil
			}
			return nil, true, nil
		case orderID == "":
			return nil, false, domain.ErrRequestInFlight
		}

		existing, err := s.repo.FindByID(ctx, orderID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, domain.ErrOrderNotFound) {
			return nil, false, fmt.Errorf("idempotent replay: %w", err)
		}
		s.logger.Info().Str("idempotency_key", key).Str("order_id", orderID).Msg("replayed order was removed, placing a new one")
		if err := s.idem.Release(ctx, key); err != nil {
			return nil, false, fmt.Errorf("release idempotency key: %w", err)
		}
	}
	return nil, false, domain.ErrRequestInFlight
}

// bindKey points key at orderID. On failure the reservation is dropped so
// retries reach the order store instead of waiting out the TTL.
func (s *OrderService) bindKey(ctx context.Context, key, orderID string) {
	err := s.idem.Bind(ctx, key, orderID)
	if err == nil {
		return
	}
	s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to bind idempotency key")
	if relErr := s.idem.Release(ctx, key); relErr != nil {
		s.logger.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func (s *OrderService) validatePlacement(input ports.PlaceOrderInput) error {
	if strings.TrimSpace(input.PurchaserName) == "" {
		return fmt.Errorf("%w: purchaser name is required", domain.ErrValidation)
	}
	if email := normalizeEmail(input.PurchaserEmail); email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: purchaser email is missing or malformed", domain.ErrValidation)
	}
	if len(input.Lines) == 0 {
		return fmt.Errorf("%w: order has no items", domain.ErrValidation)
	}
	for i, l := range input.Lines {
		if strings.TrimSpace(l.Name) == "" || l.Quantity <= 0 || l.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d is malformed", domain.ErrValidation, i)
		}
	}
	if input.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount is negative", domain.ErrValidation)
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return fmt.Errorf("%w: payment method is required", domain.ErrValidation)
	}

	if s.opts.TotalPolicy == TotalVerify {
		want := linesTotal(input.Lines)
		got := decimal.NewFromFloat(input.TotalAmount).Round(2)
		if !got.Equal(want) {
			return fmt.Errorf("%w: expected %s, got %s", domain.ErrTotalMismatch, want.StringFixed(2), got.StringFixed(2))
		}
	}
	return nil
}

// linesTotal sums unit price x quantity, rounded to cents.
func linesTotal(lines []ports.OrderLineInput) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2)
}

// SetStatus moves an order to status and returns the updated record.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if err := domain.ValidateTransition(current.Status, next, s.opts.StrictTransitions); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	ts := domain.NextTimestamp(current.UpdatedAt, s.now())
	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, next, ts)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	s.publish(domain.OrderEvent{
		OrderID:        updated.ID,
		Action:         domain.ActionStatusChanged,
		FromStatus:     current.Status,
		ToStatus:       next,
		PurchaserEmail: updated.Purchaser.Email,
		Timestamp:      ts,
	})
	s.logger.Info().Str("order_id", id).Str("from", string(current.Status)).Str("to", string(next)).Msg("order status changed")

	return updated, nil
}

// Remove deletes an order and returns the removed record.
func (s *OrderService) Remove(ctx context.Context, id string) (*domain.Order, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove order: %w", err)
	}

	s.publish(domain.OrderEvent{
		OrderID:        removed.ID,
		Action:         domain.ActionRemoved,
		FromStatus:     removed.Status,
		PurchaserEmail: removed.Purchaser.Email,
		Timestamp:      s.now().UTC(),
	})
	s.logger.Info().Str("order_id", id).Msg("order removed")

	return removed, nil
}

// ListForIdentity returns the orders whose purchaser email matches, newest
// first. An empty slice means none were found.
func (s *OrderService) ListForIdentity(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, error) {
	filter.Email = normalizeEmail(filter.Email)
	if filter.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	return s.list(ctx, filter)
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, error) {
	filter.Email = ""
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit > 0 && filter.Page > maxListPage {
		return []*domain.Order{}, nil
	}

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) publish(event domain.OrderEvent) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(event)
}
