package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

type auditService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService writing to repo.
func NewAuditService(repo ports.EventRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single ledger event to the audit trail.
func (s *auditService) Process(ctx context.Context, event domain.OrderEvent) error {
	if event.OrderID == "" || event.Action == "" {
		return errors.New("audit: event without order id or action")
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}

	s.log.Debug().
		Str("order_id", event.OrderID).
		Str("action", string(event.Action)).
		Str("to", string(event.ToStatus)).
		Msg("audit event recorded")
	return nil
}
