package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/addisbites/ordering-system/internal/api/metrics"
	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderID, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, orderID, status string, ts time.Time) error
}

type eventService struct {
	orderRepo ports.OrderRepository
	eventRepo ports.DeliveryEventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(
	orderRepo ports.OrderRepository,
	eventRepo ports.DeliveryEventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process validates, deduplicates, and persists a single delivery event.
func (s *eventService) Process(ctx context.Context, in ports.DeliveryEventInput) error {
	start := time.Now()
	newStatus := domain.OrderStatus(in.Status)

	// 1. Idempotency check — silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.OrderID, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", in.OrderID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("order_id", in.OrderID).Str("status", in.Status).Msg("duplicate event skipped")
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		return nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Find order (no customer scope — events come from the courier app).
	order, err := s.orderRepo.FindByID(ctx, in.OrderID, 0)
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("order_not_found").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	// 3. Only the owning courier may report progress on an order.
	if order.CourierID == nil || *order.CourierID != in.CourierID {
		metrics.EventsErrorsTotal.WithLabelValues("not_owner").Inc()
		return fmt.Errorf("process event: %w (order %s not owned by courier %d)", domain.ErrForbidden, in.OrderID, in.CourierID)
	}

	// 4. Validate state machine transition.
	if !order.Status.CanTransitionTo(newStatus) {
		metrics.EventsErrorsTotal.WithLabelValues("invalid_transition").Inc()
		return fmt.Errorf("process event: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, newStatus)
	}

	// 5. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.OrderID, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("order_id", in.OrderID).Msg("failed to set dedup key")
	}

	// 6. Build optional location.
	var loc *domain.Coordinates
	if in.Location != nil {
		loc = &domain.Coordinates{Lat: in.Location.Lat, Lng: in.Location.Lng}
	}

	// 7. Atomically update order status + history. The update re-checks
	// ownership and current status, so a concurrent transition loses cleanly.
	changed, err := s.eventRepo.UpdateOrderStatus(ctx, in.OrderID, in.CourierID, order.Status, newStatus, in.Timestamp, in.Source, loc)
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process event: update status: %w", err)
	}
	if !changed {
		metrics.EventsErrorsTotal.WithLabelValues("concurrent_change").Inc()
		return fmt.Errorf("process event: %w (order %s changed concurrently)", domain.ErrInvalidTransition, in.OrderID)
	}

	// 8. Insert into audit trail (non-fatal on failure).
	auditEvent := &domain.DeliveryEvent{
		OrderID:   in.OrderID,
		CourierID: in.CourierID,
		Status:    newStatus,
		Timestamp: in.Timestamp,
		Source:    in.Source,
		Location:  loc,
	}
	if err := s.eventRepo.InsertEvent(ctx, auditEvent); err != nil {
		s.log.Warn().Err(err).Str("order_id", in.OrderID).Msg("failed to insert audit event")
	}

	s.log.Info().
		Str("order_id", in.OrderID).
		Str("status", in.Status).
		Str("source", in.Source).
		Msg("event processed")

	metrics.EventsProcessedTotal.WithLabelValues(in.Status, in.Source).Inc()
	metrics.EventProcessingDuration.WithLabelValues(in.Status).Observe(time.Since(start).Seconds())

	return nil
}
