package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/addisbites/ordering-system/internal/api/metrics"
	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// OrderService implements order intake and the exclusive-claim coordination
// between couriers.
type OrderService struct {
	repo ports.OrderRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, log zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, now: time.Now, log: log}
}

// CreateOrder places a new order for the authenticated customer.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.New("order has no items")
	}

	now := s.now().UTC()
	items := make([]domain.OrderItem, 0, len(input.Items))
	var total float64
	for _, it := range input.Items {
		items = append(items, domain.OrderItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
		total += it.Price * float64(it.Quantity)
	}

	order := &domain.Order{
		ID:            generateOrderID(),
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		Items:         items,
		Total:         total,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentUnpaid,
		Address:       input.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
		StatusHistory: []domain.StatusHistoryEntry{{Status: domain.StatusPending, Timestamp: now}},
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.log.Info().Str("order_id", order.ID).Int64("customer_id", input.CustomerID).Msg("order created")
	metrics.OrdersCreatedTotal.Inc()
	return order, nil
}

// GetOrder retrieves an order, scoped to the customer when customerID is
// non-zero.
func (s *OrderService) GetOrder(ctx context.Context, id string, customerID int64) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id, customerID)
}

// ListReady returns the orders currently claimable by couriers.
func (s *OrderService) ListReady(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListByStatus(ctx, domain.StatusReady)
}

// Claim races to take exclusive ownership of a ready order. The repository's
// conditional update is the synchronization primitive: losing the race is a
// normal outcome reported as ErrClaimConflict, and the order is only read
// afterwards to distinguish a missing order from a lost race.
func (s *OrderService) Claim(ctx context.Context, orderID string, courierID int64) (*domain.Order, error) {
	claimed, err := s.repo.Claim(ctx, orderID, courierID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("claim order: %w", err)
	}

	if !claimed {
		if _, err := s.repo.FindByID(ctx, orderID, 0); err != nil {
			metrics.ClaimsTotal.WithLabelValues("not_found").Inc()
			return nil, err
		}
		s.log.Info().Str("order_id", orderID).Int64("courier_id", courierID).Msg("claim lost")
		metrics.ClaimsTotal.WithLabelValues("lost").Inc()
		return nil, domain.ErrClaimConflict
	}

	s.log.Info().Str("order_id", orderID).Int64("courier_id", courierID).Msg("order claimed")
	metrics.ClaimsTotal.WithLabelValues("won").Inc()
	return s.repo.FindByID(ctx, orderID, 0)
}

// Release hands a claimed order back to the ready pool. The conditional
// update requires the caller to be the current owner.
func (s *OrderService) Release(ctx context.Context, orderID string, courierID int64) (*domain.Order, error) {
	released, err := s.repo.Release(ctx, orderID, courierID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("release order: %w", err)
	}

	if !released {
		if _, err := s.repo.FindByID(ctx, orderID, 0); err != nil {
			return nil, err
		}
		return nil, domain.ErrClaimConflict
	}

	s.log.Info().Str("order_id", orderID).Int64("courier_id", courierID).Msg("order released")
	return s.repo.FindByID(ctx, orderID, 0)
}

// generateOrderID returns a unique order id in the format ORD-XXXXXXXX.
func generateOrderID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("ORD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("ORD-%08X", b)
}
