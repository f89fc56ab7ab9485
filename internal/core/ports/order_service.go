package ports

import (
	"context"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// OrderItemInput is one line of a new order.
type OrderItemInput struct {
	Name     string
	Quantity int
	Price    float64
}

// CreateOrderInput carries all data needed to place a new order. The
// customer fields come from the authenticated session, never the request
// body.
type CreateOrderInput struct {
	CustomerID   int64
	CustomerName string
	Items        []OrderItemInput
	Address      string
}

// OrderService defines use-case operations for orders, including the
// exclusive-claim coordination between couriers.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	// GetOrder retrieves an order. A zero customerID skips customer scoping
	// (staff access).
	GetOrder(ctx context.Context, id string, customerID int64) (*domain.Order, error)
	// ListReady returns the orders currently up for claiming.
	ListReady(ctx context.Context) ([]*domain.Order, error)
	// Claim races to take exclusive ownership of a ready order. Exactly one
	// of N concurrent claimants wins; the rest get domain.ErrClaimConflict.
	Claim(ctx context.Context, orderID string, courierID int64) (*domain.Order, error)
	// Release hands a claimed order back to the ready pool. Only the owning
	// courier can release.
	Release(ctx context.Context, orderID string, courierID int64) (*domain.Order, error)
}
