package ports

import (
	"context"
	"time"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Claim and
// Release are single conditional updates: the store-side precondition is the
// synchronization primitive, so no caller ever reads an order and then
// writes it in a separate step.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	// FindByID retrieves an order. When customerID is non-zero the query is
	// additionally scoped to that customer.
	FindByID(ctx context.Context, id string, customerID int64) (*domain.Order, error)
	// ListByStatus returns orders in the given status, oldest first.
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	// Claim assigns the order to the courier iff it is still ready and
	// unowned, moving it to on_the_way. Reports whether exactly one record
	// changed; false means the claim lost the race or the order was never
	// claimable.
	Claim(ctx context.Context, orderID string, courierID int64, now time.Time) (bool, error)
	// Release hands a claimed order back, iff it is on_the_way and owned by
	// this courier. The order returns to ready with no courier.
	Release(ctx context.Context, orderID string, courierID int64, now time.Time) (bool, error)
}
