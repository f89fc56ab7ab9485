package ports

import (
	"context"
	"time"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// DeliveryEventRepository handles event persistence and atomic order status
// updates driven by courier reports.
type DeliveryEventRepository interface {
	// UpdateOrderStatus atomically moves the order to the new status and
	// appends a history entry, iff the order is currently owned by this
	// courier and in a status that permits the transition. Reports whether
	// exactly one record changed.
	UpdateOrderStatus(
		ctx context.Context,
		orderID string,
		courierID int64,
		from, to domain.OrderStatus,
		ts time.Time,
		source string,
		location *domain.Coordinates,
	) (bool, error)

	// InsertEvent persists an event to the delivery_events audit collection.
	InsertEvent(ctx context.Context, event *domain.DeliveryEvent) error
}
