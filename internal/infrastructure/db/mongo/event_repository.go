package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

const eventsCollection = "delivery_events"

type DeliveryEventRepository struct {
	orders *mongo.Collection
	events *mongo.Collection
}

func NewDeliveryEventRepository(db *mongo.Database) *DeliveryEventRepository {
	return &DeliveryEventRepository{
		orders: db.Collection(collectionOrders),
		events: db.Collection(eventsCollection),
	}
}

// UpdateOrderStatus moves the order from one status to the next with a single
// conditional update. The filter pins both the expected current status and
// the owning courier, so a report that lost a race or targets someone else's
// order simply matches nothing.
func (r *DeliveryEventRepository) UpdateOrderStatus(
	ctx context.Context,
	orderID string,
	courierID int64,
	from, to domain.OrderStatus,
	ts time.Time,
	source string,
	location *domain.Coordinates,
) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	history := bson.M{
		"status":    string(to),
		"timestamp": ts,
	}
	if source != "" {
		history["notes"] = "reported via " + source
	}
	if location != nil {
		history["location"] = bson.M{"lat": location.Lat, "lng": location.Lng}
	}

	filter := bson.M{
		"_id":        orderID,
		"status":     string(from),
		"courier_id": courierID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     string(to),
			"updated_at": ts,
		},
		"$push": bson.M{"status_history": history},
	}

	res, err := r.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// InsertEvent appends the raw event to the audit trail.
func (r *DeliveryEventRepository) InsertEvent(ctx context.Context, event *domain.DeliveryEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert delivery event: %w", err)
	}
	return nil
}
