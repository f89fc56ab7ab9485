package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, o)
	return err
}

// FindByID retrieves an order by id. When customerID is non-zero an
// additional filter by customer_id is applied, so customers only ever see
// their own orders.
func (r *OrderRepository) FindByID(ctx context.Context, id string, customerID int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if customerID != 0 {
		filter["customer_id"] = customerID
	}

	var o domain.Order
	err := r.col.FindOne(ctx, filter).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListByStatus returns orders in the given status, oldest first.
func (r *OrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"status": string(status)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []*domain.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Claim performs the single conditional update that assigns the order to a
// courier: the filter requires the order to still be ready and unowned, so
// under N concurrent claims MongoDB's per-document atomicity guarantees
// exactly one matches. The caller never reads first.
func (r *OrderRepository) Claim(ctx context.Context, orderID string, courierID int64, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        orderID,
		"status":     string(domain.StatusReady),
		"courier_id": nil,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     string(domain.StatusOnTheWay),
			"courier_id": courierID,
			"updated_at": now,
		},
		"$push": bson.M{"status_history": bson.M{
			"status":    string(domain.StatusOnTheWay),
			"timestamp": now,
			"notes":     "claimed",
		}},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Release is the symmetric conditional update: only the owning courier can
// hand an on_the_way order back to the ready pool.
func (r *OrderRepository) Release(ctx context.Context, orderID string, courierID int64, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        orderID,
		"status":     string(domain.StatusOnTheWay),
		"courier_id": courierID,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     string(domain.StatusReady),
			"updated_at": now,
		},
		"$unset": bson.M{"courier_id": ""},
		"$push": bson.M{"status_history": bson.M{
			"status":    string(domain.StatusReady),
			"timestamp": now,
			"notes":     "released",
		}},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "courier_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
