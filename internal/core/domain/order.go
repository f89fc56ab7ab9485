package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of a food order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus mirrors what the payment gateway reported for the order.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// validTransitions defines the allowed state machine transitions. The
// ready → on_the_way edge is intentionally absent: it is reachable only
// through the claim operation, which also sets the courier atomically.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCancelled},
	StatusOnTheWay:  {StatusDelivered},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrClaimConflict = errors.New("order already claimed")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Coordinates represents a geographic point reported by the courier app.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}

// StatusHistoryEntry records a single status transition on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus  `json:"status" bson:"status"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
	Notes     string       `json:"notes,omitempty" bson:"notes,omitempty"`
	Location  *Coordinates `json:"location,omitempty" bson:"location,omitempty"`
}

// Order is the core aggregate root.
//
// Invariant: CourierID is non-nil exactly when Status is on_the_way or
// delivered. The only place CourierID is set is the atomic claim, and it is
// set for exactly one courier regardless of how many race for it.
type Order struct {
	ID            string               `json:"id" bson:"_id,omitempty"`
	CustomerID    int64                `json:"customer_id" bson:"customer_id"`
	CustomerName  string               `json:"customer_name" bson:"customer_name"`
	Items         []OrderItem          `json:"items" bson:"items"`
	Total         float64              `json:"total" bson:"total"`
	Status        OrderStatus          `json:"status" bson:"status"`
	PaymentStatus PaymentStatus        `json:"payment_status" bson:"payment_status"`
	CourierID     *int64               `json:"courier_id,omitempty" bson:"courier_id,omitempty"`
	Address       string               `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
	StatusHistory []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}

// Claimable reports whether the order is currently up for grabs.
func (o *Order) Claimable() bool {
	return o.Status == StatusReady && o.CourierID == nil
}
