package domain

import "time"

// DeliveryEvent represents a status update reported by a courier's app.
type DeliveryEvent struct {
	OrderID   string       `json:"order_id" bson:"order_id"`
	CourierID int64        `json:"courier_id" bson:"courier_id"`
	Status    OrderStatus  `json:"status" bson:"status"`
	Timestamp time.Time    `json:"timestamp" bson:"timestamp"`
	Source    string       `json:"source" bson:"source"`
	Location  *Coordinates `json:"location,omitempty" bson:"location,omitempty"` // optional
}
