package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type orderItemRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
}

type createOrderRequest struct {
	Items   []orderItemRequest `json:"items"   validate:"required,min=1,dive"`
	Address string             `json:"address" validate:"required"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// model changes.

type orderItemResponse struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type statusHistoryItemResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type orderResponse struct {
	ID            string                      `json:"id"`
	CustomerID    int64                       `json:"customer_id"`
	CustomerName  string                      `json:"customer_name"`
	Items         []orderItemResponse         `json:"items"`
	Total         float64                     `json:"total"`
	Status        string                      `json:"status"`
	PaymentStatus string                      `json:"payment_status"`
	CourierID     *int64                      `json:"courier_id,omitempty"`
	Address       string                      `json:"address,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	StatusHistory []statusHistoryItemResponse `json:"status_history"`
}

// orderSummaryResponse is the lightweight item used in list responses.
// It intentionally omits status_history to keep payloads small.
type orderSummaryResponse struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type listOrdersResponse struct {
	Data  []orderSummaryResponse `json:"data"`
	Count int                    `json:"count"`
}
