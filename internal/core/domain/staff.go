package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleKitchen  = "kitchen"
	RoleDelivery = "delivery"
)

var ErrStaffNotFound = errors.New("staff not found")
var ErrStaffExists = errors.New("staff already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Staff models a platform employee: admins run the panel, kitchen staff
// prepare orders, delivery staff (couriers) claim and deliver them.
// TelegramID links a courier's mini-app session to their staff record.
type Staff struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TelegramID   int64     `json:"telegram_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
