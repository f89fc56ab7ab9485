package ports

import (
	"context"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// StaffRepository defines the interface for staff account persistence.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	FindByUsername(ctx context.Context, username string) (*domain.Staff, error)
	// FindByTelegramID resolves a Telegram user to their staff record, used
	// to decide whether a mini-app session belongs to a courier.
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.Staff, error)
}
