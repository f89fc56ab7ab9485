package ports

import (
	"context"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// StaffService implements admin-panel authentication and staff registration.
type StaffService interface {
	Register(ctx context.Context, username, password, role string, telegramID int64) (*domain.Staff, error)
	Login(ctx context.Context, username, password string) (string, *domain.Staff, error)
}
