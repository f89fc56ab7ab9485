package ports

import (
	"context"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// SessionRepository is the key/value backend behind the session store. Every
// operation is a single atomic unit; callers never compose read-then-write
// sequences on top of it.
type SessionRepository interface {
	// Save stores the session under its token. The backend may use the
	// session's ExpiresAt to expire the record natively.
	Save(ctx context.Context, session *domain.Session) error
	// Find retrieves a session by token. Returns domain.ErrSessionNotFound
	// when the token is unknown; expiry checking is the caller's concern.
	Find(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
