package ports

import (
	"context"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// SessionService owns the session lifecycle: opaque token issuance,
// validation with TTL, and revocation.
type SessionService interface {
	// Create issues a new random bearer token for the identity.
	Create(ctx context.Context, identity *domain.Identity) (string, error)
	// Validate resolves a token to the identity it vouches for. Unknown,
	// expired, revoked, and malformed tokens are indistinguishable: all
	// return domain.ErrUnauthorized.
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	// Revoke invalidates a token. Revoking an already-invalid token is a no-op.
	Revoke(ctx context.Context, token string) error
}
