package ports

import (
	"context"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

// AuthService is the request-level facade for Telegram mini-app
// authentication: the one-time handshake and the per-request bearer check.
type AuthService interface {
	// Handshake exchanges a signed initData payload for a session token.
	// Every failure — malformed payload, bad signature, stale auth_date,
	// broken identity — surfaces as domain.ErrAuthenticationFailed; the
	// failing stage is logged internally but never distinguished to the
	// caller.
	Handshake(ctx context.Context, rawInitData string) (string, *domain.Identity, error)
	// Authenticate resolves a bearer token to an identity. No cryptography
	// is involved: the session record itself is the trust artifact.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	// Logout revokes the token. Idempotent.
	Logout(ctx context.Context, token string) error
}
