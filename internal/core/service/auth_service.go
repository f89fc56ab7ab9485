package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/addisbites/ordering-system/internal/api/metrics"
	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
	"github.com/addisbites/ordering-system/internal/initdata"
)

// AuthService composes initData verification and the session store into the
// two entry modes request handlers consume: the one-time handshake and the
// per-request bearer check.
type AuthService struct {
	validator *initdata.Validator
	sessions  ports.SessionService
	log       zerolog.Logger
}

func NewAuthService(validator *initdata.Validator, sessions ports.SessionService, log zerolog.Logger) *AuthService {
	return &AuthService{validator: validator, sessions: sessions, log: log}
}

// Handshake verifies a signed initData payload and issues a session token.
// The failing stage is logged here but collapsed to a single
// ErrAuthenticationFailed outward, so the response carries no oracle about
// which check broke. A failed handshake never produces a session.
func (s *AuthService) Handshake(ctx context.Context, rawInitData string) (string, *domain.Identity, error) {
	verified, err := s.validator.Validate(rawInitData)
	if err != nil {
		s.log.Warn().Err(err).Msg("handshake rejected")
		metrics.HandshakesTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrAuthenticationFailed
	}

	identity := &domain.Identity{
		TelegramID: verified.TelegramID,
		FirstName:  verified.DisplayName(),
		Username:   verified.Username,
		AuthDate:   verified.AuthDate,
	}

	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		s.log.Error().Err(err).Int64("telegram_id", identity.TelegramID).Msg("session creation failed")
		metrics.HandshakesTotal.WithLabelValues("error").Inc()
		return "", nil, domain.ErrAuthenticationFailed
	}

	s.log.Info().Int64("telegram_id", identity.TelegramID).Msg("handshake succeeded")
	metrics.HandshakesTotal.WithLabelValues("ok").Inc()
	return token, identity, nil
}

// Authenticate resolves a bearer token through the session store. No
// cryptographic verification happens here.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	return s.sessions.Validate(ctx, token)
}

// Logout revokes the session token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
