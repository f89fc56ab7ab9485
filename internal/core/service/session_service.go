package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	// minTokenBytes is the floor on token entropy (128 bits).
	minTokenBytes     = 16
	defaultTokenBytes = 32
)

// SessionService issues, validates, and revokes opaque bearer tokens backed
// by a SessionRepository.
type SessionService struct {
	repo       ports.SessionRepository
	ttl        time.Duration
	tokenBytes int
	now        func() time.Time
	log        zerolog.Logger
}

func NewSessionService(repo ports.SessionRepository, ttl time.Duration, tokenBytes int, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if tokenBytes < minTokenBytes {
		tokenBytes = defaultTokenBytes
	}
	return &SessionService{
		repo:       repo,
		ttl:        ttl,
		tokenBytes: tokenBytes,
		now:        time.Now,
		log:        log,
	}
}

// Create mints a cryptographically random token, unrelated to any identity
// data, and stores the session with the configured TTL.
func (s *SessionService) Create(ctx context.Context, identity *domain.Identity) (string, error) {
	buf := make([]byte, s.tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	now := s.now().UTC()
	session := &domain.Session{
		Token:      token,
		TelegramID: identity.TelegramID,
		FirstName:  identity.FirstName,
		Username:   identity.Username,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	s.log.Info().Int64("telegram_id", identity.TelegramID).Time("expires_at", session.ExpiresAt).Msg("session created")
	return token, nil
}

// Validate resolves a token to its identity. Unknown, expired, revoked, and
// malformed tokens all produce the same domain.ErrUnauthorized so that
// callers cannot distinguish the cases. Expired sessions are deleted
// opportunistically.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.repo.Find(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn().Err(err).Msg("session lookup failed")
		}
		return nil, domain.ErrUnauthorized
	}

	if session.Expired(s.now()) {
		if err := s.repo.Delete(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete expired session")
		}
		return nil, domain.ErrUnauthorized
	}

	return session.Identity(), nil
}

// Revoke removes the session. Revoking an already-invalid token is not an
// error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
