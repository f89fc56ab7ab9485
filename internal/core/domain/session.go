package domain

import (
	"errors"
	"time"
)

var ErrAuthenticationFailed = errors.New("authentication failed")
var ErrUnauthorized = errors.New("unauthorized")
var ErrSessionNotFound = errors.New("session not found")

// Identity is the authenticated Telegram user as seen by the rest of the
// system. It is produced only by a successful handshake or session lookup;
// nothing downstream re-parses raw payload fields.
type Identity struct {
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	Username   string    `json:"username,omitempty"`
	AuthDate   time.Time `json:"auth_date"`
}

// Session is the server-side record behind a bearer token. Sessions are
// never mutated: renewal issues a new token and revokes the old one.
type Session struct {
	Token      string    `json:"token"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	Username   string    `json:"username,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity returns the identity the session vouches for.
func (s *Session) Identity() *Identity {
	return &Identity{
		TelegramID: s.TelegramID,
		FirstName:  s.FirstName,
		Username:   s.Username,
		AuthDate:   s.CreatedAt,
	}
}
