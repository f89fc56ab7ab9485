// Package initdata verifies the signed initData payload that the Telegram
// WebApp client hands to the backend on login.
//
// The payload is a URL-encoded key/value string carrying a detached HMAC
// signature in its "hash" field. Verification recomputes the signature over
// the canonical form of the remaining fields using a secret key derived from
// the bot token, then checks freshness and extracts the embedded user
// identity. All of this is pure computation; the package performs no I/O.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxAge is how old a payload may be before it is rejected.
	DefaultMaxAge = time.Hour
	// DefaultClockSkew is how far in the future a payload's auth_date may
	// sit before it is rejected.
	DefaultClockSkew = 30 * time.Second

	// secretKeyLabel is the fixed HMAC label Telegram prescribes for
	// deriving the verification key from the bot token.
	secretKeyLabel = "WebAppData"
)

var (
	ErrMalformedPayload  = errors.New("initdata: malformed payload")
	ErrMissingHash       = errors.New("initdata: missing hash field")
	ErrSignatureMismatch = errors.New("initdata: signature mismatch")
	ErrExpired           = errors.New("initdata: payload expired")
	ErrMalformedIdentity = errors.New("initdata: malformed identity")
)

// Identity is the typed record extracted from a verified payload. It is the
// single trust boundary: everything downstream treats it as authentic.
type Identity struct {
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
	AuthDate   time.Time
}

// DisplayName returns the user's name as shown in chat clients.
func (id *Identity) DisplayName() string {
	if id.LastName == "" {
		return id.FirstName
	}
	return id.FirstName + " " + id.LastName
}

// Options tune validation behaviour. Zero values select the defaults.
type Options struct {
	// MaxAge is the freshness window: payloads older than this are rejected.
	MaxAge time.Duration
	// ClockSkew is the tolerance for auth_date values ahead of local time.
	ClockSkew time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Validator verifies initData payloads for a single bot token. The derived
// secret key is computed once at construction.
type Validator struct {
	secretKey []byte
	maxAge    time.Duration
	clockSkew time.Duration
	now       func() time.Time
}

// NewValidator builds a Validator from the bot token. An empty token is a
// configuration error: the validator fails closed rather than silently
// accepting unverified payloads.
func NewValidator(botToken string, opts Options) (*Validator, error) {
	if botToken == "" {
		return nil, errors.New("initdata: bot token not configured")
	}

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	clockSkew := opts.ClockSkew
	if clockSkew <= 0 {
		clockSkew = DefaultClockSkew
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	mac := hmac.New(sha256.New, []byte(secretKeyLabel))
	mac.Write([]byte(botToken))

	return &Validator{
		secretKey: mac.Sum(nil),
		maxAge:    maxAge,
		clockSkew: clockSkew,
		now:       now,
	}, nil
}

// Validate verifies a raw initData string and returns the extracted identity.
// A mismatched signature is a normal outcome reported as
// ErrSignatureMismatch, never a panic.
func (v *Validator) Validate(raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrMalformedPayload
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, ErrMalformedPayload
	}

	suppliedHash := values.Get("hash")
	if suppliedHash == "" {
		return nil, ErrMissingHash
	}
	// "hash" is the detached signature itself; "signature" is the Ed25519
	// field Telegram defines as excluded from the HMAC computation.
	values.Del("hash")
	values.Del("signature")

	canonical := CanonicalString(values)
	if canonical == "" {
		return nil, ErrMalformedPayload
	}

	supplied, err := hex.DecodeString(suppliedHash)
	if err != nil {
		return nil, ErrSignatureMismatch
	}
	mac := hmac.New(sha256.New, v.secretKey)
	mac.Write([]byte(canonical))
	if !hmac.Equal(mac.Sum(nil), supplied) {
		return nil, ErrSignatureMismatch
	}

	issuedAt, err := v.checkFreshness(values.Get("auth_date"))
	if err != nil {
		return nil, err
	}

	return parseIdentity(values.Get("user"), issuedAt)
}

// CanonicalString produces the exact byte string the signature covers: pairs
// sorted by key in byte-wise order, rendered as "key=value" and joined with
// a single newline, no trailing newline. Values are used exactly as received
// on the wire, percent-decoded once and never escaped again. Any deviation
// breaks verification silently, so this is the only canonicalization in the
// codebase; call sites must not re-sort, re-filter, or re-decode.
func CanonicalString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values.Get(k))
	}
	return b.String()
}

// checkFreshness rejects payloads older than maxAge and payloads whose
// auth_date sits in the future beyond the clock-skew tolerance.
func (v *Validator) checkFreshness(authDate string) (time.Time, error) {
	seconds, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil || seconds <= 0 {
		return time.Time{}, ErrMalformedPayload
	}

	issuedAt := time.Unix(seconds, 0).UTC()
	now := v.now()
	if now.Sub(issuedAt) > v.maxAge {
		return time.Time{}, ErrExpired
	}
	if issuedAt.After(now.Add(v.clockSkew)) {
		return time.Time{}, ErrExpired
	}
	return issuedAt, nil
}

// wireUser mirrors the JSON shape of the nested "user" field.
type wireUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

func parseIdentity(userJSON string, issuedAt time.Time) (*Identity, error) {
	if userJSON == "" {
		return nil, ErrMalformedIdentity
	}

	var u wireUser
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil, ErrMalformedIdentity
	}
	if u.ID == 0 {
		return nil, ErrMalformedIdentity
	}

	return &Identity{
		TelegramID: u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		AuthDate:   issuedAt,
	}, nil
}
