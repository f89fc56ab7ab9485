package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saveErr  error
	findErr  error
	deleted  []string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Save(_ context.Context, s *domain.Session) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.sessions[s.Token] = &clone
	return nil
}

func (r *stubSessionRepo) Find(_ context.Context, token string) (*domain.Session, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	r.deleted = append(r.deleted, token)
	return nil
}

func testIdentity() *domain.Identity {
	return &domain.Identity{
		TelegramID: 12345,
		FirstName:  "Alice Bekele",
		Username:   "alicebk",
		AuthDate:   time.Now().UTC(),
	}
}

func TestSessionService_CreateAndValidate(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, time.Hour, 32, zerolog.Nop())

	token, err := svc.Create(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(token) < 43 { // 32 bytes base64url without padding
		t.Fatalf("token too short for 32 bytes of entropy: %q", token)
	}

	id, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if id.TelegramID != 12345 {
		t.Fatalf("expected telegram id 12345, got %d", id.TelegramID)
	}
	if id.FirstName != "Alice Bekele" || id.Username != "alicebk" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestSessionService_TokensAreUnique(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, time.Hour, 32, zerolog.Nop())

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := svc.Create(context.Background(), testIdentity())
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token issued: %q", token)
		}
		seen[token] = struct{}{}
	}
}

func TestSessionService_InvalidTokensIndistinguishable(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, time.Hour, 32, zerolog.Nop())

	// Never issued.
	if _, err := svc.Validate(context.Background(), "never-issued"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("never-issued: expected ErrUnauthorized, got %v", err)
	}

	// Revoked.
	token, err := svc.Create(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("revoked: expected ErrUnauthorized, got %v", err)
	}

	// Expired.
	expired, err := svc.Create(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Validate(context.Background(), expired); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expired: expected ErrUnauthorized, got %v", err)
	}

	// Malformed / empty.
	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("empty: expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_ExpiredSessionDeletedOnLookup(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, time.Minute, 32, zerolog.Nop())

	token, err := svc.Create(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	found := false
	for _, d := range repo.deleted {
		if d == token {
			found = true
		}
	}
	if !found {
		t.Fatalf("expired session was not deleted opportunistically")
	}
}

func TestSessionService_RevokeIdempotent(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, time.Hour, 32, zerolog.Nop())

	if err := svc.Revoke(context.Background(), "never-issued"); err != nil {
		t.Fatalf("revoking unknown token returned error: %v", err)
	}
	if err := svc.Revoke(context.Background(), ""); err != nil {
		t.Fatalf("revoking empty token returned error: %v", err)
	}
}

func TestSessionService_BackendFailureIsUnauthorized(t *testing.T) {
	repo := newStubSessionRepo()
	repo.findErr = errors.New("backend down")
	svc := NewSessionService(repo, time.Hour, 32, zerolog.Nop())

	if _, err := svc.Validate(context.Background(), "any"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_MinimumEntropyEnforced(t *testing.T) {
	repo := newStubSessionRepo()
	svc := NewSessionService(repo, time.Hour, 4, zerolog.Nop())

	token, err := svc.Create(context.Background(), testIdentity())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	// 4 requested bytes are below the floor; the default 32 applies.
	if len(token) < 43 {
		t.Fatalf("token entropy floor not enforced: %q", token)
	}
}
