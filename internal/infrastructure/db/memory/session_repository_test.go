package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

func session(token string, telegramID int64, expiresAt time.Time) *domain.Session {
	return &domain.Session{
		Token:      token,
		TelegramID: telegramID,
		FirstName:  "Test",
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  expiresAt,
	}
}

func TestSessionRepository_SaveFindDelete(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	if err := repo.Save(ctx, session("tok1", 1, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	found, err := repo.Find(ctx, "tok1")
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if found.TelegramID != 1 {
		t.Fatalf("unexpected session: %+v", found)
	}

	if err := repo.Delete(ctx, "tok1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.Find(ctx, "tok1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := repo.Delete(ctx, "tok1"); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
}

func TestSessionRepository_ExpiredDroppedLazily(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	if err := repo.Save(ctx, session("tok1", 1, time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if _, err := repo.Find(ctx, "tok1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("expired session not dropped on lookup")
	}
}

func TestSessionRepository_FindReturnsCopy(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	if err := repo.Save(ctx, session("tok1", 1, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	first, _ := repo.Find(ctx, "tok1")
	first.TelegramID = 999

	second, _ := repo.Find(ctx, "tok1")
	if second.TelegramID != 1 {
		t.Fatalf("mutating a returned session leaked into the store")
	}
}

func TestSessionRepository_Sweep(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	now := time.Now()

	_ = repo.Save(ctx, session("live1", 1, now.Add(time.Hour)))
	_ = repo.Save(ctx, session("dead1", 2, now.Add(-time.Minute)))
	_ = repo.Save(ctx, session("dead2", 3, now.Add(-time.Hour)))

	if removed := repo.Sweep(now); removed != 2 {
		t.Fatalf("expected 2 sessions swept, got %d", removed)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", repo.Len())
	}
	if _, err := repo.Find(ctx, "live1"); err != nil {
		t.Fatalf("live session swept: %v", err)
	}
}

func TestSessionRepository_ConcurrentAccess(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", i)
			for j := 0; j < 100; j++ {
				_ = repo.Save(ctx, session(token, int64(i), time.Now().Add(time.Hour)))
				_, _ = repo.Find(ctx, token)
				_ = repo.Delete(ctx, token)
			}
		}(i)
	}
	wg.Wait()

	if repo.Len() != 0 {
		t.Fatalf("expected empty store after concurrent churn, got %d", repo.Len())
	}
}
