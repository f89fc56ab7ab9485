package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

type stubAuthService struct {
	handshakeFn func(ctx context.Context, raw string) (string, *domain.Identity, error)
	revoked     []string
}

func (s *stubAuthService) Handshake(ctx context.Context, raw string) (string, *domain.Identity, error) {
	return s.handshakeFn(ctx, raw)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	return nil, domain.ErrUnauthorized
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func TestAuthHandler_Telegram_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		handshakeFn: func(ctx context.Context, raw string) (string, *domain.Identity, error) {
			if raw != "user=alice&hash=abc" {
				t.Fatalf("unexpected init data: %q", raw)
			}
			return "tok-1", &domain.Identity{TelegramID: 42, FirstName: "Alice", AuthDate: time.Now()}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"init_data":"user=alice&hash=abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/telegram", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Telegram(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok-1" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["telegram_id"] != float64(42) {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Telegram_HeaderPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		handshakeFn: func(ctx context.Context, raw string) (string, *domain.Identity, error) {
			if raw != "user=bob&hash=def" {
				t.Fatalf("unexpected init data: %q", raw)
			}
			return "tok-2", &domain.Identity{TelegramID: 7}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/auth/telegram", nil)
	req.Header.Set("X-Telegram-Init-Data", "user=bob&hash=def")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Telegram(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Telegram_MissingInitData(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		handshakeFn: func(ctx context.Context, raw string) (string, *domain.Identity, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/auth/telegram", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Telegram(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
}

func TestAuthHandler_Telegram_HandshakeRejected(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		handshakeFn: func(ctx context.Context, raw string) (string, *domain.Identity, error) {
			return "", nil, domain.ErrAuthenticationFailed
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"init_data":"user=eve&hash=forged"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/telegram", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Telegram(c)
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected authentication failure, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", &domain.Identity{TelegramID: 42, FirstName: "Alice"})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["telegram_id"] != float64(42) {
		t.Fatalf("unexpected identity payload: %+v", resp)
	}
}

func TestAuthHandler_Me_NoSession(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_token", "tok-9")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "tok-9" {
		t.Fatalf("expected token revoked, got %v", stub.revoked)
	}
}
