package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

type stubStaffRepo struct {
	records map[int64]*domain.Staff
}

func (s *stubStaffRepo) Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	return staff, nil
}

func (s *stubStaffRepo) FindByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	return nil, domain.ErrStaffNotFound
}

func (s *stubStaffRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.Staff, error) {
	if st, ok := s.records[telegramID]; ok {
		return st, nil
	}
	return nil, domain.ErrStaffNotFound
}

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "admin")

	called := false
	handler := RBAC("admin", "kitchen")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "guest")

	handler := RBAC("admin", "kitchen")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCourierOnly_AllowsDeliveryStaff(t *testing.T) {
	e := echo.New()
	repo := &stubStaffRepo{records: map[int64]*domain.Staff{
		42: {Username: "abel", Role: domain.RoleDelivery, TelegramID: 42},
	}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("telegram_id", int64(42))

	called := false
	handler := CourierOnly(repo)(func(c echo.Context) error {
		called = true
		if cid, _ := c.Get("courier_id").(int64); cid != 42 {
			t.Fatalf("courier_id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestCourierOnly_ForbidsNonCourierStaff(t *testing.T) {
	e := echo.New()
	repo := &stubStaffRepo{records: map[int64]*domain.Staff{
		42: {Username: "karla", Role: domain.RoleKitchen, TelegramID: 42},
	}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("telegram_id", int64(42))

	handler := CourierOnly(repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCourierOnly_ForbidsUnknownUser(t *testing.T) {
	e := echo.New()
	repo := &stubStaffRepo{records: map[int64]*domain.Staff{}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("telegram_id", int64(99))

	handler := CourierOnly(repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCourierOnly_RequiresSession(t *testing.T) {
	e := echo.New()
	repo := &stubStaffRepo{records: map[int64]*domain.Staff{}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := CourierOnly(repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
