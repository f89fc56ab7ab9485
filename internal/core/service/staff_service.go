package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// StaffService implements admin-panel registration and login. Staff tokens
// are JWTs, separate from the opaque customer/courier session tokens.
type StaffService struct {
	repo      ports.StaffRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewStaffService(repo ports.StaffRepository, jwtSecret string, tokenTTL time.Duration) *StaffService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &StaffService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func validRole(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleKitchen || role == domain.RoleDelivery
}

func (s *StaffService) Register(ctx context.Context, username, password, role string, telegramID int64) (*domain.Staff, error) {
	if username == "" || password == "" || !validRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	staff := &domain.Staff{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		TelegramID:   telegramID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, staff)
}

func (s *StaffService) Login(ctx context.Context, username, password string) (string, *domain.Staff, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	staff, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// Not-found collapses to invalid credentials so login does not
		// reveal which usernames exist.
		if errors.Is(err, domain.ErrStaffNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(staff)
	if err != nil {
		return "", nil, err
	}

	return token, staff, nil
}

func (s *StaffService) generateToken(staff *domain.Staff) (string, error) {
	claims := jwt.MapClaims{
		"sub":  staff.Username,
		"role": staff.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
