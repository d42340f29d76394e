package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samiatarot/platform-api/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ============================================================
// Register — POST /v1/auth/register
// ============================================================

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	// Normalize so lookups are case-insensitive
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, &domain.ErrValidation{Field: "email", Message: "must be a valid email address"}
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, &domain.ErrValidation{Field: "fullName", Message: "required"}
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	switch req.Role {
	case "", domain.RoleClient, domain.RoleReader:
	case domain.RoleAdmin:
		return nil, &domain.ErrValidation{Field: "role", Message: "admin accounts cannot self-register"}
	default:
		return nil, &domain.ErrValidation{Field: "role", Message: "must be client or reader"}
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Create user + credentials
	req.Email = email
	user, err := s.store.CreateUser(ctx, req, string(hash))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)

	return &domain.RegisterResponse{
		UserID:  user.ID,
		Role:    user.Role,
		Message: "account created",
	}, nil
}
