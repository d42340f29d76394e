package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// PasswordResetRequest — POST /v1/auth/password/reset-request
// ============================================================

func (s *AuthService) PasswordResetRequest(ctx context.Context, req *domain.PasswordResetRequestBody) (*domain.PasswordResetRequestResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.PasswordResetRequest")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		// Return success anyway (don't leak whether account exists)
		return &domain.PasswordResetRequestResponse{
			Message:     "if the email is registered, a verification code has been sent",
			MaskedEmail: "***@***.com",
			ExpiresIn:   int(resetCodeTTL.Seconds()),
		}, nil
	}

	// Generate 6-digit code
	code := generateVerificationCode()
	expiresAt := time.Now().Add(resetCodeTTL)

	if err := s.store.StoreResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return nil, fmt.Errorf("store reset code: %w", err)
	}

	// In production, send email here
	s.logger.Info("password reset code generated",
		zap.String("user_id", user.ID),
		zap.String("code", code), // ONLY in dev — remove in production
	)

	return &domain.PasswordResetRequestResponse{
		Message:     "verification code sent",
		MaskedEmail: maskEmail(user.Email),
		ExpiresIn:   int(resetCodeTTL.Seconds()),
	}, nil
}

// ============================================================
// PasswordResetConfirm — POST /v1/auth/password/reset-confirm
// ============================================================

func (s *AuthService) PasswordResetConfirm(ctx context.Context, req *domain.PasswordResetConfirmRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.PasswordResetConfirm")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	// Validate code
	resetCode, err := s.store.GetValidResetCode(ctx, user.ID, req.VerificationCode)
	if err != nil {
		return fmt.Errorf("get reset code: %w", err)
	}
	if resetCode == nil {
		return &domain.ErrInvalidCode{}
	}

	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	// Hash new password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Update credentials and clear any lockout from prior failed logins
	if err := s.store.UpdateCredentials(ctx, user.ID, map[string]any{
		"password_hash":       string(hash),
		"failed_attempts":     0,
		"locked_until":        nil,
		"password_changed_at": time.Now().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}

	// Mark code as used
	_ = s.store.MarkResetCodeUsed(ctx, resetCode.ID)

	// Revoke all refresh tokens (force re-login)
	_ = s.store.RevokeAllRefreshTokens(ctx, user.ID)

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

// ============================================================
// ChangePassword — PUT /v1/auth/password
// ============================================================

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()

	cred, err := s.store.GetCredentials(ctx, userID)
	if err != nil {
		return fmt.Errorf("get credentials: %w", err)
	}

	// Verify current password
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn("password change: wrong current password",
			zap.String("user_id", userID),
		)
		return &domain.ErrUnauthorized{Message: "current password is incorrect"}
	}

	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	// Hash new password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdateCredentials(ctx, userID, map[string]any{
		"password_hash":       string(hash),
		"password_changed_at": time.Now().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}

	// Revoke all refresh tokens (force re-login on other devices)
	_ = s.store.RevokeAllRefreshTokens(ctx, userID)

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}
