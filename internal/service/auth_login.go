package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================
// Login — POST /v1/auth/login
// ============================================================

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}

	if !user.IsActive {
		s.logger.Warn("login: account disabled", zap.String("user_id", user.ID))
		return nil, &domain.ErrUnauthorized{Message: "account disabled"}
	}

	cred, err := s.store.GetCredentials(ctx, user.ID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			// Corrupted registration: user exists but no credentials were
			// saved. Treat as invalid credentials to avoid leaking state.
			s.logger.Warn("login: credentials not found for existing user",
				zap.String("user_id", user.ID),
			)
			return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	// Check if account is locked
	if cred.LockedUntil != nil && cred.LockedUntil.After(time.Now()) {
		remaining := time.Until(*cred.LockedUntil).Minutes()
		s.logger.Warn("login: account temporarily locked",
			zap.String("user_id", user.ID),
			zap.Float64("remaining_minutes", remaining),
		)
		return nil, &domain.ErrUnauthorized{
			Message: fmt.Sprintf("account temporarily locked, try again in %.0f minutes", remaining),
		}
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		newAttempts := cred.FailedAttempts + 1
		updates := map[string]any{"failed_attempts": newAttempts}
		if newAttempts >= maxFailedAttempts {
			lockedUntil := time.Now().Add(lockDuration)
			updates["locked_until"] = lockedUntil.Format(time.RFC3339)
			s.logger.Warn("login: account locked after max attempts",
				zap.String("user_id", user.ID),
				zap.Int("attempts", newAttempts),
				zap.Duration("lock_duration", lockDuration),
			)
		} else {
			s.logger.Warn("login: failed password attempt",
				zap.String("user_id", user.ID),
				zap.Int("attempts", newAttempts),
				zap.Int("max", maxFailedAttempts),
			)
		}
		_ = s.store.UpdateCredentials(ctx, user.ID, updates)

		remaining := maxFailedAttempts - newAttempts
		if remaining <= 0 {
			return nil, &domain.ErrUnauthorized{
				Message: fmt.Sprintf("account locked for %d minutes after %d failed attempts", int(lockDuration.Minutes()), maxFailedAttempts),
			}
		}
		return nil, &domain.ErrUnauthorized{
			Message: fmt.Sprintf("invalid credentials, %d attempt(s) remaining", remaining),
		}
	}

	// Reset failed attempts on successful login
	now := time.Now()
	_ = s.store.UpdateCredentials(ctx, user.ID, map[string]any{
		"failed_attempts": 0,
		"locked_until":    nil,
		"last_login_at":   now.Format(time.RFC3339),
	})
	_ = s.store.UpdateUser(ctx, user.ID, map[string]any{
		"last_login_at": now.UTC().Format(time.RFC3339),
	})

	// Generate tokens
	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, refreshHash, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Store refresh token hash
	if err := s.store.StoreRefreshToken(ctx, user.ID, refreshHash, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))

	return s.loginResponse(user, accessToken, refreshToken), nil
}

func (s *AuthService) loginResponse(user *domain.User, accessToken, refreshToken string) *domain.LoginResponse {
	lang := user.Language
	if !lang.Valid() {
		lang = s.defaultLang
	}
	return &domain.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		UserID:       user.ID,
		FullName:     user.FullName,
		Role:         user.Role,
		Language:     string(lang),
	}
}
