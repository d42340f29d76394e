package service

import (
	"context"
	"fmt"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// Me — GET /v1/auth/me
// ============================================================

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Me")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return user, nil
}

// ============================================================
// UpdateProfile — PUT /v1/auth/me
// ============================================================

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	updates := map[string]any{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}

	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "nothing to update"}
	}

	if err := s.store.UpdateUser(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return s.Me(ctx, userID)
}
