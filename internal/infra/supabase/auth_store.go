package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// AuthStore implementation — auth CRUD via PostgREST
// ============================================================

// --- User lookup ---

func (c *Client) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByID")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s&limit=1", userID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []domain.User
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserByEmail")
	defer span.End()

	// emails carry characters that break PostgREST query syntax unescaped
	path := fmt.Sprintf("users?email=eq.%s&limit=1", url.QueryEscape(email))
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil // not found is not an error for auth lookup
	}

	var rows []domain.User
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// --- Registration ---

func (c *Client) CreateUser(ctx context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUser")
	defer span.End()

	userID := uuid.New().String()
	role := req.Role
	if role == "" {
		role = domain.RoleClient
	}
	lang := domain.ParseLanguage(req.Language, domain.LanguageEn)

	// 1. Create user account
	userData := map[string]any{
		"id":        userID,
		"email":     req.Email,
		"full_name": req.FullName,
		"role":      role,
		"language":  string(lang),
		"is_active": true,
	}

	_, err := c.doPost(ctx, "users", userData)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 2. Create auth credentials
	credData := map[string]any{
		"id":              uuid.New().String(),
		"user_id":         userID,
		"password_hash":   passwordHash,
		"failed_attempts": 0,
	}

	_, err = c.doPost(ctx, "auth_credentials", credData)
	if err != nil {
		return nil, fmt.Errorf("create auth credentials: %w", err)
	}

	return &domain.User{
		ID:       userID,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     role,
		Language: lang,
		IsActive: true,
	}, nil
}

// --- Credentials ---

func (c *Client) GetCredentials(ctx context.Context, userID string) (*domain.AuthCredential, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCredentials")
	defer span.End()

	path := fmt.Sprintf("auth_credentials?user_id=eq.%s&limit=1", userID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, &domain.ErrNotFound{Resource: "credentials", ID: userID}
	}

	var rows []domain.AuthCredential
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode auth_credentials: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "credentials", ID: userID}
	}
	return &rows[0], nil
}

func (c *Client) UpdateCredentials(ctx context.Context, userID string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCredentials")
	defer span.End()

	path := fmt.Sprintf("auth_credentials?user_id=eq.%s", userID)
	return c.doPatch(ctx, path, updates)
}

// --- Refresh tokens ---

func (c *Client) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreRefreshToken")
	defer span.End()

	data := map[string]any{
		"id":         uuid.New().String(),
		"user_id":    userID,
		"token_hash": tokenHash,
		"expires_at": expiresAt.Format(time.RFC3339),
		"revoked":    false,
	}

	_, err := c.doPost(ctx, "auth_refresh_tokens", data)
	return err
}

func (c *Client) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRefreshToken")
	defer span.End()

	path := fmt.Sprintf("auth_refresh_tokens?token_hash=eq.%s&revoked=eq.false&limit=1", tokenHash)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []domain.AuthRefreshToken
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode auth_refresh_tokens: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeRefreshToken")
	defer span.End()

	path := fmt.Sprintf("auth_refresh_tokens?token_hash=eq.%s", tokenHash)
	return c.doPatch(ctx, path, map[string]any{"revoked": true})
}

func (c *Client) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeAllRefreshTokens")
	defer span.End()

	path := fmt.Sprintf("auth_refresh_tokens?user_id=eq.%s&revoked=eq.false", userID)
	return c.doPatch(ctx, path, map[string]any{"revoked": true})
}

// --- Password reset codes ---

func (c *Client) StoreResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreResetCode")
	defer span.End()

	data := map[string]any{
		"id":         uuid.New().String(),
		"user_id":    userID,
		"code":       code,
		"expires_at": expiresAt.Format(time.RFC3339),
		"used":       false,
	}

	_, err := c.doPost(ctx, "auth_password_reset_codes", data)
	return err
}

func (c *Client) GetValidResetCode(ctx context.Context, userID, code string) (*domain.AuthPasswordResetCode, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetValidResetCode")
	defer span.End()

	now := time.Now().UTC().Format(time.RFC3339)
	path := fmt.Sprintf("auth_password_reset_codes?user_id=eq.%s&code=eq.%s&used=eq.false&expires_at=gt.%s&order=created_at.desc&limit=1",
		userID, code, now)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []domain.AuthPasswordResetCode
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode auth_password_reset_codes: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) MarkResetCodeUsed(ctx context.Context, codeID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.MarkResetCodeUsed")
	defer span.End()

	path := fmt.Sprintf("auth_password_reset_codes?id=eq.%s", codeID)
	return c.doPatch(ctx, path, map[string]any{"used": true})
}

// --- User updates ---

func (c *Client) UpdateUser(ctx context.Context, userID string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateUser")
	defer span.End()

	path := fmt.Sprintf("users?id=eq.%s", userID)
	return c.doPatch(ctx, path, updates)
}
