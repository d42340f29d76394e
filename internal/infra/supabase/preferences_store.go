package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// PreferencesStore implementation — language + view modes
// ============================================================
//
// The language preference lives on the users table; per-entity view modes
// live in view_preferences with one row per (user, entity).

func (c *Client) GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPreferences")
	defer span.End()

	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}

	path := fmt.Sprintf("view_preferences?user_id=eq.%s", userID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	viewModes := map[string]string{}
	if body != nil && string(body) != "[]" {
		var rows []domain.ViewModePreference
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode view_preferences: %w", err)
		}
		for _, r := range rows {
			viewModes[r.EntityType] = r.Mode
		}
	}

	return &domain.UserPreferences{
		UserID:    userID,
		Language:  user.Language,
		Direction: user.Language.Direction(),
		ViewModes: viewModes,
	}, nil
}

func (c *Client) SetLanguage(ctx context.Context, userID string, lang domain.Language) error {
	ctx, span := tracer.Start(ctx, "Supabase.SetLanguage")
	defer span.End()

	return c.UpdateUser(ctx, userID, map[string]any{"language": string(lang)})
}

func (c *Client) GetViewMode(ctx context.Context, userID, entityType string) (*domain.ViewModePreference, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetViewMode")
	defer span.End()

	path := fmt.Sprintf("view_preferences?user_id=eq.%s&entity_type=eq.%s&limit=1", userID, entityType)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil // no preference stored yet
	}

	var rows []domain.ViewModePreference
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode view_preferences: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) SetViewMode(ctx context.Context, userID, entityType, mode string) error {
	ctx, span := tracer.Start(ctx, "Supabase.SetViewMode")
	defer span.End()

	existing, err := c.GetViewMode(ctx, userID, entityType)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if existing == nil {
		data := map[string]any{
			"id":          uuid.New().String(),
			"user_id":     userID,
			"entity_type": entityType,
			"mode":        mode,
			"updated_at":  now,
		}
		_, err := c.doPost(ctx, "view_preferences", data)
		return err
	}

	path := fmt.Sprintf("view_preferences?user_id=eq.%s&entity_type=eq.%s", userID, entityType)
	return c.doPatch(ctx, path, map[string]any{"mode": mode, "updated_at": now})
}
