// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
)

// Translator produces the missing language variant of a text.
type Translator interface {
	Translate(ctx context.Context, text string, source, target domain.Language) (string, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// AuthStore defines all data operations for the authentication system.
type AuthStore interface {
	// User lookup
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, updates map[string]any) error

	// Registration
	CreateUser(ctx context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error)

	// Credentials
	GetCredentials(ctx context.Context, userID string) (*domain.AuthCredential, error)
	UpdateCredentials(ctx context.Context, userID string, updates map[string]any) error

	// Refresh tokens
	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error

	// Password reset codes
	StoreResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error
	GetValidResetCode(ctx context.Context, userID, code string) (*domain.AuthPasswordResetCode, error)
	MarkResetCodeUsed(ctx context.Context, codeID string) error
}
