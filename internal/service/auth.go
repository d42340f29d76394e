// Package service — AuthService handles authentication, registration,
// JWT token management, password reset and profile updates.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

const (
	maxFailedAttempts = 5
	lockDuration      = 30 * time.Minute
	bcryptCost        = 12
	minPasswordLength = 8
	resetCodeTTL      = 15 * time.Minute
	tokenIssuer       = "samia-platform-api"
)

// AuthService orchestrates authentication flows.
type AuthService struct {
	store       port.AuthStore
	jwtSecret   []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	defaultLang domain.Language
	logger      *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store port.AuthStore, jwtSecret string, accessTTL, refreshTTL time.Duration, defaultLang domain.Language, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:       store,
		jwtSecret:   []byte(jwtSecret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// ============================================================
// Token validation — used by middleware
// ============================================================

// JWTClaims represents the custom claims in access tokens. Language rides
// along so request handling can resolve the user's language without a
// round trip; it reflects the preference at issue time.
type JWTClaims struct {
	Sub      string `json:"sub"`
	Role     string `json:"role"`
	Language string `json:"lang"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}

	if claims.Type != "access" {
		return nil, &domain.ErrUnauthorized{Message: "wrong token type"}
	}

	return claims, nil
}

// ============================================================
// Internal helpers
// ============================================================

func (s *AuthService) signAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:      user.ID,
		Role:     user.Role,
		Language: string(user.Language),
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) generateRefreshToken() (raw string, hashed string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	hashed = hashToken(raw)
	return raw, hashed, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func generateVerificationCode() string {
	code := ""
	for i := 0; i < 6; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		code += fmt.Sprintf("%d", n.Int64())
	}
	return code
}

func validatePassword(pw string) error {
	if len(pw) < minPasswordLength {
		return &domain.ErrValidation{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLength),
		}
	}
	return nil
}

func maskEmail(email string) string {
	if email == "" {
		return "***@***.com"
	}
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***@***.com"
	}
	local := parts[0]
	domainPart := parts[1]

	masked := string(local[0])
	if len(local) > 1 {
		masked += strings.Repeat("*", len(local)-2)
		masked += string(local[len(local)-1])
	} else {
		masked += "***"
	}
	return masked + "@" + domainPart
}
