package domain

import "time"

// ============================================================
// Auth — Request / Response types (matches frontend API contract)
// ============================================================

// User roles recognized by the platform.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
	RoleClient = "client"
)

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
	Language string `json:"language,omitempty"`
}

// RegisterResponse is the body for 201 from POST /v1/auth/register.
type RegisterResponse struct {
	UserID  string `json:"userId"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /v1/auth/login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	Language     string `json:"language"`
}

// RefreshRequest is the body for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// PasswordResetRequestBody is the body for POST /v1/auth/password/reset-request.
type PasswordResetRequestBody struct {
	Email string `json:"email"`
}

// PasswordResetRequestResponse is the response for reset-request.
type PasswordResetRequestResponse struct {
	Message     string `json:"message"`
	MaskedEmail string `json:"maskedEmail"`
	ExpiresIn   int    `json:"expiresIn"`
}

// PasswordResetConfirmRequest is the body for POST /v1/auth/password/reset-confirm.
type PasswordResetConfirmRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}

// ChangePasswordRequest is the body for PUT /v1/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfileRequest is the body for PUT /v1/auth/me. Empty fields are
// left untouched; language changes go through the preferences endpoints.
type UpdateProfileRequest struct {
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// User represents a platform account (admin, reader or client).
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Language    Language   `json:"language"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthCredential represents stored credentials in the database.
type AuthCredential struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	PasswordHash      string     `json:"password_hash"`
	FailedAttempts    int        `json:"failed_attempts"`
	LockedUntil       *time.Time `json:"locked_until,omitempty"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	PasswordChangedAt *time.Time `json:"password_changed_at,omitempty"`
}

// AuthRefreshToken represents a refresh token stored in the database.
type AuthRefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// AuthPasswordResetCode represents a password reset verification code.
type AuthPasswordResetCode struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}
