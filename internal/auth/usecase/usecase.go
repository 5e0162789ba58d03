package usecase

import (
	"errors"

	authdomain "notibox-backend/internal/auth/domain"
	authdto "notibox-backend/internal/auth/dto"
)

// Known authentication failures, surfaced to the client as-is.
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUserNotFound  = errors.New("no account found with this email")
	ErrWrongPassword = errors.New("incorrect password")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// AuthUsecase defines the interface for authentication business logic
type AuthUsecase interface {
	// Register creates an account. The first account ever created gets the
	// admin role, every later one the user role.
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)

	// Login authenticates by email and password.
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)

	// RefreshToken exchanges a valid refresh token for a new token pair.
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)

	// Logout revokes a refresh token.
	Logout(refreshToken string) error

	// ValidateToken parses an access token and loads its user.
	ValidateToken(tokenString string) (*authdomain.User, error)

	// RegisterPushToken records the caller's push destination (upsert).
	RegisterPushToken(userID string, req *authdto.RegisterPushTokenRequest) error

	// UnregisterPushToken drops the caller's push destination.
	UnregisterPushToken(userID string) error

	// SetTokenRegisteredCallback sets a hook invoked after each successful
	// push token registration.
	SetTokenRegisteredCallback(cb func(userID string))
}
