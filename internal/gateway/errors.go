package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// AuthError is an authentication failure whose Message is safe to show to the user as is.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = &AuthError{
		Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "Invalid login credentials",
	}
	ErrUserAlreadyRegistered = &AuthError{
		Status: http.StatusConflict, Code: "user_already_exists", Message: "User already registered",
	}
	ErrWeakPassword = &AuthError{
		Status: http.StatusBadRequest, Code: "weak_password", Message: "Password should be at least 6 characters",
	}
	ErrSessionMissing = &AuthError{
		Status: http.StatusUnauthorized, Code: "session_missing", Message: "Auth session missing!",
	}
	ErrInvalidRefreshToken = &AuthError{
		Status: http.StatusUnauthorized, Code: "refresh_token_not_found", Message: "Invalid Refresh Token: Refresh Token Not Found",
	}
	ErrInvalidRecoveryToken = &AuthError{
		Status: http.StatusUnauthorized, Code: "otp_expired", Message: "Token has expired or is invalid",
	}
	ErrRecoveryEmailFailed = &AuthError{
		Status: http.StatusInternalServerError, Code: "unexpected_failure", Message: "Error sending recovery email",
	}
)

// AsAuthError reports whether err carries an AuthError and returns it.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key")
}
