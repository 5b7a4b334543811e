package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrGoogleAccountLinked = errors.New("email is linked to a different google account")
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
)
