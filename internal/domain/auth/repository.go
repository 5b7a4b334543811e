package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists issued refresh tokens (hashed) so they can
// be revoked on logout.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	// DeleteExpiredRefreshTokens removes tokens that expired before the cutoff.
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}
