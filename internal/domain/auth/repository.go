package auth

import (
	"context"
	"time"
)

// TokenRepository persists revoked refresh tokens until they expire.
type TokenRepository interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// PruneExpired deletes revocations whose tokens expired before now
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
