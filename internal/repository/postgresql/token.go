package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
)

type tokenRepositoryImpl struct {
	db *database.DB
}

func NewTokenRepository(db *database.DB) auth.TokenRepository {
	return &tokenRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func (t *tokenRepositoryImpl) hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// Revoke implements auth.TokenRepository.
func (t *tokenRepositoryImpl) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, t.db)
	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := q.Exec(ctx, query, t.hashToken(token), expiresAt.UTC())
	return err
}

// IsRevoked implements auth.TokenRepository.
func (t *tokenRepositoryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, t.db)

	var revoked bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`, t.hashToken(token)).Scan(&revoked)
	return revoked, err
}

// PruneExpired implements auth.TokenRepository.
func (t *tokenRepositoryImpl) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, t.db)
	tag, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
