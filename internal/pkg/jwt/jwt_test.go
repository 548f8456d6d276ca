package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenClaimsRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 24*time.Hour)
	storeID := "0190a5b2-3c4d-7e5f-8a6b-7c8d9e0f1a2b"

	token, exp, err := svc.GenerateAccessToken(user.User{
		ID:             "u-1",
		Email:          "manager@example.com",
		OrganizationID: "org-1",
		StoreID:        &storeID,
		Role:           user.RoleStoreManager,
	})
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), decoded, nil)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, user.RoleStoreManager, claims.Role)
	require.NotNil(t, claims.StoreID)
	assert.Equal(t, storeID, *claims.StoreID)
	assert.True(t, claims.IsStoreScoped())
}

func TestParseRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 24*time.Hour)

	refresh, _, err := svc.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	userID, exp, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Greater(t, exp, time.Now().Unix())

	access, _, err := svc.GenerateAccessToken(user.User{ID: "u-1", OrganizationID: "org-1", Role: user.RoleAdmin})
	require.NoError(t, err)
	_, _, err = svc.ParseRefreshToken(access)
	assert.Error(t, err, "access tokens must not be accepted as refresh tokens")
}

func TestContextWithClaims(t *testing.T) {
	storeID := "store-1"
	want := Claims{
		UserID:         "user-1",
		Email:          "manager@example.com",
		OrganizationID: "org-1",
		StoreID:        &storeID,
		Role:           user.RoleStoreManager,
	}

	got, err := ClaimsFromContext(ContextWithClaims(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, got.IsStoreScoped())
}
