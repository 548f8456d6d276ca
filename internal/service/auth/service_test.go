package auth

import (
	"context"
	"testing"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type memoryUsers map[string]user.User // id -> user

func (m memoryUsers) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := m[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

type memoryTokens map[string]time.Time // token -> expiry

func (m memoryTokens) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	if _, ok := m[token]; !ok {
		m[token] = expiresAt
	}
	return nil
}

func (m memoryTokens) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := m[token]
	return ok, nil
}

func (m memoryTokens) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, exp := range m {
		if !exp.After(now) {
			delete(m, token)
			n++
		}
	}
	return n, nil
}

func setup(t *testing.T) (auth.AuthService, *jwt.JWTService, user.User) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	storeID := "0190a5b2-0000-7000-8000-0000000000a1"
	u := user.User{
		ID:             "0190a5b2-0000-7000-8000-00000000f001",
		OrganizationID: "0190a5b2-0000-7000-8000-000000000001",
		StoreID:        &storeID,
		Email:          "manager@example.com",
		PasswordHash:   string(hash),
		Name:           "店長",
		Role:           user.RoleStoreManager,
	}
	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour)
	return NewAuthService(memoryUsers{u.ID: u}, memoryTokens{}, jwtService), jwtService, u
}

func TestLogin(t *testing.T) {
	svc, jwtService, u := setup(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: u.Email, Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.Equal(t, "store_manager", resp.User.Role)

	userID, _, err := jwtService.ParseRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, u := setup(t)

	tests := []struct {
		name string
		req  auth.LoginRequest
	}{
		{"wrong password", auth.LoginRequest{Email: u.Email, Password: "nope"}},
		{"unknown email", auth.LoginRequest{Email: "someone@example.com", Password: "correct-horse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRefreshAndLogout(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: u.Email, Password: "correct-horse"})
	require.NoError(t, err)
	req := auth.RefreshTokenRequest{RefreshToken: login.RefreshToken}

	refreshed, err := svc.RefreshToken(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, req))
	require.NoError(t, svc.Logout(ctx, req))

	_, err = svc.RefreshToken(ctx, req)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, u := setup(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: u.Email, Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	err = svc.Logout(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
