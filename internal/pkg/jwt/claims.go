package jwt

import (
	"context"
	"errors"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrMissingClaims = errors.New("missing or malformed token claims")

// Claims is the typed view of an access token.
type Claims struct {
	UserID         string
	Email          string
	OrganizationID string
	StoreID        *string
	Role           user.Role
}

// IsStoreScoped reports whether the caller may only see their own store.
func (c Claims) IsStoreScoped() bool {
	return c.Role == user.RoleStoreManager && c.StoreID != nil
}

// ClaimsFromContext reads the verified access token claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	var c Claims
	var ok bool
	if c.UserID, ok = claims["user_id"].(string); !ok || c.UserID == "" {
		return Claims{}, ErrMissingClaims
	}
	if c.OrganizationID, ok = claims["organization_id"].(string); !ok || c.OrganizationID == "" {
		return Claims{}, ErrMissingClaims
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Claims{}, ErrMissingClaims
	}
	c.Role = user.Role(role)
	c.Email, _ = claims["email"].(string)
	if storeID, ok := claims["store_id"].(string); ok && storeID != "" {
		c.StoreID = &storeID
	}
	return c, nil
}

// ContextWithClaims stores c in ctx the same way jwtauth.Verifier stores a verified token.
func ContextWithClaims(ctx context.Context, c Claims) context.Context {
	tok := jwt.New()
	_ = tok.Set("user_id", c.UserID)
	_ = tok.Set("email", c.Email)
	_ = tok.Set("organization_id", c.OrganizationID)
	_ = tok.Set("role", string(c.Role))
	_ = tok.Set("type", TokenTypeAccess)
	if c.StoreID != nil {
		_ = tok.Set("store_id", *c.StoreID)
	}
	return jwtauth.NewContext(ctx, tok, nil)
}
