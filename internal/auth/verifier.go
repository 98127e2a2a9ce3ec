// Package auth verifies Cognito access tokens and maps them to an identity.
package auth

import (
	"context"
	"fmt"
	"strings"

	"donaciones/pkg/types"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

type JWKSVerifier struct {
	cache      *jwk.Cache
	jwksURL    string
	staffGroup string
}

// NewJWKSVerifier registers the issuer key set with a refreshing cache.
func NewJWKSVerifier(ctx context.Context, issuerURL, staffGroup string) (*JWKSVerifier, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := JWKSURL(issuerURL)

	err = cache.Register(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	return &JWKSVerifier{cache: cache, jwksURL: jwksURL, staffGroup: staffGroup}, nil
}

func JWKSURL(issuerURL string) string {
	return strings.TrimSuffix(issuerURL, "/") + "/.well-known/jwks.json"
}

func (v *JWKSVerifier) Verify(ctx context.Context, accessToken string) (*types.Identity, error) {
	set, err := v.cache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, fmt.Errorf("no user id in jwt subject claim")
	}

	identity := &types.Identity{UserID: userID}

	// username and email are optional claims
	_ = token.Get("username", &identity.Username)
	_ = token.Get("email", &identity.Email)

	var groups []any
	_ = token.Get("cognito:groups", &groups)

	identity.Role = RoleFromGroups(stringSlice(groups), v.staffGroup)

	return identity, nil
}

// RoleFromGroups is staff when the staff group is among groups and a regular
// user otherwise.
func RoleFromGroups(groups []string, staffGroup string) types.Role {
	for _, g := range groups {
		if g == staffGroup {
			return types.RoleStaff
		}
	}
	return types.RoleUser
}

func stringSlice(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
