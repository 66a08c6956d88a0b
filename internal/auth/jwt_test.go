package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/domain"
)

const testSecret = "test-secret-key-for-unit-tests-only"

func signToken(t *testing.T, method jwt.SigningMethod, claims auth.Claims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims() auth.Claims {
	return auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "therapist-42",
			Issuer:    "ptflow",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "pt@example.com",
		Name:  "Pat Therapist",
	}
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	_, err := auth.NewJWTVerifier(auth.Config{})
	require.ErrorIs(t, err, auth.ErrSecretNotConfigured)
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	verifier, err := auth.NewJWTVerifier(auth.Config{Secret: testSecret, Issuer: "ptflow"})
	require.NoError(t, err)

	session, err := verifier.Verify(context.Background(), signToken(t, jwt.SigningMethodHS256, validClaims(), testSecret))
	require.NoError(t, err)
	require.Equal(t, "therapist-42", session.Subject)
	require.Equal(t, "pt@example.com", session.Email)
	require.Equal(t, "Pat Therapist", session.Name)
	require.False(t, session.ExpiresAt.IsZero())
}

func TestJWTVerifier_Rejects(t *testing.T) {
	verifier, err := auth.NewJWTVerifier(auth.Config{Secret: testSecret, Issuer: "ptflow", Audience: "ptflow-api"})
	require.NoError(t, err)

	withAudience := func(mutate func(*auth.Claims)) auth.Claims {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"ptflow-api"}
		if mutate != nil {
			mutate(&claims)
		}
		return claims
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signToken(t, jwt.SigningMethodHS256, withAudience(nil), "other-secret")},
		{name: "disallowed algorithm", token: signToken(t, jwt.SigningMethodHS512, withAudience(nil), testSecret)},
		{
			name: "expired",
			token: signToken(t, jwt.SigningMethodHS256, withAudience(func(c *auth.Claims) {
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			}), testSecret),
		},
		{
			name: "no expiry",
			token: signToken(t, jwt.SigningMethodHS256, withAudience(func(c *auth.Claims) {
				c.ExpiresAt = nil
			}), testSecret),
		},
		{
			name: "wrong issuer",
			token: signToken(t, jwt.SigningMethodHS256, withAudience(func(c *auth.Claims) {
				c.Issuer = "someone-else"
			}), testSecret),
		},
		{
			name: "wrong audience",
			token: signToken(t, jwt.SigningMethodHS256, withAudience(func(c *auth.Claims) {
				c.Audience = jwt.ClaimStrings{"billing"}
			}), testSecret),
		},
		{
			name: "no subject",
			token: signToken(t, jwt.SigningMethodHS256, withAudience(func(c *auth.Claims) {
				c.Subject = ""
			}), testSecret),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := verifier.Verify(context.Background(), tt.token)
			require.ErrorIs(t, err, domain.ErrUnauthenticated)
			require.Nil(t, session)
		})
	}
}
