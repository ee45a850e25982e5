package jwtverify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-at-least-32-characters!!"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims baasClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() baasClaims {
	now := time.Now()
	return baasClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "https://proj.example/auth/v1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: "a@b.c",
		Role:  "authenticated",
	}
}

func TestVerify_OK(t *testing.T) {
	v := NewVerifier(secret, "https://proj.example/auth/v1")
	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims())

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, "a@b.c", c.Email)
	assert.Equal(t, "authenticated", c.Role)
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier(secret, "https://proj.example/auth/v1")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIss := validClaims()
	wrongIss.Issuer = "other"

	noSub := validClaims()
	noSub.Subject = ""

	noExp := validClaims()
	noExp.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), validClaims())},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(secret), expired)},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, []byte(secret), wrongIss)},
		{"missing sub", sign(t, jwt.SigningMethodHS256, []byte(secret), noSub)},
		{"missing exp", sign(t, jwt.SigningMethodHS256, []byte(secret), noExp)},
		{"hs512", sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestVerify_NoIssuerConfigured(t *testing.T) {
	v := NewVerifier(secret, "")
	c := validClaims()
	c.Issuer = "anything"
	_, err := v.Verify(context.Background(), sign(t, jwt.SigningMethodHS256, []byte(secret), c))
	assert.NoError(t, err)
}
