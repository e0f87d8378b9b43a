package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var signingKey = []byte("test_only_signing_key")

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	require.NoError(t, err)
	return token
}

func TestSessionAuthenticator_EnsureAuthenticated(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  bool
	}{
		{
			name:  "No token",
			token: func(t *testing.T) string { return "" },
			want:  false,
		},
		{
			name:  "Garbage token",
			token: func(t *testing.T) string { return "not.a.jwt" },
			want:  false,
		},
		{
			name: "Valid for an hour",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))})
			},
			want: true,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})
			},
			want: false,
		},
		{
			name: "Expires within the leeway",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Second))})
			},
			want: false,
		},
		{
			name: "No expiry claim",
			token: func(t *testing.T) string {
				return signedToken(t, jwt.RegisteredClaims{Subject: "student-42"})
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewSessionAuthenticator(slog.New(slog.NewTextHandler(io.Discard, nil)), tt.token(t))
			a.now = func() time.Time { return now }

			require.Equal(t, tt.want, a.EnsureAuthenticated(context.Background()))
		})
	}
}

func TestSessionAuthenticator_SetToken(t *testing.T) {
	req := require.New(t)
	a := NewSessionAuthenticator(slog.New(slog.NewTextHandler(io.Discard, nil)), "")
	req.False(a.EnsureAuthenticated(context.Background()))

	a.SetToken(signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}))
	req.True(a.EnsureAuthenticated(context.Background()))

	a.SetToken("")
	req.False(a.EnsureAuthenticated(context.Background()))
}
