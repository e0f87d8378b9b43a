package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway treats a token about to expire as already expired.
const expiryLeeway = 30 * time.Second

// SessionAuthenticator holds the bearer token issued by the school API.
// Only the expiry is inspected; the signature is checked by the server.
type SessionAuthenticator struct {
	mu    sync.RWMutex
	token string
	log   *slog.Logger
	now   func() time.Time
}

func NewSessionAuthenticator(log *slog.Logger, token string) *SessionAuthenticator {
	return &SessionAuthenticator{
		token: token,
		log:   log,
		now:   time.Now,
	}
}

// SetToken replaces the session token, an empty token logs out.
func (a *SessionAuthenticator) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *SessionAuthenticator) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// EnsureAuthenticated reports whether a usable session is held.
func (a *SessionAuthenticator) EnsureAuthenticated(_ context.Context) bool {
	token := a.Token()
	if token == "" {
		a.log.Debug("No session token")
		return false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		a.log.Warn("Session token unreadable", "error", err)
		return false
	}

	// Tokens without expiry are accepted, the server decides.
	if claims.ExpiresAt == nil {
		return true
	}
	if !a.now().Add(expiryLeeway).Before(claims.ExpiresAt.Time) {
		a.log.Info("Session token expired", "expired_at", claims.ExpiresAt.Time)
		return false
	}
	return true
}
