// Package auth defines bearer-session identity for API callers.
//
// Sessions live in the store and are looked up by the HMAC-SHA256 hash of the
// presented token; the session store is an explicit injected capability, not
// process-wide state.
package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ScopeAdmin grants access to the back-office endpoints.
const ScopeAdmin = "admin"

// ErrNotFound is returned when no session matches the presented token hash.
var ErrNotFound = errors.New("session not found")

// Session holds the identity and permission data for a validated token.
type Session struct {
	ID         string
	TokenHash  string
	CustomerID string
	Name       string
	Scopes     []string
	ExpiresAt  *time.Time
}

// HasScope reports whether the session carries the given scope.
func (s *Session) HasScope(scope string) bool {
	for _, sc := range s.Scopes {
		if sc == scope {
			return true
		}
	}
	return false
}

// Expired reports whether the session has an expiry in the past.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Store provides lookup of sessions by their HMAC token hash.
type Store interface {
	FindByHash(ctx context.Context, hash string) (*Session, error)
}
