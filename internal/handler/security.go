package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/xenking/dinehall/internal/domain/auth"
)

// sessionKey is the context key for the authenticated session.
type sessionKey struct{}

// SessionFromContext returns the authenticated session, or nil for anonymous
// callers.
func SessionFromContext(ctx context.Context) *auth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*auth.Session); ok {
		return s
	}
	return nil
}

// Authenticator resolves bearer tokens to sessions. Tokens are HMAC-SHA256
// hashed with a server pepper before lookup, so the store never sees raw
// token material.
type Authenticator struct {
	store  auth.Store
	pepper []byte
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator with the given session store and
// HMAC pepper.
func NewAuthenticator(store auth.Store, pepper []byte) *Authenticator {
	return &Authenticator{store: store, pepper: pepper, now: time.Now}
}

// Middleware attaches the caller's session to the request context when a
// valid bearer token is presented. Requests without a token (or with an
// invalid one) proceed anonymously; route groups enforce their own
// requirements via RequireAuth and RequireAdmin.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		sess := a.resolve(r.Context(), token)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolve(ctx context.Context, token string) *auth.Session {
	mac := hmac.New(sha256.New, a.pepper)
	mac.Write([]byte(token))
	hash := mac.Sum(nil)

	sess, err := a.store.FindByHash(ctx, hex.EncodeToString(hash))
	if err != nil {
		return nil
	}
	if sess.Expired(a.now()) {
		return nil
	}

	// Constant-time comparison guards against timing side-channels even
	// though the lookup already succeeded.
	stored, err := hex.DecodeString(sess.TokenHash)
	if err != nil || subtle.ConstantTimeCompare(hash, stored) != 1 {
		return nil
	}
	return sess
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without the admin scope.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !sess.HasScope(auth.ScopeAdmin) {
			writeFail(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
