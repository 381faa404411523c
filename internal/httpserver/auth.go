// apps/go-server/internal/httpserver/auth.go
//
// Caller identification for game routes.
//   - The caller token comes from "Authorization: Bearer <token>" or the
//     auth cookie.
//   - With JWT_SECRET set the token must be a valid HS256 JWT and the
//     identity is its subject ("sub", falling back to "id").
//   - Without a secret the opaque token itself is the identity.

package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const cookieName = "battleships_token"

// ctxIdentityKey is the context key type for the caller identity.
type ctxIdentityKey struct{}

// requireIdentity rejects requests without a usable token and stores the
// caller identity in the request context.
func requireIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			id := tok
			if secret != "" {
				var ok bool
				if id, ok = subjectOf(tok, secret); !ok {
					writeError(w, http.StatusUnauthorized, "Invalid token")
					return
				}
			}
			ctx := context.WithValue(r.Context(), ctxIdentityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// subjectOf verifies an HS256 token and returns its subject.
func subjectOf(tok, secret string) (string, bool) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", false
	}
	if sub, _ := claims.GetSubject(); sub != "" {
		return sub, true
	}
	if id, _ := claims["id"].(string); id != "" {
		return id, true
	}
	return "", false
}

// identityFrom returns the identity stored by requireIdentity.
func identityFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxIdentityKey{}).(string)
	return id
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
