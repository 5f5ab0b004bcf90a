package middleware

import (
	"context"
	"net/http"
	"strings"
)

type sessionKey struct{}

// DefaultSession is used when a request carries no session identifier.
const DefaultSession = "anonymous"

// Session returns middleware that resolves the caller's session ID from the
// X-Session-ID header or the session_id cookie and stores it on the request
// context. Requests without one share the anonymous session.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get("X-Session-ID"))
			if id == "" {
				if c, err := r.Cookie("session_id"); err == nil {
					id = strings.TrimSpace(c.Value)
				}
			}
			if id == "" {
				id = DefaultSession
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session ID stored by the Session middleware, or
// DefaultSession when none was set.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey{}).(string); ok && id != "" {
		return id
	}
	return DefaultSession
}
