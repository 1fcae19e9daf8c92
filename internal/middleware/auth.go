package middleware

import (
	"net/http"
	"strings"

	"uigen/internal/auth"
	"uigen/internal/httputil"
)

// AnonSessionHeader carries the visitor's browser-session identifier so the
// server can track unsaved anonymous work for that session.
const AnonSessionHeader = "X-Anon-Session"

// AuthMiddleware resolves the request identity. A valid bearer token
// attaches the user id to the context; anything else passes through
// unauthenticated - owner-scoped operations reject downstream, while the
// chat endpoint stays open to anonymous visitors.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sid := r.Header.Get(AnonSessionHeader); sid != "" {
				r = httputil.WithAnonSessionID(r, sid)
			}

			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if claims, err := verifier.VerifyToken(token); err == nil {
					r = httputil.WithUserID(r, claims.GetUserID())
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
