package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey        contextKey = "userID"
	anonSessionIDKey contextKey = "anonSessionID"
)

// WithUserID adds the authenticated user id to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves the user id from context; empty string means the
// request is unauthenticated.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithAnonSessionID adds the visitor's anonymous session id to the context.
func WithAnonSessionID(r *http.Request, sid string) *http.Request {
	ctx := context.WithValue(r.Context(), anonSessionIDKey, sid)
	return r.WithContext(ctx)
}

// GetAnonSessionID retrieves the anonymous session id, or "" if absent.
func GetAnonSessionID(r *http.Request) string {
	sid, _ := r.Context().Value(anonSessionIDKey).(string)
	return sid
}
