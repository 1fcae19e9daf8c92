package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims represents the JWT claims structure from Supabase Auth.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	SessionID            string `json:"session_id"`
	IsAnonymous          bool   `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the primary identifier for the authenticated user.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}
