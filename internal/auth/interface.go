package auth

import (
	"context"

	"uigen/internal/domain/models"
)

// JWTVerifier defines the interface for JWT token verification.
// This abstraction allows for different JWT verification implementations
// while keeping the middleware agnostic to the verification details.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

// CredentialResult is the outcome of a sign-in or sign-up attempt against
// the external credential provider.
type CredentialResult struct {
	Success     bool
	UserID      string
	AccessToken string
	Error       string
}

// CredentialProvider performs password sign-in and sign-up against the
// external session/credential service. Authentication internals live behind
// this boundary; the reconciliation workflow only consumes the result.
type CredentialProvider interface {
	SignIn(ctx context.Context, email, password string) (*CredentialResult, error)
	SignUp(ctx context.Context, email, password string) (*CredentialResult, error)
}
