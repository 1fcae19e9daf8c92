package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"uigen/internal/domain"
	"uigen/internal/domain/models"
)

// SupabaseJWTVerifier implements JWTVerifier using JWKS from Supabase.
type SupabaseJWTVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a new JWT verifier that fetches public keys from
// Supabase's JWKS endpoint. Keys are cached and refreshed automatically
// based on HTTP cache headers.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SupabaseJWTVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts Supabase claims.
// Returns an error if the token is invalid, expired, or has incorrect claims.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SupabaseClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Reject anonymous tokens; only full sessions may own projects
	if claims.Role != "authenticated" {
		v.logger.Debug("token has invalid role", "role", claims.Role)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the JWT verifier. keyfunc v3 manages its
// own refresh lifecycle, so this is a no-op kept for shutdown symmetry.
func (v *SupabaseJWTVerifier) Close() error {
	return nil
}
