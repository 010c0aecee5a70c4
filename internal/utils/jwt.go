package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Session token lifetime
const sessionTTL = 24 * time.Hour

// JWT Claims
type Claims struct {
	UserID               string `json:"user_id"` // Custom claim for user ID
	Email                string `json:"email"`   // Custom claim for the user's email
	jwt.RegisteredClaims        // Standard JWT claims
}

// IdentityClaims are asserted by the identity provider gateway after the OAuth handshake
type IdentityClaims struct {
	Email                string `json:"email"`   // Verified email
	Name                 string `json:"name"`    // Display name
	Picture              string `json:"picture"` // Avatar URL
	jwt.RegisteredClaims        // Subject carries the provider account id
}

// GenerateJWT creates a session token for a given user
func GenerateJWT(userID, email, secret string) (string, error) {
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		Email:  email,  // Custom claim for email
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)), // Token expires in 24 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),                 // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a session token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	if err := parseHS256(tokenStr, secret, claims); err != nil {
		return nil, err // Return error if parsing fails
	}
	// A session without a user is useless
	if claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ParseIdentityToken validates an identity assertion from the identity provider
func ParseIdentityToken(tokenStr, secret string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	// Assertions are short-lived, so an expiry is mandatory
	if err := parseHS256(tokenStr, secret, claims, jwt.WithExpirationRequired()); err != nil {
		return nil, err
	}
	return claims, nil
}

// parseHS256 verifies an HS256 token against secret and fills claims
func parseHS256(tokenStr, secret string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	if secret == "" {
		return errors.New("jwt secret is not configured") // Refuse to verify with an empty key
	}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))...)
	// Check for parsing errors
	if err != nil {
		return err
	}
	// Validate token
	if !token.Valid {
		return jwt.ErrSignatureInvalid
	}
	return nil
}
