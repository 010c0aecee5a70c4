package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"credits_system/internal/account" // User provisioning
	"credits_system/internal/utils"   // JWT utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// SignInRequest carries the identity provider's assertion
type SignInRequest struct {
	IDToken string `json:"id_token" binding:"required"` // Signed identity assertion
}

// AuthResponse is returned after a successful sign-in
type AuthResponse struct {
	Token string `json:"token"` // Session JWT
}

// SignInHandler provisions the asserted user, applies the free grant once, and returns a session token
func SignInHandler(accounts *account.Service, rdb *redis.Client, identitySecret, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignInRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
			return
		}
		// Verify the assertion from the identity provider
		claims, err := utils.ParseIdentityToken(req.IDToken, identitySecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED"})
			return
		}
		// Upsert the user and apply the free grant
		user, err := accounts.SignIn(c.Request.Context(), account.Identity{
			Email:             claims.Email,   // Verified email
			Name:              claims.Name,    // Display name
			Image:             claims.Picture, // Avatar
			ProviderAccountID: claims.Subject, // Provider account id
		})
		if errors.Is(err, account.ErrMissingEmail) {
			// An identity without email cannot own a wallet
			c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_EMAIL"})
			return
		}
		if err != nil {
			internalError(c, "SIGNIN_FAILED", err, nil)
			return
		}
		invalidateUser(c.Request.Context(), rdb, user.ID) // Free grant or new user changes cached listings
		// Generate the session token
		token, err := utils.GenerateJWT(user.ID, user.Email, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			internalError(c, "TOKEN_FAILED", err, nil)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
	}
}
