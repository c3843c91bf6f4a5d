package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lifecourse/api/internal/models"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/security"
)

// Authenticate validates the bearer token and loads the account onto
// the request context. OTP-purpose tokens are rejected: they only exist
// to carry a login attempt across verification.
func Authenticate(secret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed_authorization_header"})
			return
		}

		claims, err := security.ParseAccessToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		if claims.Purpose == security.TokenPurposeOTP {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "otp_token_not_accepted"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown_user"})
			return
		}

		c.Set("current_user", user)
		c.Next()
	}
}

// CurrentUser pulls the authenticated account off the context. The
// second return is false on unauthenticated routes.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get("current_user")
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}
