package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meireles/campus-records-api/internal/models"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
	"github.com/meireles/campus-records-api/pkg/response"
)

// ContextUserKey is the gin context key storing the identity claim.
const ContextUserKey = "currentUser"

// TokenValidator validates a bearer token and returns the identity claim.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid session credential. The
// "Bearer " scheme marker is optional, matching what clients send.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "token is missing"))
			c.Abort()
			return
		}

		token := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
