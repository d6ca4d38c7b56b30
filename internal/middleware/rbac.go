package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sekolahku/penilaian-api/internal/models"
	appErrors "github.com/sekolahku/penilaian-api/pkg/errors"
	"github.com/sekolahku/penilaian-api/pkg/response"
)

// RequireRoles restricts a route to the given roles. A "SELF" marker role
// additionally admits the user whose id matches the :id path parameter.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	const roleSelf = models.UserRole("SELF")

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		allowSelf := false
		for _, role := range roles {
			if role == roleSelf {
				allowSelf = true
				continue
			}
			if claims.Role == role {
				c.Next()
				return
			}
		}

		if allowSelf {
			if targetID := c.Param("id"); targetID != "" && targetID == claims.UserID {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
