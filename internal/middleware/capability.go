package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/permissions"
	"github.com/hudumahub/hudumahub/pkg/errors"
	"github.com/hudumahub/hudumahub/pkg/response"
)

// RequireCapability checks that the authenticated user's role holds the
// supplied capability. Denials return 403, distinct from 404, so existence
// is never leaked through authorization errors.
func RequireCapability(capability permissions.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !permissions.Can(role, capability) {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
