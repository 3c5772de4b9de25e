package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hudumahub/hudumahub/internal/middleware"
	"github.com/hudumahub/hudumahub/internal/models"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUserID extracts the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// currentRole extracts the authenticated role, defaulting to client.
func currentRole(c *gin.Context) models.Role {
	role, ok := middleware.RoleFromContext(c)
	if !ok {
		return models.RoleClient
	}
	return role
}
