package auth

import "github.com/gin-gonic/gin"

const (
	ctxEmailKey = "userEmail"
	ctxRoleKey  = "userRole"
)

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxEmailKey)
}

// GetUserRole returns the role carried by the token. Admin checks must not trust it;
// see api.RequireAdmin.
func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxRoleKey)
}

// SetIdentity stores the caller identity on the context.
func SetIdentity(c *gin.Context, email, role string) {
	c.Set(ctxEmailKey, email)
	c.Set(ctxRoleKey, role)
}
