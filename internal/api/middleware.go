package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
)

// RequireAdmin ensures the authenticated user is an admin.
// The role is re-read from the user store, so a demoted admin loses access
// before their token expires. It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(roles user.RoleReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := auth.GetUserEmail(c)
		if email == "" {
			response.Fail(c, http.StatusUnauthorized, "unauthorized access")
			c.Abort()
			return
		}

		if !user.IsAdmin(c.Request.Context(), roles, email) {
			response.Fail(c, http.StatusForbidden, "forbidden access")
			c.Abort()
			return
		}

		c.Next()
	}
}
