package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes, including token issuance.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	g.POST("/users", h.Register)
	g.POST("/jwt", h.IssueToken)
	g.POST("/logout", h.Logout)

	// Authenticated Routes
	g.GET("/users/role/:email", authMiddleware, h.GetRole)
	g.GET("/users/:email", authMiddleware, h.GetByEmail)

	// Admin Routes
	g.GET("/users", authMiddleware, adminMiddleware, h.List)
	g.DELETE("/users/:id", authMiddleware, adminMiddleware, h.Delete)
	g.GET("/members", authMiddleware, adminMiddleware, h.ListMembers)
}
