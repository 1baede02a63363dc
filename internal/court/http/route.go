package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers court routes. Reads are public, writes need an admin.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	g.GET("/courts", h.List)
	g.GET("/courts/:id", h.Get)

	// === Admin Routes ===
	admin := g.Group("", authMiddleware, adminMiddleware)
	{
		admin.POST("/create/courts", h.Create)
		admin.PATCH("/update/courts/:id", h.Update)
		admin.DELETE("/courts/:id", h.Delete)
		admin.POST("/courts/:id/image", h.UploadImage)
	}
}
