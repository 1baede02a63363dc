package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/coupons", authMiddleware)

	// === Authenticated Routes ===
	group.GET("/validate", h.Validate)

	// === Administration Routes ===
	adminGroup := group.Group("", adminMiddleware)
	{
		adminGroup.GET("", h.List)
		adminGroup.POST("", h.Create)
		adminGroup.PATCH("/:id", h.Update)
		adminGroup.DELETE("/:id", h.Delete)
	}
}
