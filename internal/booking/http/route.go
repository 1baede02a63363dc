package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings", authMiddleware)

	// === Authenticated Routes ===
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PATCH("/confirm/:id", h.Confirm)
		group.DELETE("/:id", h.Cancel)
	}

	// === Administration Routes ===
	group.PUT("/approve/:id", adminMiddleware, h.Approve)

	g.GET("/booking/confirmed", authMiddleware, h.ListConfirmed)
	g.GET("/admin/confirmed/bookings", authMiddleware, adminMiddleware, h.ListAllConfirmed)
	g.POST("/payments/save", authMiddleware, h.SavePayment)
}
