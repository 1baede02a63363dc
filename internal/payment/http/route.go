package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the payment read and intent endpoints.
// POST /payments/save belongs to the booking routes since it confirms a booking.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/payments", authMiddleware)
	{
		group.GET("", h.List)
		group.POST("/create-payment-intent", h.CreateIntent)
	}
}
