package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public board and its admin editing endpoints.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	board := g.Group("/announcements")
	board.GET("", h.Board)
	board.GET("/:id", h.Show)

	editors := []gin.HandlerFunc{authMiddleware, adminMiddleware}
	board.POST("", append(editors, h.Publish)...)
	board.PATCH("/:id", append(editors, h.Edit)...)
	board.DELETE("/:id", append(editors, h.Withdraw)...)
}
