package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/announcement"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

type Handler struct {
	board announcement.Service
}

func NewHandler(board announcement.Service) *Handler {
	return &Handler{board: board}
}

func (h *Handler) Board(c *gin.Context) {
	var q BoardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	list, total, err := h.board.Board(c.Request.Context(), q.filter())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AnnouncementResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toResponse(a))
	}
	response.Page(c, items, q.Page, q.PageSize, total)
}

// Show, Edit and Withdraw leave id validation to the service, which answers
// 404 for anything that is not a UUID.
func (h *Handler) Show(c *gin.Context) {
	a, err := h.board.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(a))
}

func (h *Handler) Publish(c *gin.Context) {
	var body AnnouncementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.board.Publish(c.Request.Context(), body.draft())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "announcement published", toResponse(a))
}

func (h *Handler) Edit(c *gin.Context) {
	var body AnnouncementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.board.Edit(c.Request.Context(), c.Param("id"), body.patch())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(a))
}

func (h *Handler) Withdraw(c *gin.Context) {
	if err := h.board.Withdraw(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "announcement withdrawn")
}
