package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/court"
	"github.com/nekogravitycat/court-rental-backend/internal/file"
	fileHttp "github.com/nekogravitycat/court-rental-backend/internal/file/http"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

const maxImageBytes = 5 << 20

type Handler struct {
	service     court.Service
	fileHandler *fileHttp.Handler
}

func NewHandler(service court.Service, fileHandler *fileHttp.Handler) *Handler {
	return &Handler{
		service:     service,
		fileHandler: fileHandler,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	courts, total, err := h.service.List(c.Request.Context(), court.Filter{
		Type:      req.Type,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CourtResponse, len(courts))
	for i, ct := range courts {
		items[i] = NewResponse(ct)
	}

	response.Page(c, items, req.Page, req.PageSize, total)
}

// courtID binds the :id path parameter. Anything but a UUID answers 404.
func courtID(c *gin.Context) (string, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, court.ErrNotFound)
		return "", false
	}
	return uri.ID, true
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := courtID(c)
	if !ok {
		return
	}
	ct, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, NewResponse(ct))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	ct, err := h.service.Create(c.Request.Context(), body.toCourt())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "court created", NewResponse(ct))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := courtID(c)
	if !ok {
		return
	}
	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	ct, err := h.service.Update(c.Request.Context(), id, body.toCourt())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, NewResponse(ct))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := courtID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "court deleted")
}

// UploadImage stores a multipart image and points the court's image at it.
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := courtID(c)
	if !ok {
		return
	}
	// Fail before storing anything when the court is gone.
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, fileHttp.FileUploadConfig{
		FormFieldName: "image",
		MaxSizeBytes:  maxImageBytes,
		AllowedTypes:  []string{"image/jpeg", "image/png"},
		AfterUpload: func(ctx context.Context, fileID string) error {
			_, err := h.service.SetImage(ctx, id, file.FileURL(fileID))
			return err
		},
	})
}
