package http

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/file"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

type Handler struct {
	fileService file.Service
}

func NewHandler(fileService file.Service) *Handler {
	return &Handler{fileService: fileService}
}

type opener func(ctx context.Context, id string) (io.ReadCloser, *file.File, error)

// stream writes a stored JPEG inline with a one-day public cache.
func stream(c *gin.Context, open opener, suffix string) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, file.ErrNotFound)
		return
	}

	body, f, err := open(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", `inline; filename="`+f.ID+suffix+`.jpg"`)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	// Headers are already sent; a copy error cannot be reported.
	_, _ = io.Copy(c.Writer, body)
}

func (h *Handler) ServeFile(c *gin.Context) {
	stream(c, h.fileService.Download, "")
}

func (h *Handler) ServeThumbnail(c *gin.Context) {
	stream(c, h.fileService.DownloadThumbnail, "_thumb")
}
