package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/file"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

// FileUploadConfig configures HandleFileUpload for one endpoint.
type FileUploadConfig struct {
	FormFieldName string
	MaxSizeBytes  int64
	AllowedTypes  []string
	// AfterUpload attaches the stored image to its owner, e.g. a court.
	AfterUpload func(ctx context.Context, fileID string) error
}

type FileUploadResponse struct {
	FileID       string  `json:"fileId"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

func uploadResponse(f *file.File) FileUploadResponse {
	resp := FileUploadResponse{FileID: f.ID, URL: file.FileURL(f.ID)}
	if f.ThumbnailPath != nil {
		thumb := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &thumb
	}
	return resp
}

// HandleFileUpload stores the posted image and runs AfterUpload. The image is
// removed again when AfterUpload fails.
func (h *Handler) HandleFileUpload(c *gin.Context, cfg FileUploadConfig) {
	field := cfg.FormFieldName
	if field == "" {
		field = "file"
	}
	header, err := c.FormFile(field)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, field+" is required")
		return
	}

	ctx := c.Request.Context()
	f, err := h.fileService.Upload(ctx, file.UploadInput{
		FileHeader:   header,
		UploadedBy:   auth.GetUserEmail(c),
		MaxSizeBytes: cfg.MaxSizeBytes,
		AllowedTypes: cfg.AllowedTypes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if cfg.AfterUpload != nil {
		if err := cfg.AfterUpload(ctx, f.ID); err != nil {
			_ = h.fileService.Delete(ctx, f.ID)
			response.Error(c, err)
			return
		}
	}
	response.Created(c, "file uploaded successfully", uploadResponse(f))
}
