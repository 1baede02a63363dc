package file

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("file not found")
	ErrThumbnailNotFound = apperror.NotFound("thumbnail not available for this file")
	ErrFileTooLarge      = apperror.Validation("file exceeds the size limit")
	ErrUnsupportedType   = apperror.Validation("unsupported file type")
	ErrInvalidImage      = apperror.Validation("file is not a valid image")
)

// File is an uploaded court image. Originals are stored re-encoded as JPEG.
type File struct {
	ID            string
	UploadedBy    string // uploader email
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

func (f *File) blobs() []string {
	paths := []string{f.StoragePath}
	if f.ThumbnailPath != nil {
		paths = append(paths, *f.ThumbnailPath)
	}
	return paths
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/files/" + id + "/thumbnail"
}
