package file

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/storage"
)

const (
	maxImageWidth   = 1600
	maxImageHeight  = 1600
	thumbnailWidth  = 400
	thumbnailHeight = 300
)

// UploadInput describes one uploaded image and the limits it must satisfy.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	UploadedBy   string
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = any image/*
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo   Repository
	blobs  storage.Storage
	images *storage.ImageProcessor
	clock  clock.Clock
	log    logrus.FieldLogger
}

func NewService(repo Repository, blobs storage.Storage, clk clock.Clock, log logrus.FieldLogger) Service {
	return &service{
		repo:   repo,
		blobs:  blobs,
		images: storage.NewImageProcessor(),
		clock:  clk,
		log:    log.WithField("component", "file"),
	}
}

func (in UploadInput) check() error {
	h := in.FileHeader
	if in.MaxSizeBytes > 0 && h.Size > in.MaxSizeBytes {
		return ErrFileTooLarge
	}
	ct := h.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return ErrUnsupportedType
	}
	if len(in.AllowedTypes) > 0 && !slices.Contains(in.AllowedTypes, ct) {
		return ErrUnsupportedType
	}
	return nil
}

// blobPaths shards court images by the first two characters of the id.
func blobPaths(id string) (original, thumbnail string) {
	dir := path.Join("courts", id[:2])
	return path.Join(dir, id+".jpg"), path.Join(dir, id+"_thumb.jpg")
}

func readUpload(h *multipart.FileHeader) ([]byte, error) {
	src, err := h.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	return raw, errors.Wrap(err, "read upload")
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	raw, err := readUpload(in.FileHeader)
	if err != nil {
		return nil, err
	}

	original, err := s.images.Fit(bytes.NewReader(raw), maxImageWidth, maxImageHeight)
	if err != nil {
		s.log.WithError(err).WithField("filename", in.FileHeader.Filename).Info("rejected upload")
		return nil, ErrInvalidImage
	}

	f := &File{
		ID:          uuid.NewString(),
		UploadedBy:  in.UploadedBy,
		Filename:    in.FileHeader.Filename,
		ContentType: "image/jpeg",
		Size:        int64(original.Len()),
		CreatedAt:   s.clock.Now(),
	}
	originalPath, thumbPath := blobPaths(f.ID)
	f.StoragePath = originalPath

	if err := s.blobs.Save(ctx, originalPath, original); err != nil {
		return nil, errors.Wrap(err, "store image")
	}

	// A missing thumbnail does not fail the upload.
	if err := s.storeThumbnail(ctx, raw, thumbPath); err != nil {
		s.log.WithError(err).WithField("file_id", f.ID).Warn("thumbnail generation failed")
	} else {
		f.ThumbnailPath = &thumbPath
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.removeBlobs(ctx, f)
		return nil, err
	}
	return f, nil
}

func (s *service) storeThumbnail(ctx context.Context, raw []byte, dst string) error {
	thumb, err := s.images.Thumbnail(bytes.NewReader(raw), thumbnailWidth, thumbnailHeight)
	if err != nil {
		return err
	}
	return s.blobs.Save(ctx, dst, thumb)
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeBlobs(ctx, f)
	return nil
}

func (s *service) removeBlobs(ctx context.Context, f *File) {
	for _, p := range f.blobs() {
		if err := s.blobs.Delete(ctx, p); err != nil {
			s.log.WithError(err).WithField("path", p).Warn("failed to remove stored file")
		}
	}
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	return s.open(ctx, id, func(f *File) (string, error) { return f.StoragePath, nil })
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	return s.open(ctx, id, func(f *File) (string, error) {
		if f.ThumbnailPath == nil {
			return "", ErrThumbnailNotFound
		}
		return *f.ThumbnailPath, nil
	})
}

func (s *service) open(ctx context.Context, id string, pick func(*File) (string, error)) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := pick(f)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.blobs.Get(ctx, p)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open stored file %s", p)
	}
	return stream, f, nil
}
