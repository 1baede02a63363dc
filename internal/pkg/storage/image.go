package storage

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
)

// ImageProcessor resizes uploaded court pictures.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates an ImageProcessor encoding JPEG at quality 80.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80}
}

// Fit decodes content and scales it down to fit within maxWidth x maxHeight, re-encoded as JPEG.
// Images already inside the box keep their size.
func (p *ImageProcessor) Fit(content io.Reader, maxWidth, maxHeight int) (*bytes.Buffer, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	b := img.Bounds()
	if b.Dx() > maxWidth || b.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, errors.Wrap(err, "encode image")
	}
	return buf, nil
}

// Thumbnail produces a fixed-size center-cropped JPEG thumbnail.
func (p *ImageProcessor) Thumbnail(content io.Reader, width, height int) (*bytes.Buffer, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	thumb := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, errors.Wrap(err, "encode thumbnail")
	}
	return buf, nil
}
