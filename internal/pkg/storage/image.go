package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// ThumbnailMode picks how a source image is brought into the target box.
type ThumbnailMode int

const (
	// Fit scales the whole image into the box, keeping its aspect ratio.
	Fit ThumbnailMode = iota
	// Fill scales and center-crops so the result covers the box exactly.
	Fill
)

// ImageProcessor renders JPEG thumbnails.
type ImageProcessor struct {
	quality int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80}
}

// Thumbnail decodes content, honoring EXIF orientation, and renders it into a
// width x height box using mode.
func (p *ImageProcessor) Thumbnail(content io.Reader, width, height int, mode ThumbnailMode) (io.Reader, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	switch mode {
	case Fill:
		img = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	default:
		img = imaging.Fit(img, width, height, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
