package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "upload/ab/photo.png", bytes.NewBufferString("data")))

	rc, err := s.Get(ctx, "upload/ab/photo.png")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "data", string(got))

	require.NoError(t, s.Delete(ctx, "upload/ab/photo.png"))
	require.NoError(t, s.Delete(ctx, "upload/ab/photo.png"))

	_, err = s.Get(ctx, "upload/ab/photo.png")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorageStaysInsideBase(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	full, err := s.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.Contains(t, full, s.basePath)
}

func TestThumbnailModes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		src.Set(x, 0, color.White)
	}
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, src))

	tests := []struct {
		name   string
		mode   ThumbnailMode
		wantDx int
		wantDy int
	}{
		{"fit keeps aspect ratio", Fit, 100, 50},
		{"fill crops to the box", Fill, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewImageProcessor().Thumbnail(bytes.NewReader(encoded.Bytes()), 100, 100, tt.mode)
			require.NoError(t, err)

			img, format, err := image.Decode(out)
			require.NoError(t, err)
			assert.Equal(t, "jpeg", format)
			assert.Equal(t, tt.wantDx, img.Bounds().Dx())
			assert.Equal(t, tt.wantDy, img.Bounds().Dy())
		})
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := NewImageProcessor().Thumbnail(bytes.NewBufferString("not an image"), 100, 100, Fit)
	assert.Error(t, err)
}
