package photo

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.NotFound("photo not found")
	ErrThumbnailMissing  = apperror.NotFound("thumbnail not available for this photo")
	ErrTooLarge          = apperror.New(http.StatusRequestEntityTooLarge, "photo exceeds the size limit")
	ErrUnsupportedFormat = apperror.Validation("unsupported photo format")
)

// Photo is an image attached to an item.
type Photo struct {
	ID            string
	ItemID        string
	UploaderID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public URL for a photo.
func URL(id string) string {
	return "/v1/photos/" + id
}

// ThumbnailURL returns the public URL for a photo's thumbnail.
func ThumbnailURL(id string) string {
	return "/v1/photos/" + id + "/thumbnail"
}
