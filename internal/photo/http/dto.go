package http

// UploadResponse answers a successful photo upload.
type UploadResponse struct {
	Message      string  `json:"message"`
	PhotoID      string  `json:"photo_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}
