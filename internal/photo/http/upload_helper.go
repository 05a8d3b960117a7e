package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
)

// UploadConfig defines how an entity accepts a photo upload.
type UploadConfig struct {
	FormFieldName string                                          // default: "file"
	ItemID        string                                          // the item the photo belongs to
	MaxSizeBytes  int64                                           // 0 = no limit
	AllowedTypes  []string                                        // empty = any image/*
	AfterUpload   func(ctx context.Context, photoID string) error // optional; a failure rolls the upload back
}

// HandleUpload stores the uploaded photo, runs the after-upload hook and
// rolls the photo back when the hook fails.
func (h *Handler) HandleUpload(c *gin.Context, cfg UploadConfig) {
	fieldName := cfg.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	header, err := c.FormFile(fieldName)
	if err != nil {
		response.BadRequest(c, fieldName+" is required", err)
		return
	}
	if cfg.MaxSizeBytes > 0 && header.Size > cfg.MaxSizeBytes {
		response.Error(c, photo.ErrTooLarge)
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	p, err := h.photoService.Upload(c.Request.Context(), photo.UploadInput{
		ItemID:       cfg.ItemID,
		UploaderID:   auth.GetUserID(c),
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Content:      src,
		MaxSizeBytes: cfg.MaxSizeBytes,
		AllowedTypes: cfg.AllowedTypes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if cfg.AfterUpload != nil {
		if err := cfg.AfterUpload(c.Request.Context(), p.ID); err != nil {
			_ = h.photoService.Delete(c.Request.Context(), p.ID)
			response.Error(c, err)
			return
		}
	}

	var thumbURL *string
	if p.ThumbnailPath != nil {
		t := photo.ThumbnailURL(p.ID)
		thumbURL = &t
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Message:      "photo uploaded successfully",
		PhotoID:      p.ID,
		URL:          photo.URL(p.ID),
		ThumbnailURL: thumbURL,
	})
}
