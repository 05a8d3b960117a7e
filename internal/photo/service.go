package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

const (
	thumbnailWidth  = 200
	thumbnailHeight = 200
)

// UploadInput describes one photo upload.
type UploadInput struct {
	ItemID       string
	UploaderID   string
	Filename     string
	ContentType  string
	Content      io.Reader
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = any image/*
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Photo, error)
	Delete(ctx context.Context, id string) error
	ListByItem(ctx context.Context, itemID string) ([]*Photo, error)
	// RemoveFiles deletes the stored blobs of photos whose rows are already gone.
	RemoveFiles(ctx context.Context, photos ...*Photo)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	log     *slog.Logger
}

func NewService(repo Repository, store storage.Storage, log *slog.Logger) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		log:     log,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedFormat
	}
	if len(in.AllowedTypes) > 0 && !slices.Contains(in.AllowedTypes, contentType) {
		return nil, ErrUnsupportedFormat
	}

	reader := in.Content
	if in.MaxSizeBytes > 0 {
		// One extra byte tells an exact-limit file from an oversized one.
		reader = io.LimitReader(in.Content, in.MaxSizeBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo content: %w", err)
	}
	if in.MaxSizeBytes > 0 && int64(len(content)) > in.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	photoID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(in.Filename))

	// Sharding path: photos/ab/UUID.ext
	shard := photoID[:2]
	storagePath := fmt.Sprintf("photos/%s/%s%s", shard, photoID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save photo to storage: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content), thumbnailWidth, thumbnailHeight, storage.Fill)
	if err != nil {
		s.log.WarnContext(ctx, "thumbnail generation failed", slog.String("photo_id", photoID), slog.Any("error", err))
	} else {
		tPath := fmt.Sprintf("photos/%s/%s_thumb.jpg", shard, photoID)
		if err := s.storage.Save(ctx, tPath, thumb); err != nil {
			s.log.WarnContext(ctx, "thumbnail save failed", slog.String("photo_id", photoID), slog.Any("error", err))
		} else {
			thumbnailPath = &tPath
		}
	}

	p := &Photo{
		ID:            photoID,
		ItemID:        in.ItemID,
		UploaderID:    in.UploaderID,
		Filename:      filepath.Base(in.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// Cleanup storage if db fails
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.RemoveFiles(ctx, p)
	return nil
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Photo, error) {
	return s.repo.ListByItem(ctx, itemID)
}

func (s *service) RemoveFiles(ctx context.Context, photos ...*Photo) {
	for _, p := range photos {
		paths := []string{p.StoragePath}
		if p.ThumbnailPath != nil {
			paths = append(paths, *p.ThumbnailPath)
		}
		for _, path := range paths {
			if err := s.storage.Delete(ctx, path); err != nil {
				s.log.WarnContext(ctx, "failed to delete photo blob",
					slog.String("photo_id", p.ID), slog.String("path", path), slog.Any("error", err))
			}
		}
	}
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve photo from storage: %w", err)
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailMissing
	}

	stream, err := s.storage.Get(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, p, nil
}
