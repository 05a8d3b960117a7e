package item

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// OwnerDirectory resolves item owners.
type OwnerDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// PhotoStore drops photos an item no longer shows.
type PhotoStore interface {
	Delete(ctx context.Context, id string) error
	ListByItem(ctx context.Context, itemID string) ([]*photo.Photo, error)
	RemoveFiles(ctx context.Context, photos ...*photo.Photo)
}

type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Item, int, error)
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, int, error)
	ListByRequests(ctx context.Context, requestIDs []string) ([]*Item, error)
	Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Item, error)
	AttachPhoto(ctx context.Context, actorID, id, photoID string) (*Item, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	repo   Repository
	owners OwnerDirectory
	photos PhotoStore
	log    *slog.Logger
}

func NewService(repo Repository, owners OwnerDirectory, photos PhotoStore, log *slog.Logger) Service {
	return &service{
		repo:   repo,
		owners: owners,
		photos: photos,
		log:    log,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, ErrEmptyDescription
	}
	if req.Available == nil {
		return nil, ErrAvailabilityMissing
	}

	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	it := &Item{
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		Name:        name,
		Description: desc,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item created", slog.String("item_id", it.ID), slog.String("owner_id", it.OwnerID))
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Item, int, error) {
	return s.repo.List(ctx, Filter{OwnerID: ownerID, Offset: offset, Limit: limit})
}

// Search matches available items whose name or description contains text,
// ignoring case. Blank text matches nothing.
func (s *service) Search(ctx context.Context, text string, offset, limit int) ([]*Item, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, 0, nil
	}
	return s.repo.List(ctx, Filter{Text: text, Offset: offset, Limit: limit})
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []string) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return []*Item{}, nil
	}
	items, _, err := s.repo.List(ctx, Filter{RequestIDs: requestIDs})
	return items, err
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Item, error) {
	it, err := s.ownedItem(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		it.Name = name
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = desc
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) AttachPhoto(ctx context.Context, actorID, id, photoID string) (*Item, error) {
	it, err := s.ownedItem(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	replaced := it.PhotoID
	it.PhotoID = &photoID
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	if replaced != nil && *replaced != photoID {
		if err := s.photos.Delete(ctx, *replaced); err != nil && !errors.Is(err, photo.ErrNotFound) {
			s.log.WarnContext(ctx, "failed to delete replaced photo",
				slog.String("item_id", id), slog.String("photo_id", *replaced), slog.Any("error", err))
		}
	}
	return it, nil
}

// Delete removes the item. Its photo rows cascade with it, so their files
// are listed first and removed once the delete has committed.
func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.ownedItem(ctx, actorID, id); err != nil {
		return err
	}

	photos, err := s.photos.ListByItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.photos.RemoveFiles(ctx, photos...)

	s.log.InfoContext(ctx, "item deleted", slog.String("item_id", id), slog.Int("photos", len(photos)))
	return nil
}

func (s *service) ownedItem(ctx context.Context, actorID, id string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return it, nil
}
