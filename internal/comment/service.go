package comment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// RentalChecker answers whether a user finished an approved rental of an item.
type RentalChecker interface {
	HasCompletedRental(ctx context.Context, userID, itemID string) (bool, error)
}

type ItemLookup interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service interface {
	Add(ctx context.Context, authorID, itemID, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID string) ([]*Comment, error)
}

type service struct {
	repo    Repository
	items   ItemLookup
	users   UserLookup
	rentals RentalChecker
	log     *slog.Logger
}

func NewService(repo Repository, items ItemLookup, users UserLookup, rentals RentalChecker, log *slog.Logger) Service {
	return &service{
		repo:    repo,
		items:   items,
		users:   users,
		rentals: rentals,
		log:     log,
	}
}

func (s *service) Add(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	ok, err := s.rentals.HasCompletedRental(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotEligible
	}

	c := &Comment{
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "comment added", slog.String("comment_id", c.ID), slog.String("item_id", itemID))
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	return s.repo.ListByItem(ctx, itemID)
}
