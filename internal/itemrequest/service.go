package itemrequest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemLister finds the items answering a set of requests.
type ItemLister interface {
	ListByRequests(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, actorID, id string) (*ItemRequest, error)
	ListOwn(ctx context.Context, actorID string) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, actorID string, offset, limit int) ([]*ItemRequest, int, error)
}

type service struct {
	repo  Repository
	users UserLookup
	items ItemLister
	log   *slog.Logger
}

func NewService(repo Repository, users UserLookup, items ItemLister, log *slog.Logger) Service {
	return &service{repo: repo, users: users, items: items, log: log}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.ensureUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{RequesterID: requesterID, Description: description, Items: []*item.Item{}}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item request created", slog.String("request_id", req.ID))
	return req, nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (*ItemRequest, error) {
	if err := s.ensureUser(ctx, actorID); err != nil {
		return nil, err
	}
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, actorID string) ([]*ItemRequest, error) {
	if err := s.ensureUser(ctx, actorID); err != nil {
		return nil, err
	}
	reqs, _, err := s.repo.List(ctx, Filter{RequesterID: actorID})
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *service) ListOthers(ctx context.Context, actorID string, offset, limit int) ([]*ItemRequest, int, error) {
	if err := s.ensureUser(ctx, actorID); err != nil {
		return nil, 0, err
	}
	reqs, total, err := s.repo.List(ctx, Filter{ExcludeRequesterID: actorID, Offset: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// attachItems loads answering items for all requests in one query.
func (s *service) attachItems(ctx context.Context, reqs []*ItemRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]string, len(reqs))
	byID := make(map[string]*ItemRequest, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
		byID[r.ID] = r
		r.Items = []*item.Item{}
	}

	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.RequestID == nil {
			continue
		}
		if r, ok := byID[*it.RequestID]; ok {
			r.Items = append(r.Items, it)
		}
	}
	return nil
}

func (s *service) ensureUser(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
