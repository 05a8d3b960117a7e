package itemrequest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type memRepo struct {
	reqs []*ItemRequest
	base time.Time
}

func (r *memRepo) Create(_ context.Context, req *ItemRequest) error {
	req.ID = fmt.Sprintf("r%d", len(r.reqs)+1)
	req.CreatedAt = r.base.Add(time.Duration(len(r.reqs)) * time.Minute)
	cp := *req
	r.reqs = append(r.reqs, &cp)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*ItemRequest, error) {
	for _, req := range r.reqs {
		if req.ID == id {
			cp := *req
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*ItemRequest, int, error) {
	var out []*ItemRequest
	if f.RequesterID != "" {
		for _, req := range r.reqs {
			if req.RequesterID == f.RequesterID {
				cp := *req
				out = append(out, &cp)
			}
		}
		return out, len(out), nil
	}
	for i := len(r.reqs) - 1; i >= 0; i-- {
		if r.reqs[i].RequesterID != f.ExcludeRequesterID {
			cp := *r.reqs[i]
			out = append(out, &cp)
		}
	}
	total := len(out)
	lo := min(f.Offset, total)
	hi := min(lo+f.Limit, total)
	return out[lo:hi], total, nil
}

type users struct{}

func (users) GetByID(_ context.Context, id string) (*user.User, error) {
	if id == "ghost" {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id}, nil
}

type answers []*item.Item

func (a answers) ListByRequests(_ context.Context, ids []string) ([]*item.Item, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*item.Item
	for _, it := range a {
		if it.RequestID != nil && want[*it.RequestID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func TestItemRequests(t *testing.T) {
	r1 := "r1"
	repo := &memRepo{base: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	items := answers{{ID: "tent", Name: "Tent", RequestID: &r1}}
	svc := NewService(repo, users{}, items, logger.Discard())
	ctx := context.Background()

	_, err := svc.Create(ctx, "bob", "  ")
	assert.ErrorIs(t, err, ErrEmptyDescription)
	_, err = svc.Create(ctx, "ghost", "need a tent")
	assert.ErrorIs(t, err, ErrUserNotFound)

	first, err := svc.Create(ctx, "bob", "need a tent")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", "need a kayak")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "carol", "need a ladder")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, "carol", first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "tent", got.Items[0].ID)

	_, err = svc.GetByID(ctx, "carol", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	own, err := svc.ListOwn(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "need a tent", own[0].Description)
	assert.Empty(t, own[1].Items)

	others, total, err := svc.ListOthers(ctx, "carol", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "need a kayak", others[0].Description)

	others, total, err = svc.ListOthers(ctx, "carol", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, others, 1)
	assert.Equal(t, "need a tent", others[0].Description)
}
