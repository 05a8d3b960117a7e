package item

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type stubUsers struct {
	users map[string]*user.User
}

func (s stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// memPhotos keeps photo rows per item and records which blobs were removed.
type memPhotos struct {
	rows    map[string]*photo.Photo
	removed []string
}

func newMemPhotos() *memPhotos { return &memPhotos{rows: map[string]*photo.Photo{}} }

func (m *memPhotos) add(id, itemID string) {
	m.rows[id] = &photo.Photo{ID: id, ItemID: itemID, StoragePath: "photos/" + id + ".png"}
}

func (m *memPhotos) Delete(_ context.Context, id string) error {
	p, ok := m.rows[id]
	if !ok {
		return photo.ErrNotFound
	}
	delete(m.rows, id)
	m.removed = append(m.removed, p.StoragePath)
	return nil
}

func (m *memPhotos) ListByItem(_ context.Context, itemID string) ([]*photo.Photo, error) {
	var out []*photo.Photo
	for _, p := range m.rows {
		if p.ItemID == itemID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPhotos) RemoveFiles(_ context.Context, photos ...*photo.Photo) {
	for _, p := range photos {
		m.removed = append(m.removed, p.StoragePath)
	}
}

type memRepo struct {
	items     []*Item
	seq       int
	deleteErr error
}

func (r *memRepo) Create(_ context.Context, it *Item) error {
	r.seq++
	it.ID = fmt.Sprintf("i%d", r.seq)
	cp := *it
	r.items = append(r.items, &cp)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Item, int, error) {
	var out []*Item
	for _, it := range r.items {
		switch {
		case f.OwnerID != "":
			if it.OwnerID != f.OwnerID {
				continue
			}
		case len(f.RequestIDs) > 0:
			if it.RequestID == nil || *it.RequestID != f.RequestIDs[0] {
				continue
			}
		default:
			text := strings.ToLower(f.Text)
			if !it.Available || !(strings.Contains(strings.ToLower(it.Name), text) ||
				strings.Contains(strings.ToLower(it.Description), text)) {
				continue
			}
		}
		out = append(out, it)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, it *Item) error {
	for i, existing := range r.items {
		if existing.ID == it.ID {
			cp := *it
			r.items[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService() (Service, *memRepo) {
	svc, repo, _ := newTestServiceWithPhotos()
	return svc, repo
}

func newTestServiceWithPhotos() (Service, *memRepo, *memPhotos) {
	repo := &memRepo{}
	users := stubUsers{users: map[string]*user.User{
		"alice": {ID: "alice", Name: "Alice"},
		"bob":   {ID: "bob", Name: "Bob"},
	}}
	photos := newMemPhotos()
	return NewService(repo, users, photos, logger.Discard()), repo, photos
}

func ptr[T any](v T) *T { return &v }

func TestCreateItem(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	it, err := svc.Create(ctx, "alice", CreateRequest{Name: " Drill ", Description: "Cordless", Available: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Drill", it.Name)
	assert.Equal(t, "Alice", it.OwnerName)
	assert.True(t, it.Available)

	_, err = svc.Create(ctx, "alice", CreateRequest{Name: "", Description: "x", Available: ptr(true)})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Create(ctx, "alice", CreateRequest{Name: "x", Description: " ", Available: ptr(true)})
	assert.ErrorIs(t, err, ErrEmptyDescription)

	_, err = svc.Create(ctx, "alice", CreateRequest{Name: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrAvailabilityMissing)

	_, err = svc.Create(ctx, "ghost", CreateRequest{Name: "x", Description: "y", Available: ptr(true)})
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	it, err := svc.Create(ctx, "alice", CreateRequest{Name: "Drill", Description: "Cordless", Available: ptr(true)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "bob", it.ID, UpdateRequest{Name: ptr("Hammer")})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(ctx, "alice", it.ID, UpdateRequest{Available: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill", updated.Name)

	_, err = svc.Update(ctx, "alice", it.ID, UpdateRequest{Description: ptr("")})
	assert.ErrorIs(t, err, ErrEmptyDescription)

	assert.ErrorIs(t, svc.Delete(ctx, "bob", it.ID), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, "alice", it.ID))
	_, err = svc.GetByID(ctx, it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", CreateRequest{Name: "Power Drill", Description: "cordless", Available: ptr(true)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "alice", CreateRequest{Name: "Ladder", Description: "aluminium, reaches the roof", Available: ptr(true)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", CreateRequest{Name: "Old drill", Description: "broken", Available: ptr(false)})
	require.NoError(t, err)

	found, total, err := svc.Search(ctx, "DRILL", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "Power Drill", found[0].Name)

	found, _, err = svc.Search(ctx, "roof", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ladder", found[0].Name)

	found, total, err = svc.Search(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Zero(t, total)
}

func TestAttachPhoto(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	it, err := svc.Create(ctx, "alice", CreateRequest{Name: "Tent", Description: "2 person", Available: ptr(true)})
	require.NoError(t, err)

	_, err = svc.AttachPhoto(ctx, "bob", it.ID, "p1")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.AttachPhoto(ctx, "alice", it.ID, "p1")
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoID)
	assert.Equal(t, "p1", *updated.PhotoID)
}

func TestAttachPhotoDropsReplacedPhoto(t *testing.T) {
	svc, _, photos := newTestServiceWithPhotos()
	ctx := context.Background()

	it, err := svc.Create(ctx, "alice", CreateRequest{Name: "Tent", Description: "2 person", Available: ptr(true)})
	require.NoError(t, err)
	photos.add("p1", it.ID)
	photos.add("p2", it.ID)

	_, err = svc.AttachPhoto(ctx, "alice", it.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, photos.removed)

	// Re-attaching the same photo keeps it.
	_, err = svc.AttachPhoto(ctx, "alice", it.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, photos.removed)

	updated, err := svc.AttachPhoto(ctx, "alice", it.ID, "p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", *updated.PhotoID)
	assert.Equal(t, []string{"photos/p1.png"}, photos.removed)
	assert.NotContains(t, photos.rows, "p1")
	assert.Contains(t, photos.rows, "p2")
}

func TestDeleteItemRemovesPhotoFiles(t *testing.T) {
	svc, repo, photos := newTestServiceWithPhotos()
	ctx := context.Background()

	it, err := svc.Create(ctx, "alice", CreateRequest{Name: "Tent", Description: "2 person", Available: ptr(true)})
	require.NoError(t, err)
	photos.add("p1", it.ID)
	_, err = svc.AttachPhoto(ctx, "alice", it.ID, "p1")
	require.NoError(t, err)

	// A refused delete keeps the files.
	repo.deleteErr = ErrHasBookings
	assert.ErrorIs(t, svc.Delete(ctx, "alice", it.ID), ErrHasBookings)
	assert.Empty(t, photos.removed)

	repo.deleteErr = nil
	require.NoError(t, svc.Delete(ctx, "alice", it.ID))
	assert.Equal(t, []string{"photos/p1.png"}, photos.removed)
}
