package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Repository mirroring the SQL semantics.
type memStore struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	seq      int
	creates  int
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]*Booking{}}
}

func (m *memStore) put(b *Booking) *Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if b.ID == "" {
		b.ID = fmt.Sprintf("b%03d", m.seq)
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return b
}

func (m *memStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	m.creates++
	m.mu.Unlock()
	m.put(b)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) List(_ context.Context, f Filter) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if f.BookerID != "" && b.BookerID != f.BookerID {
			continue
		}
		if f.OwnerID != "" && b.ItemOwnerID != f.OwnerID {
			continue
		}
		if !Matches(b, f.State, f.Now) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.After(out[j].Start)
		}
		return out[i].ID > out[j].ID
	})

	total := len(out)
	if f.Page.Limit > 0 {
		lo := min(f.Page.Offset, total)
		hi := min(lo+f.Page.Limit, total)
		out = out[lo:hi]
	}
	return out, total, nil
}

func (m *memStore) Decide(_ context.Context, id string, status Status, rejectOverlap bool) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !b.Status.CanTransitionTo(status) {
		return nil, ErrAlreadyDecided
	}
	if rejectOverlap && status == StatusApproved {
		for _, other := range m.bookings {
			if other.ID != id && other.ItemID == b.ItemID && other.Status == StatusApproved && other.Overlaps(b.Start, b.End) {
				return nil, ErrTimeConflict
			}
		}
	}
	b.Status = status
	cp := *b
	return &cp, nil
}

func (m *memStore) LastApproved(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *Booking
	for _, b := range m.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.After(best.Start) || (b.Start.Equal(best.Start) && b.ID > best.ID) {
			best = b
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memStore) NextApproved(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *Booking
	for _, b := range m.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.Before(best.Start) || (b.Start.Equal(best.Start) && b.ID < best.ID) {
			best = b
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memStore) HasCompleted(_ context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID && b.Status == StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}
