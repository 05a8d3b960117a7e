package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type fakeItems map[string]*item.Item

func (f fakeItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := f[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) BookingTransition(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[status]++
}

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     Service
	store   *memStore
	metrics *countingRecorder
}

func newFixture(policy Policy) fixture {
	store := newMemStore()
	items := fakeItems{
		"drill": {ID: "drill", Name: "Drill", OwnerID: "alice", Available: true},
		"tent":  {ID: "tent", Name: "Tent", OwnerID: "alice", Available: false},
	}
	users := fakeUsers{
		"alice": {ID: "alice", Name: "Alice"},
		"bob":   {ID: "bob", Name: "Bob"},
		"carol": {ID: "carol", Name: "Carol"},
	}
	rec := &countingRecorder{}
	svc := NewService(store, items, users, policy, logger.Discard(),
		WithClock(func() time.Time { return testNow }),
		WithMetrics(rec),
	)
	return fixture{svc: svc, store: store, metrics: rec}
}

func TestCreateAndDecideScenario(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateRequest{
		BookerID: "bob",
		ItemID:   "drill",
		Start:    testNow.Add(5 * time.Minute),
		End:      testNow.Add(10 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, "Bob", b.BookerName)
	assert.NotEmpty(t, b.ID)

	approved, err := f.svc.UpdateStatus(ctx, "alice", b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = f.svc.UpdateStatus(ctx, "alice", b.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	stored, err := f.store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	assert.Equal(t, 1, f.metrics.counts[string(StatusApproved)])
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()
	start := testNow.Add(time.Hour)

	tests := []struct {
		name string
		req  CreateRequest
		err  error
	}{
		{"end equals start", CreateRequest{BookerID: "bob", ItemID: "drill", Start: start, End: start}, ErrInvalidTimeRange},
		{"end before start", CreateRequest{BookerID: "bob", ItemID: "drill", Start: start, End: start.Add(-time.Minute)}, ErrInvalidTimeRange},
		{"unknown item", CreateRequest{BookerID: "bob", ItemID: "nope", Start: start, End: start.Add(time.Hour)}, ErrItemNotFound},
		{"unavailable item", CreateRequest{BookerID: "bob", ItemID: "tent", Start: start, End: start.Add(time.Hour)}, ErrItemUnavailable},
		{"unknown booker", CreateRequest{BookerID: "ghost", ItemID: "drill", Start: start, End: start.Add(time.Hour)}, ErrUserNotFound},
		{"own item", CreateRequest{BookerID: "alice", ItemID: "drill", Start: start, End: start.Add(time.Hour)}, ErrOwnItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Zero(t, f.store.creates)
}

func TestOwnItemForbiddenPolicy(t *testing.T) {
	f := newFixture(Policy{ExposeForbidden: true})
	start := testNow.Add(time.Hour)

	_, err := f.svc.Create(context.Background(), CreateRequest{BookerID: "alice", ItemID: "drill", Start: start, End: start.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrOwnItemForbidden)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		policy Policy
		want   error
	}{
		{Policy{}, ErrOwnerOnly},
		{Policy{ExposeForbidden: true}, ErrOwnerOnlyForbidden},
	} {
		f := newFixture(tt.policy)
		b, err := f.svc.Create(ctx, CreateRequest{BookerID: "bob", ItemID: "drill", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(ctx, "bob", b.ID, true)
		assert.ErrorIs(t, err, tt.want)

		stored, err := f.store.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, stored.Status)
	}

	f := newFixture(Policy{})
	_, err := f.svc.UpdateStatus(ctx, "alice", "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectIsTerminal(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateRequest{BookerID: "bob", ItemID: "drill", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)})
	require.NoError(t, err)

	rejected, err := f.svc.UpdateStatus(ctx, "alice", b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	_, err = f.svc.UpdateStatus(ctx, "alice", b.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestConcurrentDecisionsHaveOneWinner(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateRequest{BookerID: "bob", ItemID: "drill", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.UpdateStatus(ctx, "alice", b.ID, i%2 == 0)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	}
	assert.Equal(t, 1, wins)
}

func TestOverlappingApprovals(t *testing.T) {
	ctx := context.Background()

	run := func(policy Policy) error {
		f := newFixture(policy)
		first, err := f.svc.Create(ctx, CreateRequest{BookerID: "bob", ItemID: "drill", Start: testNow.Add(time.Hour), End: testNow.Add(3 * time.Hour)})
		require.NoError(t, err)
		second, err := f.svc.Create(ctx, CreateRequest{BookerID: "carol", ItemID: "drill", Start: testNow.Add(2 * time.Hour), End: testNow.Add(4 * time.Hour)})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(ctx, "alice", first.ID, true)
		require.NoError(t, err)
		_, err = f.svc.UpdateStatus(ctx, "alice", second.ID, true)
		return err
	}

	assert.ErrorIs(t, run(Policy{RejectOverlappingApprovals: true}), ErrTimeConflict)
	assert.NoError(t, run(Policy{RejectOverlappingApprovals: false}))
}

func TestGetByIDVisibility(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, CreateRequest{BookerID: "bob", ItemID: "drill", Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)})
	require.NoError(t, err)

	for _, actor := range []string{"alice", "bob"} {
		got, err := f.svc.GetByID(ctx, actor, b.ID)
		require.NoError(t, err, actor)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err = f.svc.GetByID(ctx, "carol", b.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.GetByID(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func seed(store *memStore, id, booker string, start, end time.Time, status Status) {
	store.put(&Booking{
		ID:          id,
		ItemID:      "drill",
		ItemOwnerID: "alice",
		BookerID:    booker,
		Start:       start,
		End:         end,
		Status:      status,
	})
}

func ids(bookings []*Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func TestListByState(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()
	h := time.Hour

	seed(f.store, "past", "bob", testNow.Add(-5*h), testNow.Add(-4*h), StatusApproved)
	seed(f.store, "past-rejected", "bob", testNow.Add(-3*h), testNow.Add(-2*h), StatusRejected)
	seed(f.store, "current", "bob", testNow.Add(-h), testNow.Add(h), StatusApproved)
	seed(f.store, "future-waiting", "bob", testNow.Add(2*h), testNow.Add(3*h), StatusWaiting)
	seed(f.store, "future-approved", "bob", testNow.Add(4*h), testNow.Add(5*h), StatusApproved)
	seed(f.store, "carols", "carol", testNow.Add(6*h), testNow.Add(7*h), StatusWaiting)

	page := Page{Offset: 0, Limit: 20}
	tests := []struct {
		state State
		want  []string
	}{
		{StateAll, []string{"future-approved", "future-waiting", "current", "past-rejected", "past"}},
		{StateCurrent, []string{"current"}},
		{StatePast, []string{"past"}},
		{StateFuture, []string{"future-approved", "future-waiting"}},
		{StateWaiting, []string{"future-waiting"}},
		{StateRejected, []string{"past-rejected"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			got, total, err := f.svc.ListByBooker(ctx, "bob", tt.state, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, len(tt.want), total)
		})
	}

	owned, total, err := f.svc.ListByOwner(ctx, "alice", StateAll, page)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Equal(t, "carols", owned[0].ID)

	none, total, err := f.svc.ListByOwner(ctx, "bob", StateAll, page)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Zero(t, total)

	_, _, err = f.svc.ListByBooker(ctx, "ghost", StateAll, page)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListPagination(t *testing.T) {
	f := newFixture(Policy{})
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		start := testNow.Add(time.Duration(i+1) * time.Hour)
		seed(f.store, string(rune('a'+i)), "bob", start, start.Add(30*time.Minute), StatusWaiting)
	}

	// An offset that is not a multiple of the size still skips exactly that many.
	got, total, err := f.svc.ListByBooker(ctx, "bob", StateAll, Page{Offset: 5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, []string{"b", "a"}, ids(got))

	got, _, err = f.svc.ListByBooker(ctx, "bob", StateAll, PageAt(1, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, ids(got))
}
