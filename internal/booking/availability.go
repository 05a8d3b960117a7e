package booking

import (
	"context"
	"time"
)

// AvailabilityView derives item annotations from approved bookings. It
// returns raw data; hiding it from non-owners is up to the caller.
type AvailabilityView interface {
	LastBooking(ctx context.Context, itemID string) (*Booking, error)
	NextBooking(ctx context.Context, itemID string) (*Booking, error)
	HasCompletedRental(ctx context.Context, userID, itemID string) (bool, error)
}

type availabilityView struct {
	repo Repository
	now  func() time.Time
}

func NewAvailabilityView(repo Repository, now func() time.Time) AvailabilityView {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &availabilityView{repo: repo, now: now}
}

// LastBooking returns the approved booking that started most recently, or
// nil when there is none.
func (v *availabilityView) LastBooking(ctx context.Context, itemID string) (*Booking, error) {
	return v.repo.LastApproved(ctx, itemID, v.now())
}

// NextBooking returns the approved booking that starts soonest, or nil.
func (v *availabilityView) NextBooking(ctx context.Context, itemID string) (*Booking, error) {
	return v.repo.NextApproved(ctx, itemID, v.now())
}

func (v *availabilityView) HasCompletedRental(ctx context.Context, userID, itemID string) (bool, error) {
	return v.repo.HasCompleted(ctx, userID, itemID, v.now())
}
