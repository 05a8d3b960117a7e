package booking

import "time"

// Matches reports whether b belongs to the view selected by state at now.
// The repository expresses the same predicates in SQL.
func Matches(b *Booking, state State, now time.Time) bool {
	switch state {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now) && b.Status == StatusApproved
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}
