package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrItemNotFound     = apperror.NotFound("item not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrItemUnavailable  = apperror.Conflict("item unavailable")
	ErrAlreadyDecided   = apperror.Conflict("booking already decided")
	ErrTimeConflict     = apperror.Conflict("item already booked for an overlapping period")
	ErrInvalidTimeRange = apperror.Validation("start must be before end")
	ErrStartInPast      = apperror.Validation("start must not be in the past")

	// Authorization failures come in two flavours; Policy.ExposeForbidden
	// picks which one callers see.
	ErrOwnItem                 = apperror.NotFound("owner cannot book own item")
	ErrOwnItemForbidden        = apperror.Forbidden("owner cannot book own item")
	ErrOwnerOnly               = apperror.NotFound("only the item owner may decide")
	ErrOwnerOnlyForbidden      = apperror.Forbidden("only the item owner may decide")
	ErrNotParticipant          = apperror.NotFound("booking visible only to booker or owner")
	ErrNotParticipantForbidden = apperror.Forbidden("booking visible only to booker or owner")
)

// ErrUnknownState reports a state filter outside the known set.
func ErrUnknownState(raw string) error {
	return apperror.Validation(fmt.Sprintf("Unknown state: %s", raw))
}

// Status is the persisted lifecycle stage of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// CanTransitionTo reports whether a booking in s may move to next.
// Only WAITING bookings can be decided, and only into a terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusWaiting && (next == StatusApproved || next == StatusRejected)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// State selects bookings by status and by where now falls relative to
// their window.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState converts a query value into a State. An empty value means ALL.
func ParseState(raw string) (State, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StateAll, nil
	}
	for _, st := range states {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", ErrUnknownState(raw)
}

// Page is an offset window over an ordered result.
type Page struct {
	Offset int
	Limit  int
}

// PageAt converts a zero-based page index into an offset window.
func PageAt(index, size int) Page {
	return Page{Offset: index * size, Limit: size}
}

type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Start       time.Time
	End         time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether the half-open windows [Start, End) intersect.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// Filter scopes a listing to a booker or to an item owner. Exactly one of
// BookerID and OwnerID is set.
type Filter struct {
	BookerID string
	OwnerID  string
	State    State
	Now      time.Time
	Page     Page
}

// Policy holds the configurable booking rules.
type Policy struct {
	// ExposeForbidden answers authorization failures with 403 instead of
	// hiding the booking behind a 404.
	ExposeForbidden bool
	// RejectOverlappingApprovals refuses to approve a booking whose window
	// overlaps an already approved booking of the same item.
	RejectOverlappingApprovals bool
}

func (p Policy) ownItemErr() error {
	if p.ExposeForbidden {
		return ErrOwnItemForbidden
	}
	return ErrOwnItem
}

func (p Policy) ownerOnlyErr() error {
	if p.ExposeForbidden {
		return ErrOwnerOnlyForbidden
	}
	return ErrOwnerOnly
}

func (p Policy) notParticipantErr() error {
	if p.ExposeForbidden {
		return ErrNotParticipantForbidden
	}
	return ErrNotParticipant
}
