package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrNotOwner            = apperror.NotFound("only the owner may modify the item")
	ErrOwnerNotFound       = apperror.NotFound("owner not found")
	ErrRequestNotFound     = apperror.NotFound("item request not found")
	ErrEmptyName           = apperror.Validation("name cannot be empty")
	ErrEmptyDescription    = apperror.Validation("description cannot be empty")
	ErrAvailabilityMissing = apperror.Validation("available must be set")
	ErrHasBookings         = apperror.Conflict("item has bookings and cannot be deleted")
)

// Item is a thing a user lends out.
type Item struct {
	ID          string
	OwnerID     string
	OwnerName   string
	Name        string
	Description string
	Available   bool
	RequestID   *string
	PhotoID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter selects items by owner or by search text. Exactly one of OwnerID,
// Text or RequestIDs is expected to be set.
type Filter struct {
	OwnerID    string
	Text       string
	RequestIDs []string
	Offset     int
	Limit      int
}
