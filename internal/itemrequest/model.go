package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("item request not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrEmptyDescription = apperror.Validation("description cannot be empty")
)

// ItemRequest is a user's call for an item nobody lists yet. Items created
// in answer to it reference it.
type ItemRequest struct {
	ID          string
	RequesterID string
	Description string
	CreatedAt   time.Time
	Items       []*item.Item
}

type Filter struct {
	RequesterID        string
	ExcludeRequesterID string
	Offset             int
	Limit              int
}
