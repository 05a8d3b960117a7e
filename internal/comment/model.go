package comment

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrEmptyText      = apperror.Validation("comment text cannot be empty")
	ErrItemNotFound   = apperror.NotFound("item not found")
	ErrAuthorNotFound = apperror.NotFound("user not found")
	ErrNotEligible    = apperror.Validation("only users who completed a rental of the item may comment")
)

type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
