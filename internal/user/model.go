package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrEmailRequired      = apperror.Validation("email is required")
	ErrNameRequired       = apperror.Validation("name is required")
	ErrPasswordTooShort   = apperror.Validation("password is too short")
	ErrNotSelf            = apperror.Forbidden("users may only modify their own profile")
	ErrHasDependents      = apperror.Conflict("user still owns items, requests or bookings")
)

// User represents a user in the system.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// UserFilter defines paging for listing users.
type UserFilter struct {
	Offset int
	Limit  int
}
