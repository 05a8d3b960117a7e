package auth

import "github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"

var (
	ErrMissingToken     = apperror.Unauthorized("missing bearer token")
	ErrMalformedHeader  = apperror.Unauthorized("invalid Authorization header format")
	ErrTokenInvalid     = apperror.Unauthorized("invalid token")
	ErrTokenExpired     = apperror.Unauthorized("token expired")
	ErrPasswordTooLong  = apperror.Validation("password must be at most 72 bytes")
	ErrPasswordMismatch = apperror.Unauthorized("password does not match")
)
