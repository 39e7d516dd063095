package model

import "errors"

var (
	// Authentication
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Authorization
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")

	// Likes
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotLiked        = errors.New("not liked")

	// Records
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrEntryNotFound     = errors.New("radar entry not found")
	ErrEntryExists       = errors.New("radar entry already exists")
	ErrReferenceNotFound = errors.New("reference not found")

	// Storage. Wrapped around errors that are worth retrying.
	ErrStoreUnavailable = errors.New("store unavailable")
)
