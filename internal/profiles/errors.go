package profiles

import "errors"

var (
	ErrNotFound       = errors.New("profile not found")
	ErrEmailTaken     = errors.New("email already used by another profile")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownCollege = errors.New("college not found")
	// ErrNoAccount means the owning account no longer exists.
	ErrNoAccount = errors.New("owning account not found")
)
