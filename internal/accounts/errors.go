package accounts

import "errors"

var (
	ErrNotFound           = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	// ErrHookFailed marks an account that was created but whose follow-up hooks failed.
	ErrHookFailed = errors.New("account hook failed")
)
