package resumes

import "errors"

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file too large")
	// ErrReadBack means the resume was saved but its bytes could not be read again.
	ErrReadBack = errors.New("could not read stored resume")
	// ErrPresignUnsupported is returned when the object store cannot issue upload URLs.
	ErrPresignUnsupported = errors.New("direct uploads not supported by object store")
	ErrForeignKey         = errors.New("storage key does not belong to caller")
)
