package services

import "errors"

// Error taxonomy shared by the engagement services. Handlers map these onto
// HTTP statuses with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedMedia  = errors.New("unsupported media kind")
	ErrOversizedMedia    = errors.New("media exceeds size limit")
	ErrProcessingTimeout = errors.New("media processing timed out")
)
