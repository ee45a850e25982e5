package reports

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("report not found")
	ErrForbidden     = errors.New("forbidden")
	ErrBadState      = errors.New("invalid state")
	ErrAuthRequired  = errors.New("sign in required")
	ErrBusy          = errors.New("operation already in progress")
	ErrNoCoordinates = errors.New("no coordinates available")
)
