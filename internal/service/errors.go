package service

import "errors"

// Failure taxonomy shared by all services. Handlers pick status codes
// with errors.Is; details are wrapped around these with fmt.Errorf.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
)
