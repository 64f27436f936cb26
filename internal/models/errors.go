package models

import "errors"

// ErrValidation is the class of errors caused by bad client input.
// Domain-specific validation errors wrap it so callers can test with errors.Is.
var ErrValidation = errors.New("validation failed")
