package translator

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResult        = errors.New("empty translation")
	ErrMissingCredentials = errors.New("missing OpenAPI credentials")
)

// APIError is a business error reported by the OpenAPI backend in its
// errorCode field.
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openapi error: %s", e.Code)
}
