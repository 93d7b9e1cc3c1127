package models

import "fmt"

// ValidationError reports a rejected input field. Handlers map it to a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Code returns the stable error code for API responses.
func (e *ValidationError) Code() string {
	return "VALIDATION_ERROR"
}
