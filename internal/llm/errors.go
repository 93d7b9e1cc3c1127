package llm

import (
	"errors"
	"fmt"
)

// UnknownModelError is returned when a forced model id does not resolve
// against the active provider's catalogue.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model: %s", e.Model)
}

// Code returns the stable error code for API responses.
func (e *UnknownModelError) Code() string { return "UNKNOWN_MODEL" }

// NoModelsAvailableError is returned when filtering and breaker admission
// leave no candidate to try.
type NoModelsAvailableError struct{}

func (e *NoModelsAvailableError) Error() string {
	return "no models available after filtering and circuit breaker checks"
}

// Code returns the stable error code for API responses.
func (e *NoModelsAvailableError) Code() string { return "NO_MODELS_AVAILABLE" }

// AllModelsFailedError is returned when every candidate was tried and failed.
type AllModelsFailedError struct {
	Attempted int
	LastErr   error
}

func (e *AllModelsFailedError) Error() string {
	return fmt.Sprintf("all %d candidate models failed, last error: %v", e.Attempted, e.LastErr)
}

func (e *AllModelsFailedError) Unwrap() error { return e.LastErr }

// Code returns the stable error code for API responses.
func (e *AllModelsFailedError) Code() string { return "ALL_MODELS_FAILED" }

// ProviderError is a non-2xx HTTP response from a provider.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

// Code returns the stable error code for API responses.
func (e *ProviderError) Code() string { return "PROVIDER_ERROR" }

// TimeoutError is a request that hit the completion deadline or was
// cancelled mid-flight.
type TimeoutError struct {
	Provider string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s request timed out: %v", e.Provider, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Code returns the stable error code for API responses.
func (e *TimeoutError) Code() string { return "TIMEOUT" }

// TransportError is a network-level failure before an HTTP status was read.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code returns the stable error code for API responses.
func (e *TransportError) Code() string { return "TRANSPORT_ERROR" }

// IsRetryable reports whether err is a transient provider failure worth
// retrying: provider HTTP errors, timeouts and transport failures all
// qualify.
func IsRetryable(err error) bool {
	var provErr *ProviderError
	var timeoutErr *TimeoutError
	var transportErr *TransportError
	return errors.As(err, &provErr) || errors.As(err, &timeoutErr) || errors.As(err, &transportErr)
}
