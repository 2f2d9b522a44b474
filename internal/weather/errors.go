package weather

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. Provider clients classify every
// transport failure into one of these kinds so callers never inspect raw
// net/http errors.
var (
	// ErrMissingCredential is returned before any network call when the
	// provider's API key is not configured.
	ErrMissingCredential = errors.New("missing provider API key")

	// ErrTimeout is a request that exceeded the configured timeout.
	ErrTimeout = errors.New("provider request timed out")

	// ErrNetwork is any non-timeout transport failure (DNS, refused
	// connection, broken body).
	ErrNetwork = errors.New("network error while calling provider")

	// ErrMalformedPayload is a response body missing the expected structure.
	ErrMalformedPayload = errors.New("malformed provider payload")

	// ErrInvalidCity is a city name that fails validation; no upstream is
	// contacted.
	ErrInvalidCity = errors.New("city name is invalid")

	// ErrForecastUnavailable is raised after the forecast retry budget is
	// exhausted on repeated timeouts.
	ErrForecastUnavailable = errors.New("forecast request timed out after retries")
)

// UpstreamError carries a non-success response from a provider, preserving
// the provider's own message verbatim.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error (status %d)", e.Provider, e.Status)
}

// StorageError wraps a failure from the persistence layer. Storage failures
// are always surfaced to the caller; nothing is silently dropped.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
