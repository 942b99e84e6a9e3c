package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCity signals a blank city string; the pipeline is never entered.
	ErrEmptyCity = errors.New("empty city")
	// ErrCityNotFound signals that geocoding returned zero matches.
	ErrCityNotFound = errors.New("city not found")
	// ErrUpstream signals a transport-level failure talking to an upstream service.
	ErrUpstream = errors.New("upstream service error")
)

// ExhaustedRetriesError wraps the last underlying error after every fetch
// attempt has failed.
type ExhaustedRetriesError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("exhausted %d fetch attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error { return e.Err }

// NewExhaustedRetries creates an ExhaustedRetriesError.
func NewExhaustedRetries(attempts int, err error) error {
	return &ExhaustedRetriesError{Attempts: attempts, Err: err}
}
