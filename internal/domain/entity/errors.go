package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a request rejected before any network call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration marks missing or malformed configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrIndexerFetch matches any *IndexerFetchError via errors.Is.
	ErrIndexerFetch = errors.New("indexer fetch failed")
	// ErrPriceUnavailable is returned by a price source that has no quote for an id.
	ErrPriceUnavailable = errors.New("price unavailable")
)

// IndexerFetchError reports a failed indexer query. Partial data is never returned with it.
type IndexerFetchError struct {
	Op    string
	Cause error
}

func (e *IndexerFetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrIndexerFetch, e.Op, e.Cause)
}

func (e *IndexerFetchError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrIndexerFetch) match.
func (e *IndexerFetchError) Is(target error) bool { return target == ErrIndexerFetch }

// TransientProviderError is a rate-limited, timed-out or dropped price request.
// It is retried by the price oracle and never leaves it.
type TransientProviderError struct {
	Provider   string
	StatusCode int
	Cause      error
}

func (e *TransientProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transient status %d: %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Provider, e.Cause)
}

func (e *TransientProviderError) Unwrap() error { return e.Cause }

// IsTransient reports whether err carries a *TransientProviderError.
func IsTransient(err error) bool {
	var t *TransientProviderError
	return errors.As(err, &t)
}
