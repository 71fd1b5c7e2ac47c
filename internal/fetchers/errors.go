package fetchers

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable marks a source that could not be fetched or decoded.
// It is never recovered: the render cycle that hit it is aborted.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceError describes why a single source was unavailable
type SourceError struct {
	URI        string
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %s unavailable: status %d", e.URI, e.StatusCode)
	}
	return fmt.Sprintf("source %s unavailable: %v", e.URI, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSourceUnavailable) match any SourceError.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

func unavailable(uri string, status int, err error) error {
	return &SourceError{URI: uri, StatusCode: status, Err: err}
}
