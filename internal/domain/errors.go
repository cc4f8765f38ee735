package domain

import "errors"

// Domain errors
var (
	ErrEntryNotFound     = errors.New("log entry not found")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrStreamClosed      = errors.New("log stream closed")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidFilter     = errors.New("invalid filter value")
	ErrClearNotConfirmed = errors.New("clear not confirmed")
)

// Error codes used by the collector API error body
const (
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeInternal = "INTERNAL_ERROR"
	ErrCodeBadQuery = "BAD_QUERY"
)

// ErrorCode returns the API error code for a domain error
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrInvalidFilter):
		return ErrCodeBadQuery
	default:
		return ErrCodeInternal
	}
}
