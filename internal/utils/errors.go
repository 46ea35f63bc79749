package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound            = errors.New("NOT_FOUND")
	ErrUpstreamUnavailable = errors.New("UPSTREAM_UNAVAILABLE")
	ErrUpstreamInvalid     = errors.New("UPSTREAM_INVALID_RESPONSE")
	ErrSearchUnavailable   = errors.New("SEARCH_UNAVAILABLE")
	ErrQueryTooShort       = errors.New("QUERY_TOO_SHORT")
)
