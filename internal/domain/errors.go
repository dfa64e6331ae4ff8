// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the request failed input validation.
var ErrValidation = errors.New("validation failed")

// ErrInvalidPeriod indicates a period token that cannot be resolved to a
// date range (unknown "custom" bounds, or custom without a start date).
var ErrInvalidPeriod = errors.New("invalid period")

// ErrUnsupportedFormat indicates an export format outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrUpstream indicates a metric source call failed. Results derived from a
// failed fan-out are never cached or partially returned.
var ErrUpstream = errors.New("upstream metric source failure")
