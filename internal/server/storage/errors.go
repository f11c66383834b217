package storage

import "errors"

// Common storage errors
var (
	// ErrFeatureNotFound indicates that feature was not found or is deleted
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrInvalidFeature indicates that feature record misses required fields
	ErrInvalidFeature = errors.New("invalid feature")
)
