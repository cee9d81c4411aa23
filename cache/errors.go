package cache

import "errors"

// Common errors
var (
	// ErrClosed is returned when an operation races with Store.Close
	ErrClosed = errors.New("cache store closed")
)
