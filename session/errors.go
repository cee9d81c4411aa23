package session

import "errors"

// Common errors
var (
	// ErrNoSession reports that hydration found nothing to restore: no
	// stored token, or the credential store could not be read.
	ErrNoSession = errors.New("no stored session")
)
