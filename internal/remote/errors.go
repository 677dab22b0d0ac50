package remote

import "errors"

var (
	// ErrSubmission marks a job the service refused to accept.
	ErrSubmission = errors.New("submission rejected")

	// ErrTransient marks a transport or availability failure that a
	// later attempt may not hit.
	ErrTransient = errors.New("transient remote failure")

	// ErrNotAvailable marks a resource the service no longer holds.
	ErrNotAvailable = errors.New("not available on remote")
)
