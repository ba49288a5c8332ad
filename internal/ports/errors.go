package ports

import "errors"

var (
	// ErrProviderTimeout marks a collaborator call that exceeded its provider-side timeout.
	ErrProviderTimeout = errors.New("provider timeout")
	// ErrNotFound marks a lookup the provider answered with no result.
	ErrNotFound = errors.New("not found")
)
