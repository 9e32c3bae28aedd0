package marketplace

import "errors"

var (
	ErrNotFound          = errors.New("listing not found")
	ErrInvalidTransition = errors.New("listing cannot move to that status")
	ErrInvalidListing    = errors.New("invalid listing")
)
