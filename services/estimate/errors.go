package estimate

import "errors"

var (
	ErrNotFound         = errors.New("estimate: dialogue not found")
	ErrInvalidStep      = errors.New("estimate: action not available at this step")
	ErrUnknownOption    = errors.New("estimate: unknown option")
	ErrNoPhotos         = errors.New("estimate: at least one photo is required")
	ErrEmptyMessage     = errors.New("estimate: message is empty")
	ErrAlreadyCompleted = errors.New("estimate: dialogue already completed")
	ErrNothingToRetry   = errors.New("estimate: no failed request to retry")
)
