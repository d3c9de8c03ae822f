package domain

import "errors"

var (
	// ErrForestNotFound is returned when a forest ID is not in the registry.
	ErrForestNotFound = errors.New("forest not found")

	// ErrInsufficientData is returned when a computation has no input to work
	// from, such as a forecast without a nearby detection or an empty scenario
	// list.
	ErrInsufficientData = errors.New("not enough data")

	// ErrFeedUnavailable marks a fire feed transport failure.
	ErrFeedUnavailable = errors.New("fire feed unavailable")
)
