// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidDifficulty is returned when a review difficulty is not one
	// of the closed set of difficulty values.
	ErrInvalidDifficulty = errors.New("invalid review difficulty")

	// ErrInvalidCardContent is returned when card content is not valid JSON.
	ErrInvalidCardContent = errors.New("invalid card content")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
