package generation

import "errors"

// Common errors returned by generation implementations
var (
	// ErrGenerationFailed is returned when card generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate cards from text")

	// ErrInvalidResponse is returned when the generator response cannot be parsed
	ErrInvalidResponse = errors.New("invalid response from card generator")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during card generation")
)
