package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/service/auth"
	"github.com/mnemolab/mnemo-api/internal/service/card"
	"github.com/mnemolab/mnemo-api/internal/service/study"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, study.ErrCardNotOwned),
		errors.Is(err, card.ErrCardNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, card.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrLearningRecordNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrLearningRecordExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, study.ErrInvalidReview),
		errors.Is(err, study.ErrInvalidLimit),
		errors.Is(err, card.ErrInvalidContent),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	// Authorization errors
	case errors.Is(err, study.ErrCardNotOwned),
		errors.Is(err, card.ErrCardNotOwned):
		return "You do not own this card"

	// Not found errors
	case errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, card.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrLearningRecordNotFound):
		return "Learning record not found"

	// Conflict errors
	case errors.Is(err, store.ErrLearningRecordExists),
		errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case errors.Is(err, study.ErrInvalidReview):
		return "Invalid review"

	case errors.Is(err, study.ErrInvalidLimit):
		return "Invalid limit"

	case errors.Is(err, card.ErrInvalidContent):
		return "Invalid card content"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	// Default case for unknown errors
	default:
		var svcErr *study.ServiceError
		if errors.As(err, &svcErr) {
			switch svcErr.Operation {
			case "record_review":
				return "Failed to record review"
			case "due_cards":
				return "Failed to get due cards"
			case "user_stats":
				return "Failed to get statistics"
			}
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'ReviewRequest.Difficulty' Error:Field
	// validation for 'Difficulty' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}
