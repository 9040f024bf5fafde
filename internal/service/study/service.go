// Package study implements the review recorder, due-card selector and
// statistics aggregator that sit on top of the forgetting-curve scheduler.
package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// ReviewRequest describes one review event submitted by a learner.
type ReviewRequest struct {
	CardID     uuid.UUID         `json:"card_id"`
	Difficulty domain.Difficulty `json:"difficulty"`
	IsCorrect  bool              `json:"is_correct"`
	TimeSpent  int               `json:"time_spent"` // Seconds, optional
}

// UserStats aggregates a user's learning state for the dashboard.
// The four mastery buckets always sum to TotalCards.
type UserStats struct {
	TotalCards    int `json:"total_cards"`
	NewCards      int `json:"new_cards"`      // Mastery 0
	LearningCards int `json:"learning_cards"` // Mastery [1,40)
	ReviewCards   int `json:"review_cards"`   // Mastery [40,80)
	MasteredCards int `json:"mastered_cards"` // Mastery [80,100]
	DueCards      int `json:"due_cards"`
	TodayReviewed int `json:"today_reviewed"` // Records last viewed since local midnight
	TodaySessions int `json:"today_sessions"` // Session log entries since local midnight
}

// StudyService provides the core study operations: recording review events,
// selecting due cards and aggregating statistics.
type StudyService interface {
	// RecordReview processes a single review event end-to-end: it verifies
	// the card, lazily creates the learning record on first review, updates
	// the counters and mastery level, reschedules the next review and
	// appends an immutable session log entry. All state mutation happens
	// within one transaction with the record row locked, so nothing is
	// persisted on failure and concurrent reviews of the same (user, card)
	// pair serialize instead of overwriting one another.
	//
	// Returns:
	//   - (*domain.LearningRecord, nil): the updated record
	//   - (nil, ErrCardNotFound): the card does not exist
	//   - (nil, ErrCardNotOwned): the user does not own the card
	//   - (nil, ErrInvalidReview): the difficulty or time spent is invalid
	RecordReview(ctx context.Context, userID uuid.UUID, review ReviewRequest) (*domain.LearningRecord, error)

	// DueCards returns up to limit cards due for review, longest-overdue
	// first with ties broken by ascending correct count. Fully mastered
	// cards never appear. A non-positive limit is rejected with
	// ErrInvalidLimit.
	DueCards(ctx context.Context, userID uuid.UUID, limit int) ([]*store.DueCard, error)

	// UserStats aggregates the user's per-bucket card counts, due count and
	// today's review activity. The bucket counts are computed in a single
	// query and always sum to the total.
	UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}

// Common error types for StudyService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidReview indicates that the review event itself is malformed
	// (unknown difficulty, negative time spent). Rejected before any state
	// is read.
	ErrInvalidReview = errors.New("invalid review")

	// ErrInvalidLimit indicates a non-positive due-card limit.
	ErrInvalidLimit = errors.New("limit must be greater than 0")
)

// ServiceError wraps errors from the study service with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewRecordReviewError returns a new ServiceError for the record_review operation.
func NewRecordReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "record_review",
		Message:   message,
		Err:       err,
	}
}

// NewDueCardsError returns a new ServiceError for the due_cards operation.
func NewDueCardsError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "due_cards",
		Message:   message,
		Err:       err,
	}
}

// NewUserStatsError returns a new ServiceError for the user_stats operation.
func NewUserStatsError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "user_stats",
		Message:   message,
		Err:       err,
	}
}
