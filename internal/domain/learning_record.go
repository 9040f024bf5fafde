package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty represents how hard a learner found a card during a review.
type Difficulty string

// Possible review difficulty values
const (
	DifficultyAgain  Difficulty = "again"
	DifficultyHard   Difficulty = "hard"
	DifficultyNormal Difficulty = "normal"
	DifficultyEasy   Difficulty = "easy"
)

// IsValid reports whether d is one of the closed set of difficulty values.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyAgain, DifficultyHard, DifficultyNormal, DifficultyEasy:
		return true
	default:
		return false
	}
}

// Common validation errors for LearningRecord
var (
	ErrEmptyRecordUserID   = errors.New("learning record user ID cannot be empty")
	ErrEmptyRecordCardID   = errors.New("learning record card ID cannot be empty")
	ErrNegativeCounter     = errors.New("counters must be greater than or equal to 0")
	ErrCounterMismatch     = errors.New("correct and wrong counts cannot exceed view count")
	ErrInvalidMasteryLevel = errors.New("mastery level must be between 0 and 100")
)

// LearningRecord tracks a user's forgetting-curve state for a specific card.
// There is exactly one record per (user, card) pair. The record is created
// lazily on first review and mutated only through the review recorder; its
// mastery level is always the running accuracy percentage
// floor(100 * correct / (correct + wrong)) at the moment of update.
type LearningRecord struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CardID       uuid.UUID `json:"card_id"`
	ViewCount    int       `json:"view_count"`    // Total review attempts
	CorrectCount int       `json:"correct_count"` // Reviews answered correctly
	WrongCount   int       `json:"wrong_count"`   // Reviews answered incorrectly
	MasteryLevel int       `json:"mastery_level"` // Running accuracy percentage, 0-100
	LastViewedAt time.Time `json:"last_viewed_at"`
	NextReviewAt time.Time `json:"next_review_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewLearningRecord creates a fresh record for a user and card with zeroed
// counters. The first review becomes due after initialInterval.
func NewLearningRecord(userID, cardID uuid.UUID, initialInterval time.Duration) (*LearningRecord, error) {
	now := time.Now().UTC()
	record := &LearningRecord{
		ID:           uuid.New(),
		UserID:       userID,
		CardID:       cardID,
		ViewCount:    0,
		CorrectCount: 0,
		WrongCount:   0,
		MasteryLevel: 0,
		LastViewedAt: time.Time{}, // Zero time until first review
		NextReviewAt: now.Add(initialInterval),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the LearningRecord has valid data.
// Returns an error if any field fails validation.
func (r *LearningRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}

	if r.CardID == uuid.Nil {
		return ErrEmptyRecordCardID
	}

	if r.ViewCount < 0 || r.CorrectCount < 0 || r.WrongCount < 0 {
		return ErrNegativeCounter
	}

	if r.CorrectCount+r.WrongCount > r.ViewCount {
		return ErrCounterMismatch
	}

	if r.MasteryLevel < 0 || r.MasteryLevel > 100 {
		return ErrInvalidMasteryLevel
	}

	return nil
}

// IsDue reports whether the record is due for review at the given time.
// Fully mastered cards are excluded from the review queue.
func (r *LearningRecord) IsDue(now time.Time) bool {
	return !now.Before(r.NextReviewAt) && r.MasteryLevel < 100
}

// Accuracy returns the percentage of correct answers over all reviews,
// or 0 for a record that has never been reviewed.
func (r *LearningRecord) Accuracy() int {
	if r.ViewCount == 0 {
		return 0
	}
	return 100 * r.CorrectCount / r.ViewCount
}
