package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudySession validation errors
var (
	ErrEmptySessionUserID = errors.New("study session user ID cannot be empty")
	ErrEmptySessionCardID = errors.New("study session card ID cannot be empty")
	ErrNegativeTimeSpent  = errors.New("time spent cannot be negative")
)

// StudySession is one append-only log entry describing a single review event.
// Entries are never mutated or deleted; they exist for historical and
// activity reporting only and play no part in scheduling decisions.
type StudySession struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CardID      uuid.UUID  `json:"card_id"`
	Difficulty  Difficulty `json:"difficulty"`
	IsCorrect   bool       `json:"is_correct"`
	TimeSpent   int        `json:"time_spent"` // Seconds spent on this review
	SessionDate time.Time  `json:"session_date"`
}

// NewStudySession creates a log entry for a review event that happened now.
func NewStudySession(
	userID, cardID uuid.UUID,
	difficulty Difficulty,
	isCorrect bool,
	timeSpent int,
) (*StudySession, error) {
	session := &StudySession{
		ID:          uuid.New(),
		UserID:      userID,
		CardID:      cardID,
		Difficulty:  difficulty,
		IsCorrect:   isCorrect,
		TimeSpent:   timeSpent,
		SessionDate: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptySessionCardID
	}

	if !s.Difficulty.IsValid() {
		return ErrInvalidDifficulty
	}

	if s.TimeSpent < 0 {
		return ErrNegativeTimeSpent
	}

	return nil
}
