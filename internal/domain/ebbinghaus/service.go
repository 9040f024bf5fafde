package ebbinghaus

import (
	"errors"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Common errors
var (
	ErrInvalidDifficulty = errors.New("invalid review difficulty")
	ErrNegativeInterval  = errors.New("current interval cannot be negative")
	ErrInvalidMastery    = errors.New("mastery level must be between 0 and 100")
	ErrNegativeViewCount = errors.New("view count cannot be negative")
)

// Service defines the interface for forgetting-curve scheduling operations.
type Service interface {
	// CalculateNextReview computes the ladder-driven next scheduling state
	// from a review difficulty. It is deterministic for identical inputs.
	CalculateNextReview(
		difficulty domain.Difficulty,
		currentInterval time.Duration,
		masteryLevel int,
		viewCount int,
		now time.Time,
	) (Result, error)

	// IntervalForMastery returns the review spacing for a freshly
	// recomputed accuracy-based mastery level. Out-of-range input is
	// clamped to [0, 100].
	IntervalForMastery(masteryLevel int) time.Duration

	// InitialInterval returns the spacing assigned to a record that has
	// never been reviewed.
	InitialInterval() time.Duration
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	difficulty domain.Difficulty,
	currentInterval time.Duration,
	masteryLevel int,
	viewCount int,
	now time.Time,
) (Result, error) {
	if !difficulty.IsValid() {
		return Result{}, ErrInvalidDifficulty
	}

	if currentInterval < 0 {
		return Result{}, ErrNegativeInterval
	}

	if masteryLevel < 0 || masteryLevel > 100 {
		return Result{}, ErrInvalidMastery
	}

	if viewCount < 0 {
		return Result{}, ErrNegativeViewCount
	}

	return calculateResult(difficulty, currentInterval, masteryLevel, viewCount, now, s.params), nil
}

// IntervalForMastery implements the Service interface.
func (s *defaultService) IntervalForMastery(masteryLevel int) time.Duration {
	return intervalForMastery(clampMastery(masteryLevel), s.params)
}

// InitialInterval implements the Service interface.
func (s *defaultService) InitialInterval() time.Duration {
	return s.params.FirstInterval()
}
