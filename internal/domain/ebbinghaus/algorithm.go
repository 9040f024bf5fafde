package ebbinghaus

import (
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Result holds the outcome of a scheduling computation.
type Result struct {
	Interval     time.Duration // Spacing until the next review, always > 0
	MasteryLevel int           // New mastery level, clamped to [0, 100]
	NextReviewAt time.Time     // now + Interval
}

// clampMastery keeps a mastery level inside [0, 100].
func clampMastery(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// calculateNewMastery applies the difficulty's mastery adjustment.
//
// AGAIN and HARD reduce mastery, NORMAL and EASY raise it; the result is
// always clamped to [0, 100]. Mastery is therefore monotonically
// non-increasing under failure outcomes and non-decreasing under success
// outcomes.
func calculateNewMastery(current int, difficulty domain.Difficulty, params *Params) int {
	return clampMastery(current + params.MasteryDelta[difficulty])
}

// calculateNextInterval determines the spacing until the next review.
//
// Behavior by difficulty:
//   - AGAIN resets to the ladder's first rung regardless of prior interval
//   - HARD grows the current interval slightly, never below the first rung
//   - NORMAL climbs the ladder by view count while rungs remain, then grows
//     the current interval geometrically
//   - EASY doubles the current interval
//
// A zero current interval (first-ever review) is treated as the first rung
// before any multiplier is applied, so the result is always positive.
func calculateNextInterval(
	difficulty domain.Difficulty,
	currentInterval time.Duration,
	viewCount int,
	params *Params,
) time.Duration {
	first := params.FirstInterval()

	if currentInterval <= 0 {
		currentInterval = first
	}

	switch difficulty {
	case domain.DifficultyAgain:
		return first

	case domain.DifficultyHard:
		next := time.Duration(float64(currentInterval) * params.IntervalMultiplier[domain.DifficultyHard])
		if next < first {
			next = first
		}
		return next

	case domain.DifficultyNormal:
		if viewCount < len(params.Intervals) {
			return params.Intervals[viewCount]
		}
		return time.Duration(float64(currentInterval) * params.IntervalMultiplier[domain.DifficultyNormal])

	case domain.DifficultyEasy:
		return time.Duration(float64(currentInterval) * params.IntervalMultiplier[domain.DifficultyEasy])

	default:
		// Unreachable for validated input; fall back to the first rung.
		return first
	}
}

// calculateResult runs the full pure scheduling computation: new interval,
// new mastery level, and the absolute next-review time derived from the
// caller-supplied now.
func calculateResult(
	difficulty domain.Difficulty,
	currentInterval time.Duration,
	masteryLevel int,
	viewCount int,
	now time.Time,
	params *Params,
) Result {
	interval := calculateNextInterval(difficulty, currentInterval, viewCount, params)

	return Result{
		Interval:     interval,
		MasteryLevel: calculateNewMastery(masteryLevel, difficulty, params),
		NextReviewAt: now.Add(interval),
	}
}

// intervalForMastery maps a recomputed accuracy percentage onto the ladder.
//
// This is the threshold policy wired into the persisted review path: high
// mastery indexes deep into the ladder, mid mastery gets fixed day/part-day
// spacings, anything below 40 restarts at the first rung.
func intervalForMastery(masteryLevel int, params *Params) time.Duration {
	switch {
	case masteryLevel >= 80:
		index := masteryLevel / 15
		if index > len(params.Intervals)-1 {
			index = len(params.Intervals) - 1
		}
		return params.Intervals[index]
	case masteryLevel >= 60:
		return params.Intervals[2]
	case masteryLevel >= 40:
		return params.Intervals[1]
	default:
		return params.Intervals[0]
	}
}

// MasteryFromCounts derives a mastery level as the floored accuracy
// percentage over all attempts. Zero attempts yield zero mastery.
func MasteryFromCounts(correctCount, viewCount int) int {
	if viewCount <= 0 {
		return 0
	}
	return clampMastery(100 * correctCount / viewCount)
}
