package ebbinghaus

import (
	"testing"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

func TestCalculateNextInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name       string
		difficulty domain.Difficulty
		current    time.Duration
		viewCount  int
		expected   time.Duration
	}{
		{
			name:       "Again resets to first rung regardless of prior interval",
			difficulty: domain.DifficultyAgain,
			current:    720 * time.Hour,
			viewCount:  10,
			expected:   1 * time.Hour,
		},
		{
			name:       "Again on a brand-new record",
			difficulty: domain.DifficultyAgain,
			current:    0,
			viewCount:  0,
			expected:   1 * time.Hour,
		},
		{
			name:       "Hard grows the current interval by 1.2",
			difficulty: domain.DifficultyHard,
			current:    10 * time.Hour,
			viewCount:  3,
			expected:   12 * time.Hour,
		},
		{
			name:       "Hard never drops below the first rung",
			difficulty: domain.DifficultyHard,
			current:    0,
			viewCount:  0,
			expected:   72 * time.Minute, // 1h treated as current, * 1.2
		},
		{
			name:       "Normal climbs the ladder by view count",
			difficulty: domain.DifficultyNormal,
			current:    1 * time.Hour,
			viewCount:  2,
			expected:   24 * time.Hour,
		},
		{
			name:       "Normal reaches the top rung",
			difficulty: domain.DifficultyNormal,
			current:    336 * time.Hour,
			viewCount:  6,
			expected:   720 * time.Hour,
		},
		{
			name:       "Normal past the ladder grows geometrically",
			difficulty: domain.DifficultyNormal,
			current:    720 * time.Hour,
			viewCount:  7,
			expected:   1080 * time.Hour, // 720 * 1.5
		},
		{
			name:       "Easy doubles the current interval",
			difficulty: domain.DifficultyEasy,
			current:    24 * time.Hour,
			viewCount:  3,
			expected:   48 * time.Hour,
		},
		{
			name:       "Easy on first review doubles the first rung",
			difficulty: domain.DifficultyEasy,
			current:    0,
			viewCount:  0,
			expected:   2 * time.Hour,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNextInterval(tc.difficulty, tc.current, tc.viewCount, params)
			if got != tc.expected {
				t.Errorf("calculateNextInterval() = %v, want %v", got, tc.expected)
			}
			if got <= 0 {
				t.Errorf("calculateNextInterval() = %v, want > 0", got)
			}
		})
	}
}

func TestCalculateNewMastery(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name       string
		current    int
		difficulty domain.Difficulty
		expected   int
	}{
		{"Again subtracts 20", 50, domain.DifficultyAgain, 30},
		{"Again clamps at 0", 10, domain.DifficultyAgain, 0},
		{"Hard subtracts 10", 50, domain.DifficultyHard, 40},
		{"Hard clamps at 0", 5, domain.DifficultyHard, 0},
		{"Normal adds 10", 50, domain.DifficultyNormal, 60},
		{"Normal clamps at 100", 95, domain.DifficultyNormal, 100},
		{"Easy adds 20", 50, domain.DifficultyEasy, 70},
		{"Easy clamps at 100", 90, domain.DifficultyEasy, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewMastery(tc.current, tc.difficulty, params)
			if got != tc.expected {
				t.Errorf("calculateNewMastery(%d, %s) = %d, want %d",
					tc.current, tc.difficulty, got, tc.expected)
			}
		})
	}
}

// Mastery must move monotonically in the direction the difficulty implies,
// for every starting level.
func TestMasteryMonotonicity(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for level := 0; level <= 100; level++ {
		for _, d := range []domain.Difficulty{domain.DifficultyAgain, domain.DifficultyHard} {
			if got := calculateNewMastery(level, d, params); got > level {
				t.Fatalf("mastery increased under %s: %d -> %d", d, level, got)
			}
		}
		for _, d := range []domain.Difficulty{domain.DifficultyNormal, domain.DifficultyEasy} {
			if got := calculateNewMastery(level, d, params); got < level {
				t.Fatalf("mastery decreased under %s: %d -> %d", d, level, got)
			}
		}
	}
}

func TestIntervalForMastery(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		mastery  int
		expected time.Duration
	}{
		{"full mastery uses the top rung", 100, 720 * time.Hour},
		{"90 indexes rung 6", 90, 720 * time.Hour},
		{"80 indexes rung 5", 80, 336 * time.Hour},
		{"mid-high mastery gets a day", 60, 24 * time.Hour},
		{"boundary below mastered band", 79, 24 * time.Hour},
		{"mid mastery gets eight hours", 40, 8 * time.Hour},
		{"low mastery restarts at the first rung", 39, 1 * time.Hour},
		{"zero mastery restarts at the first rung", 0, 1 * time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := intervalForMastery(tc.mastery, params); got != tc.expected {
				t.Errorf("intervalForMastery(%d) = %v, want %v", tc.mastery, got, tc.expected)
			}
		})
	}
}

func TestMasteryFromCounts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		correct  int
		views    int
		expected int
	}{
		{"no attempts", 0, 0, 0},
		{"all correct", 1, 1, 100},
		{"three of ten", 3, 10, 30},
		{"floors the ratio", 3, 11, 27},
		{"all wrong", 0, 5, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := MasteryFromCounts(tc.correct, tc.views); got != tc.expected {
				t.Errorf("MasteryFromCounts(%d, %d) = %d, want %d",
					tc.correct, tc.views, got, tc.expected)
			}
		})
	}
}
