package ebbinghaus

import (
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Params defines all configurable parameters for the forgetting-curve
// scheduler. Instances are treated as immutable once constructed; the
// interval ladder in particular is process-wide constant configuration,
// never mutable state.
type Params struct {
	// Intervals is the fixed ladder of review spacings, ordered ascending.
	// A card climbs one rung per successful review.
	Intervals []time.Duration

	// MasteryDelta is the mastery-level adjustment applied per difficulty.
	// Results are clamped to [0, 100].
	MasteryDelta map[domain.Difficulty]int

	// IntervalMultiplier is the growth factor applied to the current
	// interval for difficulties that scale rather than index the ladder.
	IntervalMultiplier map[domain.Difficulty]float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	// Interval ladder, in ascending order. Empty keeps the default.
	Intervals []time.Duration

	// Mastery adjustments
	AgainMasteryDelta  int
	HardMasteryDelta   int
	NormalMasteryDelta int
	EasyMasteryDelta   int

	// Interval growth factors
	HardIntervalMultiplier   float64
	NormalIntervalMultiplier float64
	EasyIntervalMultiplier   float64
}

// NewDefaultParams creates a new Params instance with the canonical
// Ebbinghaus ladder: 1h, 8h, 1d, 3d, 1wk, 2wk, 1mo.
func NewDefaultParams() *Params {
	return &Params{
		Intervals: []time.Duration{
			1 * time.Hour,
			8 * time.Hour,
			24 * time.Hour,
			72 * time.Hour,
			168 * time.Hour,
			336 * time.Hour,
			720 * time.Hour,
		},

		MasteryDelta: map[domain.Difficulty]int{
			domain.DifficultyAgain:  -20,
			domain.DifficultyHard:   -10,
			domain.DifficultyNormal: 10,
			domain.DifficultyEasy:   20,
		},

		IntervalMultiplier: map[domain.Difficulty]float64{
			domain.DifficultyAgain:  0.0, // Reset to the first rung
			domain.DifficultyHard:   1.2,
			domain.DifficultyNormal: 1.5, // Applied only past the ladder
			domain.DifficultyEasy:   2.0,
		},
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.Intervals) > 0 {
		params.Intervals = append([]time.Duration(nil), config.Intervals...)
	}

	if config.AgainMasteryDelta != 0 {
		params.MasteryDelta[domain.DifficultyAgain] = config.AgainMasteryDelta
	}
	if config.HardMasteryDelta != 0 {
		params.MasteryDelta[domain.DifficultyHard] = config.HardMasteryDelta
	}
	if config.NormalMasteryDelta != 0 {
		params.MasteryDelta[domain.DifficultyNormal] = config.NormalMasteryDelta
	}
	if config.EasyMasteryDelta != 0 {
		params.MasteryDelta[domain.DifficultyEasy] = config.EasyMasteryDelta
	}

	if config.HardIntervalMultiplier > 0 {
		params.IntervalMultiplier[domain.DifficultyHard] = config.HardIntervalMultiplier
	}
	if config.NormalIntervalMultiplier > 0 {
		params.IntervalMultiplier[domain.DifficultyNormal] = config.NormalIntervalMultiplier
	}
	if config.EasyIntervalMultiplier > 0 {
		params.IntervalMultiplier[domain.DifficultyEasy] = config.EasyIntervalMultiplier
	}

	return params
}

// FirstInterval returns the ladder's first rung, the spacing used for
// brand-new records and for AGAIN resets.
func (p *Params) FirstInterval() time.Duration {
	return p.Intervals[0]
}
