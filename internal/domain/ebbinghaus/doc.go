// Package ebbinghaus implements the forgetting-curve scheduling used to
// space flashcard reviews.
//
// The package exposes two policies that share one interval ladder but are
// deliberately kept separate:
//
//   - CalculateNextReview is the reusable pure scheduling primitive. Given a
//     review difficulty and the current scheduling state it returns the next
//     interval and mastery level, with no I/O and no clock dependency beyond
//     the caller-supplied "now".
//
//   - IntervalForMastery maps a freshly recomputed accuracy percentage onto
//     the ladder. This is the policy the review recorder persists.
//
// All functions are safe for concurrent use; Params is immutable after
// construction.
package ebbinghaus
