package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLearningRecord(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	cardID := uuid.New()

	record, err := NewLearningRecord(userID, cardID, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, cardID, record.CardID)
	assert.Zero(t, record.ViewCount)
	assert.Zero(t, record.CorrectCount)
	assert.Zero(t, record.WrongCount)
	assert.Zero(t, record.MasteryLevel)
	assert.True(t, record.LastViewedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), record.NextReviewAt, 2*time.Second)
}

func TestLearningRecordValidate(t *testing.T) {
	t.Parallel()

	valid := func() *LearningRecord {
		return &LearningRecord{
			ID:           uuid.New(),
			UserID:       uuid.New(),
			CardID:       uuid.New(),
			ViewCount:    10,
			CorrectCount: 7,
			WrongCount:   3,
			MasteryLevel: 70,
			NextReviewAt: time.Now().UTC(),
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*LearningRecord)
		wantErr error
	}{
		{"valid record", func(r *LearningRecord) {}, nil},
		{"missing user ID", func(r *LearningRecord) { r.UserID = uuid.Nil }, ErrEmptyRecordUserID},
		{"missing card ID", func(r *LearningRecord) { r.CardID = uuid.Nil }, ErrEmptyRecordCardID},
		{"negative view count", func(r *LearningRecord) { r.ViewCount = -1 }, ErrNegativeCounter},
		{"counters exceed views", func(r *LearningRecord) { r.CorrectCount = 9 }, ErrCounterMismatch},
		{"mastery above ceiling", func(r *LearningRecord) { r.MasteryLevel = 101 }, ErrInvalidMasteryLevel},
		{"mastery below floor", func(r *LearningRecord) { r.MasteryLevel = -1 }, ErrInvalidMasteryLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			record := valid()
			tc.mutate(record)
			err := record.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestLearningRecordIsDue(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	testCases := []struct {
		name    string
		next    time.Time
		mastery int
		want    bool
	}{
		{"overdue and unmastered", now.Add(-time.Hour), 50, true},
		{"due exactly now", now, 50, true},
		{"not yet due", now.Add(time.Hour), 50, false},
		{"overdue but fully mastered", now.Add(-time.Hour), 100, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			record := &LearningRecord{NextReviewAt: tc.next, MasteryLevel: tc.mastery}
			assert.Equal(t, tc.want, record.IsDue(now))
		})
	}
}

func TestDifficultyIsValid(t *testing.T) {
	t.Parallel()

	for _, d := range []Difficulty{DifficultyAgain, DifficultyHard, DifficultyNormal, DifficultyEasy} {
		assert.True(t, d.IsValid(), "difficulty %q should be valid", d)
	}
	assert.False(t, Difficulty("").IsValid())
	assert.False(t, Difficulty("good").IsValid())
	assert.False(t, Difficulty("AGAIN").IsValid())
}

func TestLearningRecordAccuracy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, (&LearningRecord{}).Accuracy())
	assert.Equal(t, 70, (&LearningRecord{ViewCount: 10, CorrectCount: 7}).Accuracy())
	assert.Equal(t, 27, (&LearningRecord{ViewCount: 11, CorrectCount: 3}).Accuracy())
}
