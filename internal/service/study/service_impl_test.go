package study

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/ebbinghaus"
)

var testClock = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// newTestService wires the service to in-memory fakes and a fixed clock.
func newTestService(
	cards *fakeCardStore,
	records *fakeRecordStore,
	sessions *fakeSessionStore,
) *studyServiceImpl {
	return &studyServiceImpl{
		cardStore:   cards,
		recordStore: records,
		sessions:    sessions,
		scheduler:   ebbinghaus.NewDefaultService(),
		logger:      slog.Default(),
		now:         func() time.Time { return testClock },
		runTx:       passthroughTx,
	}
}

func mustCreateCard(t *testing.T, cards *fakeCardStore, userID uuid.UUID) *domain.Card {
	t.Helper()

	content, err := json.Marshal(map[string]interface{}{
		"title":      "Photosynthesis",
		"core_point": "Light energy becomes chemical energy",
	})
	require.NoError(t, err)

	card, err := domain.NewCard(userID, content)
	require.NoError(t, err)
	require.NoError(t, cards.Create(context.Background(), card))
	return card
}

func seedRecord(
	t *testing.T,
	records *fakeRecordStore,
	userID, cardID uuid.UUID,
	correct, wrong int,
	nextReviewAt time.Time,
) *domain.LearningRecord {
	t.Helper()

	record := &domain.LearningRecord{
		ID:           uuid.New(),
		UserID:       userID,
		CardID:       cardID,
		ViewCount:    correct + wrong,
		CorrectCount: correct,
		WrongCount:   wrong,
		MasteryLevel: ebbinghaus.MasteryFromCounts(correct, correct+wrong),
		LastViewedAt: testClock.Add(-24 * time.Hour),
		NextReviewAt: nextReviewAt,
		CreatedAt:    testClock.Add(-48 * time.Hour),
		UpdatedAt:    testClock.Add(-24 * time.Hour),
	}
	require.NoError(t, records.Create(context.Background(), record))
	return record
}

func TestRecordReview_FirstReviewCreatesRecord(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)

	updated, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
		CardID:     card.ID,
		Difficulty: domain.DifficultyNormal,
		IsCorrect:  true,
		TimeSpent:  12,
	})
	require.NoError(t, err)

	// A single correct answer means 100% running accuracy, which lands on
	// the top rung of the interval ladder.
	assert.Equal(t, 1, updated.ViewCount)
	assert.Equal(t, 1, updated.CorrectCount)
	assert.Equal(t, 0, updated.WrongCount)
	assert.Equal(t, 100, updated.MasteryLevel)
	assert.Equal(t, testClock, updated.LastViewedAt)
	assert.Equal(t, testClock.Add(720*time.Hour), updated.NextReviewAt)

	stored, err := records.Get(context.Background(), userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.MasteryLevel, stored.MasteryLevel)
	assert.Equal(t, updated.NextReviewAt, stored.NextReviewAt)

	require.Len(t, sessions.entries, 1)
	entry := sessions.entries[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, card.ID, entry.CardID)
	assert.Equal(t, domain.DifficultyNormal, entry.Difficulty)
	assert.True(t, entry.IsCorrect)
	assert.Equal(t, 12, entry.TimeSpent)
}

func TestRecordReview_WrongAnswerLowersMastery(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)
	seedRecord(t, records, userID, card.ID, 3, 7, testClock.Add(-time.Hour))

	updated, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
		CardID:     card.ID,
		Difficulty: domain.DifficultyAgain,
		IsCorrect:  false,
	})
	require.NoError(t, err)

	// 3 correct out of 11 views is 27% accuracy, which keeps the card on
	// the shortest interval.
	assert.Equal(t, 11, updated.ViewCount)
	assert.Equal(t, 3, updated.CorrectCount)
	assert.Equal(t, 8, updated.WrongCount)
	assert.Equal(t, 27, updated.MasteryLevel)
	assert.Equal(t, testClock.Add(time.Hour), updated.NextReviewAt)
}

func TestRecordReview_CounterInvariantHoldsAcrossReviews(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)

	outcomes := []bool{true, false, true, true, false, true, false, false, true, true}
	for _, correct := range outcomes {
		updated, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
			CardID:     card.ID,
			Difficulty: domain.DifficultyNormal,
			IsCorrect:  correct,
		})
		require.NoError(t, err)
		assert.Equal(t, updated.ViewCount, updated.CorrectCount+updated.WrongCount)
		assert.GreaterOrEqual(t, updated.MasteryLevel, 0)
		assert.LessOrEqual(t, updated.MasteryLevel, 100)
	}

	stored, err := records.Get(context.Background(), userID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, len(outcomes), stored.ViewCount)
	assert.Equal(t, 6, stored.CorrectCount)
	assert.Equal(t, 4, stored.WrongCount)
	assert.Len(t, sessions.entries, len(outcomes))
}

func TestRecordReview_CardNotFound(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	_, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
		CardID:     uuid.New(),
		Difficulty: domain.DifficultyNormal,
		IsCorrect:  true,
	})
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Empty(t, records.records)
	assert.Empty(t, sessions.entries)
}

func TestRecordReview_CardNotOwned(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	owner := uuid.New()
	card := mustCreateCard(t, cards, owner)

	_, err := svc.RecordReview(context.Background(), uuid.New(), ReviewRequest{
		CardID:     card.ID,
		Difficulty: domain.DifficultyNormal,
		IsCorrect:  true,
	})
	assert.ErrorIs(t, err, ErrCardNotOwned)
	assert.Empty(t, records.records)
	assert.Empty(t, sessions.entries)
}

func TestRecordReview_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)

	tests := []struct {
		name   string
		review ReviewRequest
	}{
		{
			name: "unknown difficulty",
			review: ReviewRequest{
				CardID:     card.ID,
				Difficulty: domain.Difficulty("impossible"),
				IsCorrect:  true,
			},
		},
		{
			name: "negative time spent",
			review: ReviewRequest{
				CardID:     card.ID,
				Difficulty: domain.DifficultyNormal,
				IsCorrect:  true,
				TimeSpent:  -1,
			},
		},
		{
			name: "nil card id",
			review: ReviewRequest{
				CardID:     uuid.Nil,
				Difficulty: domain.DifficultyNormal,
				IsCorrect:  true,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordReview(context.Background(), userID, tc.review)
			assert.ErrorIs(t, err, ErrInvalidReview)
		})
	}

	assert.Empty(t, records.records)
	assert.Empty(t, sessions.entries)
}

func TestRecordReview_SessionAppendFailureWrapsError(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	sessions.err = errStoreDown
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)

	_, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
		CardID:     card.ID,
		Difficulty: domain.DifficultyNormal,
		IsCorrect:  true,
	})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "record_review", svcErr.Operation)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestRecordReview_RecordStoreFailureWrapsError(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	records.err = errStoreDown
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)

	_, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
		CardID:     card.ID,
		Difficulty: domain.DifficultyNormal,
		IsCorrect:  true,
	})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, sessions.entries)
}

func TestDueCards_OrdersLongestOverdueFirst(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	overdueTwo := mustCreateCard(t, cards, userID)
	overdueOne := mustCreateCard(t, cards, userID)
	future := mustCreateCard(t, cards, userID)

	seedRecord(t, records, userID, overdueTwo.ID, 1, 1, testClock.Add(-2*time.Hour))
	seedRecord(t, records, userID, overdueOne.ID, 1, 1, testClock.Add(-time.Hour))
	seedRecord(t, records, userID, future.ID, 1, 1, testClock.Add(time.Hour))

	due, err := svc.DueCards(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, overdueTwo.ID, due[0].Record.CardID)
	assert.Equal(t, overdueOne.ID, due[1].Record.CardID)
}

func TestDueCards_ExcludesFullyMastered(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	mastered := mustCreateCard(t, cards, userID)
	struggling := mustCreateCard(t, cards, userID)

	seedRecord(t, records, userID, mastered.ID, 10, 0, testClock.Add(-time.Hour))
	seedRecord(t, records, userID, struggling.ID, 2, 8, testClock.Add(-time.Hour))

	due, err := svc.DueCards(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, struggling.ID, due[0].Record.CardID)
}

func TestDueCards_RespectsLimit(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	for i := 0; i < 5; i++ {
		card := mustCreateCard(t, cards, userID)
		seedRecord(t, records, userID, card.ID, 1, 1, testClock.Add(-time.Duration(i+1)*time.Hour))
	}

	due, err := svc.DueCards(context.Background(), userID, 3)
	require.NoError(t, err)
	assert.Len(t, due, 3)
}

func TestDueCards_RejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeCardStore(), newFakeRecordStore(), newFakeSessionStore())

	for _, limit := range []int{0, -1} {
		_, err := svc.DueCards(context.Background(), uuid.New(), limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	}
}

func TestDueCards_StoreFailureWrapsError(t *testing.T) {
	t.Parallel()

	records := newFakeRecordStore()
	records.err = errStoreDown
	svc := newTestService(newFakeCardStore(), records, newFakeSessionStore())

	_, err := svc.DueCards(context.Background(), uuid.New(), 10)
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "due_cards", svcErr.Operation)
}

func TestUserStats_BucketsSumToTotal(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()

	// One card per mastery bucket: new (0), learning (25), review (50),
	// mastered (100). Only the learning card is currently due.
	newCard := mustCreateCard(t, cards, userID)
	record := &domain.LearningRecord{
		ID:           uuid.New(),
		UserID:       userID,
		CardID:       newCard.ID,
		NextReviewAt: testClock.Add(time.Hour),
		CreatedAt:    testClock,
		UpdatedAt:    testClock,
	}
	require.NoError(t, records.Create(context.Background(), record))

	learning := mustCreateCard(t, cards, userID)
	seedRecord(t, records, userID, learning.ID, 1, 3, testClock.Add(-time.Hour))

	review := mustCreateCard(t, cards, userID)
	seedRecord(t, records, userID, review.ID, 2, 2, testClock.Add(time.Hour))

	mastered := mustCreateCard(t, cards, userID)
	seedRecord(t, records, userID, mastered.ID, 10, 0, testClock.Add(time.Hour))

	stats, err := svc.UserStats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalCards)
	assert.Equal(t, 1, stats.NewCards)
	assert.Equal(t, 1, stats.LearningCards)
	assert.Equal(t, 1, stats.ReviewCards)
	assert.Equal(t, 1, stats.MasteredCards)
	assert.Equal(t, stats.TotalCards,
		stats.NewCards+stats.LearningCards+stats.ReviewCards+stats.MasteredCards)
	assert.Equal(t, 1, stats.DueCards)
}

func TestUserStats_CountsTodayActivity(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	userID := uuid.New()
	card := mustCreateCard(t, cards, userID)

	_, err := svc.RecordReview(context.Background(), userID, ReviewRequest{
		CardID:     card.ID,
		Difficulty: domain.DifficultyEasy,
		IsCorrect:  true,
	})
	require.NoError(t, err)

	stats, err := svc.UserStats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TodayReviewed)
	assert.Equal(t, 1, stats.TodaySessions)
}

func TestUserStats_IgnoresOtherUsers(t *testing.T) {
	t.Parallel()

	cards := newFakeCardStore()
	records := newFakeRecordStore()
	sessions := newFakeSessionStore()
	svc := newTestService(cards, records, sessions)

	other := uuid.New()
	card := mustCreateCard(t, cards, other)
	seedRecord(t, records, other, card.ID, 1, 1, testClock.Add(-time.Hour))

	stats, err := svc.UserStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCards)
	assert.Equal(t, 0, stats.DueCards)
}
