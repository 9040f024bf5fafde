// Package api provides HTTP handlers for the API.
package api

import (
	"encoding/json"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/service/study"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// CreateCardRequest represents the request body for creating a card.
type CreateCardRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

// UpdateCardRequest represents the request body for replacing card content.
type UpdateCardRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

// SubmitReviewRequest represents the request body for recording a review.
type SubmitReviewRequest struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=again hard normal easy"`
	IsCorrect  bool   `json:"is_correct"`
	TimeSpent  int    `json:"time_spent"  validate:"gte=0"` // Seconds
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Content   interface{} `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// LearningRecordResponse represents the response data for a learning record.
type LearningRecordResponse struct {
	CardID       string     `json:"card_id"`
	ViewCount    int        `json:"view_count"`
	CorrectCount int        `json:"correct_count"`
	WrongCount   int        `json:"wrong_count"`
	MasteryLevel int        `json:"mastery_level"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
	NextReviewAt time.Time  `json:"next_review_at"`
}

// DueCardResponse pairs a due card with its scheduling state.
type DueCardResponse struct {
	Card   CardResponse           `json:"card"`
	Record LearningRecordResponse `json:"record"`
}

// StatsResponse represents the response data for user statistics.
type StatsResponse struct {
	TotalCards    int `json:"total_cards"`
	NewCards      int `json:"new_cards"`
	LearningCards int `json:"learning_cards"`
	ReviewCards   int `json:"review_cards"`
	MasteredCards int `json:"mastered_cards"`
	DueCards      int `json:"due_cards"`
	TodayReviewed int `json:"today_reviewed"`
	TodaySessions int `json:"today_sessions"`
}

// cardToResponse transforms a domain card to its response representation.
// The content is decoded so clients receive structured JSON rather than an
// escaped string.
func cardToResponse(card *domain.Card) CardResponse {
	var content interface{}
	if err := json.Unmarshal(card.Content, &content); err != nil {
		content = string(card.Content)
	}

	return CardResponse{
		ID:        card.ID.String(),
		UserID:    card.UserID.String(),
		Content:   content,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

// recordToResponse transforms a learning record to its response representation.
func recordToResponse(record *domain.LearningRecord) LearningRecordResponse {
	resp := LearningRecordResponse{
		CardID:       record.CardID.String(),
		ViewCount:    record.ViewCount,
		CorrectCount: record.CorrectCount,
		WrongCount:   record.WrongCount,
		MasteryLevel: record.MasteryLevel,
		NextReviewAt: record.NextReviewAt,
	}
	if !record.LastViewedAt.IsZero() {
		lastViewed := record.LastViewedAt
		resp.LastViewedAt = &lastViewed
	}
	return resp
}

// dueCardToResponse transforms a due card pair to its response representation.
func dueCardToResponse(due *store.DueCard) DueCardResponse {
	resp := DueCardResponse{
		Record: recordToResponse(due.Record),
	}
	if due.Card != nil {
		resp.Card = cardToResponse(due.Card)
	}
	return resp
}

// statsToResponse transforms aggregated user statistics to the response shape.
func statsToResponse(stats *study.UserStats) StatsResponse {
	return StatsResponse{
		TotalCards:    stats.TotalCards,
		NewCards:      stats.NewCards,
		LearningCards: stats.LearningCards,
		ReviewCards:   stats.ReviewCards,
		MasteredCards: stats.MasteredCards,
		DueCards:      stats.DueCards,
		TodayReviewed: stats.TodayReviewed,
		TodaySessions: stats.TodaySessions,
	}
}
