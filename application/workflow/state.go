package workflow

import (
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/domain/core/valueobjects"
)

// State is the in-flight context record for one message. Each node reads
// and writes it in place; the final value becomes the Result.
type State struct {
	UserMessage string
	SessionID   string
	Intent      valueobjects.Intent
	Confidence  float64
	Reasoning   string
	Response    string
	CardID      *int64
	UpdatedCard *entities.Card
	FocusedCard *entities.FocusedCard
}

// Result is the structured outcome of one pass through the workflow.
// CardID and UpdatedCard serialize as explicit nulls so callers can
// distinguish "no card touched" without probing for absent keys.
type Result struct {
	Message     string                `json:"message"`
	Response    string                `json:"response"`
	Intent      valueobjects.Intent   `json:"intent"`
	Confidence  float64               `json:"confidence"`
	Reasoning   string                `json:"reasoning"`
	SessionID   string                `json:"session_id,omitempty"`
	CardID      *int64                `json:"card_id"`
	UpdatedCard *entities.Card        `json:"updated_card"`
	FocusedCard *entities.FocusedCard `json:"focused_card,omitempty"`
}

func (s *State) result() *Result {
	return &Result{
		Message:     s.UserMessage,
		Response:    s.Response,
		Intent:      s.Intent,
		Confidence:  s.Confidence,
		Reasoning:   s.Reasoning,
		SessionID:   s.SessionID,
		CardID:      s.CardID,
		UpdatedCard: s.UpdatedCard,
		FocusedCard: s.FocusedCard,
	}
}
