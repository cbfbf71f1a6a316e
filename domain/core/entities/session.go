package entities

import (
	"cardmind-backend/domain/core/valueobjects"
	"cardmind-backend/pkg/utils"

	"github.com/google/uuid"
)

// MaxHistoryEntries caps per-session conversation history. Older entries
// are evicted first.
const MaxHistoryEntries = 50

// Session identifies one conversation. The id is minted on the first
// message and immutable afterwards; the record itself is refreshed on
// every turn and expires after the session TTL of inactivity.
type Session struct {
	ID           string `json:"session_id"`
	UserID       string `json:"user_id,omitempty"`
	CreatedAt    string `json:"created_at"`
	LastActivity string `json:"last_activity"`
	MessageCount int    `json:"message_count"`
}

// NewSession mints a session with a fresh UUID. userID may be empty for
// anonymous conversations.
func NewSession(userID string) *Session {
	now := utils.NowRFC3339()
	return &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		MessageCount: 0,
	}
}

// Touch records activity on the session.
func (s *Session) Touch() {
	s.LastActivity = utils.NowRFC3339()
	s.MessageCount++
}

// ConversationState is the per-session snapshot written after every
// turn. It is overwritten whole, never merged field by field.
type ConversationState struct {
	SessionID   string              `json:"session_id"`
	Intent      valueobjects.Intent `json:"intent"`
	Confidence  float64             `json:"confidence"`
	Reasoning   string              `json:"reasoning"`
	FocusedCard *FocusedCard        `json:"focused_card,omitempty"`
	LastMessage string              `json:"last_message"`
	LastUpdated string              `json:"last_updated"`
}

// HistoryEntry records one completed turn.
type HistoryEntry struct {
	UserMessage string              `json:"user_message"`
	Intent      valueobjects.Intent `json:"intent"`
	Confidence  float64             `json:"confidence"`
	Response    string              `json:"response"`
	CardID      *int64              `json:"card_id,omitempty"`
	Timestamp   string              `json:"timestamp"`
}
