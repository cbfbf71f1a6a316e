package entities

import (
	"strings"
	"time"
)

// FocusedCardContentLimit caps how much card content travels with the
// session-scoped focused-card projection.
const FocusedCardContentLimit = 200

// Card is a knowledge card as stored by the external card service.
// The conversation core never mutates cards directly; it issues
// create/update requests through the CardRepository port.
type Card struct {
	ID        int64                  `json:"id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Embedding []float32              `json:"embedding,omitempty"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
}

// CardUpdate describes a partial card update. Nil fields are left
// untouched by the card service.
type CardUpdate struct {
	Title    *string                `json:"title,omitempty"`
	Content  *string                `json:"content,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// FocusedCard is a lightweight projection of the card a user is
// currently looking at. It is keyed and expired independently of the
// session record but carries the owning session id for cross-checking.
type FocusedCard struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FocusedAt string `json:"focused_at,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// NewFocusedCard builds a focused-card projection from a full card,
// truncating content to FocusedCardContentLimit characters.
func NewFocusedCard(card *Card) FocusedCard {
	return FocusedCard{
		ID:      card.ID,
		Title:   card.Title,
		Content: TruncateContent(card.Content, FocusedCardContentLimit),
	}
}

// ContentPreview returns at most limit characters of the focused card's
// content, for embedding in prompts.
func (f *FocusedCard) ContentPreview(limit int) string {
	return TruncateContent(f.Content, limit)
}

// TruncateContent shortens content to limit characters, appending "..."
// when anything was cut. Operates on runes so multi-byte text is never
// split mid-character.
func TruncateContent(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
