package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardmind-backend/application/services"
	"cardmind-backend/application/workflow"
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/infrastructure/config"
	"cardmind-backend/infrastructure/persistence/memory"
	"cardmind-backend/interfaces/http/rest"
	apperrors "cardmind-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedCapability replays model outputs in order across the whole
// conversation.
type scriptedCapability struct {
	responses []string
	calls     int
}

func (s *scriptedCapability) GenerateText(_ context.Context, _ string, _ int) (string, error) {
	if s.calls >= len(s.responses) {
		return "", apperrors.NewUnavailableError("model")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func (s *scriptedCapability) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1}, nil
}

type inMemoryCards struct {
	cards  []entities.Card
	nextID int64
}

func (c *inMemoryCards) Create(_ context.Context, title, content string, metadata map[string]interface{}) (*entities.Card, error) {
	c.nextID++
	card := entities.Card{ID: c.nextID, Title: title, Content: content, Metadata: metadata}
	c.cards = append(c.cards, card)
	return &card, nil
}

func (c *inMemoryCards) GetAll(_ context.Context) ([]entities.Card, error) {
	return c.cards, nil
}

func (c *inMemoryCards) Get(_ context.Context, id int64) (*entities.Card, error) {
	for i := range c.cards {
		if c.cards[i].ID == id {
			return &c.cards[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("card")
}

func (c *inMemoryCards) Update(_ context.Context, id int64, update entities.CardUpdate) (*entities.Card, error) {
	for i := range c.cards {
		if c.cards[i].ID != id {
			continue
		}
		if update.Title != nil {
			c.cards[i].Title = *update.Title
		}
		if update.Content != nil {
			c.cards[i].Content = *update.Content
		}
		return &c.cards[i], nil
	}
	return nil, apperrors.NewNotFoundError("card")
}

func (c *inMemoryCards) Delete(_ context.Context, id int64) (bool, error) {
	for i := range c.cards {
		if c.cards[i].ID == id {
			c.cards = append(c.cards[:i], c.cards[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (c *inMemoryCards) SearchByText(_ context.Context, _ string, limit int) ([]entities.Card, error) {
	if limit > 0 && len(c.cards) > limit {
		return c.cards[:limit], nil
	}
	return c.cards, nil
}

func newTestServer(t *testing.T, capability *scriptedCapability, cards *inMemoryCards) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	t.Cleanup(store.Close)

	sessions := services.NewSessionManager(store, time.Hour, 24*time.Hour, logger)
	wf := workflow.New(capability, cards, sessions, logger)

	cfg := &config.Config{
		Environment: "test",
		EnableCORS:  false,
	}
	return rest.NewRouter(cfg, wf, logger)
}

type chatData struct {
	Message     string                `json:"message"`
	Response    string                `json:"response"`
	Intent      string                `json:"intent"`
	Confidence  float64               `json:"confidence"`
	SessionID   string                `json:"session_id"`
	CardID      *int64                `json:"card_id"`
	UpdatedCard *entities.Card        `json:"updated_card"`
	FocusedCard *entities.FocusedCard `json:"focused_card"`
}

func postChat(t *testing.T, router http.Handler, body map[string]interface{}) chatData {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Success bool     `json:"success"`
		Data    chatData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func intentJSON(action string, confidence float64) string {
	return fmt.Sprintf(`{"action": %q, "confidence": %v, "reasoning": "scripted"}`, action, confidence)
}

func TestConversationFlow(t *testing.T) {
	capability := &scriptedCapability{responses: []string{
		// Turn 1: create a card.
		intentJSON("CREATE_NEW", 0.95),
		`{"title": "Coffee Ratios", "content": "1:16 for pour over"}`,
		"Saved a card called Coffee Ratios.",
		// Turn 2: update it.
		intentJSON("UPDATE", 0.9),
		`{"selected_card_id": 1, "reasoning": "the coffee card", "suggested_title": "Coffee Ratios", "suggested_content": "1:16 pour over, 1:12 french press", "update_summary": "added french press"}`,
		"Added the french press ratio.",
		// Turn 3: just chat.
		intentJSON("NO_ACTION", 0.8),
		"You take coffee seriously.",
	}}
	cards := &inMemoryCards{}
	router := newTestServer(t, capability, cards)

	// Turn 1 mints a session and creates a card.
	first := postChat(t, router, map[string]interface{}{"message": "remember: 1:16 ratio for pour over"})
	require.NotEmpty(t, first.SessionID)
	require.NotNil(t, first.CardID)
	assert.Equal(t, "CREATE_NEW", first.Intent)
	assert.Equal(t, "Saved a card called Coffee Ratios.", first.Response)
	require.Len(t, cards.cards, 1)

	// Turn 2 reuses the session and updates the card.
	second := postChat(t, router, map[string]interface{}{
		"message":    "also add 1:12 for french press",
		"session_id": first.SessionID,
	})
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "UPDATE", second.Intent)
	require.NotNil(t, second.UpdatedCard)
	assert.Equal(t, "1:16 pour over, 1:12 french press", second.UpdatedCard.Content)
	require.NotNil(t, second.FocusedCard)
	assert.Equal(t, int64(1), second.FocusedCard.ID)

	// Turn 3 is conversational; the focused card persists from turn 2.
	third := postChat(t, router, map[string]interface{}{
		"message":    "thanks!",
		"session_id": first.SessionID,
	})
	assert.Equal(t, "NO_ACTION", third.Intent)
	assert.Nil(t, third.CardID)
	require.NotNil(t, third.FocusedCard)
	assert.Equal(t, int64(1), third.FocusedCard.ID)

	// History recorded all three turns.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+first.SessionID+"/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var historyEnvelope struct {
		Data struct {
			Count   int                     `json:"count"`
			History []entities.HistoryEntry `json:"history"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &historyEnvelope))
	assert.Equal(t, 3, historyEnvelope.Data.Count)
	assert.Equal(t, "remember: 1:16 ratio for pour over", historyEnvelope.Data.History[0].UserMessage)
}

func TestHealthAndStatusEndpoints(t *testing.T) {
	router := newTestServer(t, &scriptedCapability{}, &inMemoryCards{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"persistence_enabled":true`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workflow/intents", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CREATE_NEW")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workflow/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analyze_intent")
}

func TestModelOutageDegradesGracefully(t *testing.T) {
	// No scripted responses at all: every model call fails.
	router := newTestServer(t, &scriptedCapability{}, &inMemoryCards{})

	result := postChat(t, router, map[string]interface{}{"message": "hello?"})
	assert.Equal(t, "NO_ACTION", result.Intent)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Empty(t, result.Response)
	assert.NotEmpty(t, result.SessionID)
}
