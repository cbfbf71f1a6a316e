package cardservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardmind-backend/domain/core/entities"
	apperrors "cardmind-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEmbedder struct {
	vector []float32
	texts  []string
}

func (s *stubEmbedder) GenerateText(_ context.Context, _ string, _ int) (string, error) {
	return "", nil
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.texts = append(s.texts, text)
	return s.vector, nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *stubEmbedder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	embedder := &stubEmbedder{vector: []float32{0.5, 0.5}}
	return NewClient(server.URL, 5*time.Second, embedder, zap.NewNop()), embedder
}

func TestClientCreate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/add-text", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "the content", body["text"])
		assert.Equal(t, "A Title", body["title"])

		json.NewEncoder(w).Encode(map[string]interface{}{"card_id": 17})
	}))

	card, err := client.Create(context.Background(), "A Title", "the content", map[string]interface{}{"source": "conversation"})
	require.NoError(t, err)
	assert.Equal(t, int64(17), card.ID)
	assert.Equal(t, "A Title", card.Title)
	assert.Equal(t, "the content", card.Content)
}

func TestClientGetAll(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"cards": []map[string]interface{}{
				{"id": 1, "title": "One", "content": "a"},
				{"id": 2, "title": "Two", "content": "b"},
			},
		})
	}))

	cards, err := client.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Two", cards[1].Title)
}

func TestClientUpdate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/cards/9", r.URL.Path)

		var body entities.CardUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Content)
		assert.Equal(t, "new content", *body.Content)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"updated_card": map[string]interface{}{"id": 9, "title": "T", "content": "new content"},
		})
	}))

	content := "new content"
	card, err := client.Update(context.Background(), 9, entities.CardUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, int64(9), card.ID)
	assert.Equal(t, "new content", card.Content)
}

func TestClientNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.Get(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	existed, err := client.Delete(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestClientServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "database exploded", http.StatusInternalServerError)
	}))

	_, err := client.GetAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsExternal(err))
	assert.Contains(t, err.Error(), "database exploded")
}

func TestClientSearchByText(t *testing.T) {
	client, embedder := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["embedding"], 2)
		assert.Equal(t, float64(3), body["limit"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"cards": []map[string]interface{}{{"id": 5, "title": "Match", "content": "c"}},
		})
	}))

	cards, err := client.SearchByText(context.Background(), "find pasta recipes", 3)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, int64(5), cards[0].ID)
	assert.Equal(t, []string{"find pasta recipes"}, embedder.texts)
}
