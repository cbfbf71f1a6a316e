// Package cardservice is the HTTP client for the external knowledge
// card store. The card service owns all card data; this process only
// issues create, read, update, delete and search requests against it.
package cardservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cardmind-backend/application/ports"
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/pkg/errors"

	"go.uber.org/zap"
)

// Client talks to the card service REST API. Embeddings for semantic
// search are produced through the capability service before the search
// request is sent; the card service itself only compares vectors.
type Client struct {
	baseURL    string
	httpClient *http.Client
	embedder   ports.CapabilityService
	logger     *zap.Logger
}

// NewClient creates a card service client. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, embedder ports.CapabilityService, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		embedder:   embedder,
		logger:     logger,
	}
}

type addTextRequest struct {
	Text     string                 `json:"text"`
	Title    string                 `json:"title,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type addTextResponse struct {
	CardID int64 `json:"card_id"`
}

type cardResponse struct {
	Card *entities.Card `json:"card"`
}

type cardsResponse struct {
	Cards []entities.Card `json:"cards"`
}

type updateResponse struct {
	UpdatedCard *entities.Card `json:"updated_card"`
}

type searchRequest struct {
	Embedding []float32 `json:"embedding"`
	Limit     int       `json:"limit,omitempty"`
}

// Create stores a new card and returns it with the assigned id.
func (c *Client) Create(ctx context.Context, title, content string, metadata map[string]interface{}) (*entities.Card, error) {
	var resp addTextResponse
	err := c.do(ctx, http.MethodPost, "/add-text", addTextRequest{
		Text:     content,
		Title:    title,
		Metadata: metadata,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &entities.Card{
		ID:       resp.CardID,
		Title:    title,
		Content:  content,
		Metadata: metadata,
	}, nil
}

// GetAll lists every card.
func (c *Client) GetAll(ctx context.Context) ([]entities.Card, error) {
	var resp cardsResponse
	if err := c.do(ctx, http.MethodGet, "/cards", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// Get fetches one card by id.
func (c *Client) Get(ctx context.Context, id int64) (*entities.Card, error) {
	var resp cardResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Card == nil {
		return nil, errors.NewNotFoundError("card")
	}
	return resp.Card, nil
}

// Update applies a partial update and returns the resulting card.
func (c *Client) Update(ctx context.Context, id int64, update entities.CardUpdate) (*entities.Card, error) {
	var resp updateResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cards/%d", id), update, &resp); err != nil {
		return nil, err
	}
	if resp.UpdatedCard == nil {
		return nil, errors.NewExternalError("card service", fmt.Errorf("update response missing card"))
	}
	return resp.UpdatedCard, nil
}

// Delete removes a card, reporting whether it existed.
func (c *Client) Delete(ctx context.Context, id int64) (bool, error) {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d", id), nil, nil)
	if errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SearchByText embeds the query and asks the card service for the
// nearest cards by vector distance.
func (c *Client) SearchByText(ctx context.Context, query string, limit int) ([]entities.Card, error) {
	embedding, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "embed search query")
	}

	var resp cardsResponse
	if err := c.do(ctx, http.MethodPost, "/search", searchRequest{Embedding: embedding, Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// do issues one request. 404 maps to a typed not-found error, other
// non-2xx statuses to an external error carrying the response body.
func (c *Client) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.NewInternalError("marshal card service request").WithCause(err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.NewInternalError("build card service request").WithCause(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Card service request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return errors.NewExternalError("card service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError("card")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewExternalError("card service",
			fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.NewExternalError("card service", fmt.Errorf("decode response: %w", err))
	}
	return nil
}
