// Package ports defines the boundary interfaces the conversation core
// depends on. Implementations live under infrastructure/; tests supply
// fakes.
package ports

import (
	"context"
	"time"

	"cardmind-backend/domain/core/entities"
)

// CapabilityService is the opaque model-invocation boundary. Both
// operations may fail or return empty; callers degrade at node
// granularity rather than propagating.
type CapabilityService interface {
	// GenerateText produces free-form text for a prompt within a token
	// budget.
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)

	// Embed produces an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CardRepository is the contract of the external card store. Unknown ids
// surface as typed not-found errors (pkg/errors), other failures as
// external errors.
type CardRepository interface {
	Create(ctx context.Context, title, content string, metadata map[string]interface{}) (*entities.Card, error)
	GetAll(ctx context.Context) ([]entities.Card, error)
	Get(ctx context.Context, id int64) (*entities.Card, error)
	Update(ctx context.Context, id int64, update entities.CardUpdate) (*entities.Card, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// SearchByText embeds the query and returns cards ordered by
	// embedding distance ascending.
	SearchByText(ctx context.Context, query string, limit int) ([]entities.Card, error)
}

// StateStore is expiring key-value storage for session-scoped records.
// Every operation is best-effort: infrastructure failures are logged by
// the implementation and surface as false/miss, never as errors. Core
// logic must not block on the store.
type StateStore interface {
	// PutJSON serializes value under key, overwriting unconditionally.
	// A zero ttl means no expiry.
	PutJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) bool

	// GetJSON deserializes the value at key into dest. Returns false on
	// missing key, expired key, or deserialization failure; dest is left
	// untouched in that case.
	GetJSON(ctx context.Context, key string, dest interface{}) bool

	// Delete removes key, reporting whether it existed.
	Delete(ctx context.Context, key string) bool

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) bool

	// Keys lists keys with the given prefix. Supports the
	// active-sessions listing; not intended for hot paths.
	Keys(ctx context.Context, prefix string) []string
}
