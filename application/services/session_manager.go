package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardmind-backend/application/ports"
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/pkg/utils"

	"go.uber.org/zap"
)

// State store key namespace. Session-scoped records share the session id
// but expire independently.
const (
	sessionKeyPrefix      = "session:"
	conversationKeyPrefix = "conversation_state:"
	focusedCardKeyPrefix  = "focused_card:"
	historyKeyPrefix      = "conversation_history:"
)

// SessionManager orchestrates all session-scoped persistence: the
// session record, the conversation-state snapshot, the focused card and
// the capped history list. It owns the TTL policy.
//
// A manager without a store (NewDisabledSessionManager) is a null
// object: every read misses and every write is a no-op, so the workflow
// runs statelessly without checking availability at each call site.
type SessionManager struct {
	store      ports.StateStore
	sessionTTL time.Duration
	historyTTL time.Duration
	logger     *zap.Logger
}

// NewSessionManager creates a session manager backed by a state store.
func NewSessionManager(store ports.StateStore, sessionTTL, historyTTL time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		store:      store,
		sessionTTL: sessionTTL,
		historyTTL: historyTTL,
		logger:     logger,
	}
}

// NewDisabledSessionManager creates a manager with no backing store.
func NewDisabledSessionManager(logger *zap.Logger) *SessionManager {
	return &SessionManager{logger: logger}
}

// Enabled reports whether a backing store is attached.
func (m *SessionManager) Enabled() bool {
	return m != nil && m.store != nil
}

// CreateSession mints and persists a new session.
func (m *SessionManager) CreateSession(ctx context.Context, userID string) *entities.Session {
	session := entities.NewSession(userID)
	if !m.Enabled() {
		return session
	}

	m.store.PutJSON(ctx, sessionKey(session.ID), session, m.sessionTTL)
	m.logger.Debug("Created new session",
		zap.String("sessionID", session.ID),
		zap.String("userID", userID),
	)
	return session
}

// SessionInfo loads the session record, or nil when absent.
func (m *SessionManager) SessionInfo(ctx context.Context, sessionID string) *entities.Session {
	if !m.Enabled() {
		return nil
	}

	var session entities.Session
	if !m.store.GetJSON(ctx, sessionKey(sessionID), &session) {
		return nil
	}
	return &session
}

// TouchSession bumps last-activity and message count, refreshing the
// session TTL. Returns false when the session record no longer exists.
func (m *SessionManager) TouchSession(ctx context.Context, sessionID string) bool {
	if !m.Enabled() {
		return false
	}

	session := m.SessionInfo(ctx, sessionID)
	if session == nil {
		return false
	}

	session.Touch()
	return m.store.PutJSON(ctx, sessionKey(sessionID), session, m.sessionTTL)
}

// SaveConversationState overwrites the per-session snapshot, stamping
// the session id and last-updated time.
func (m *SessionManager) SaveConversationState(ctx context.Context, sessionID string, state *entities.ConversationState) bool {
	if !m.Enabled() {
		return false
	}

	state.SessionID = sessionID
	state.LastUpdated = utils.NowRFC3339()
	return m.store.PutJSON(ctx, conversationKey(sessionID), state, m.sessionTTL)
}

// LoadConversationState returns the stored snapshot, or nil when absent.
func (m *SessionManager) LoadConversationState(ctx context.Context, sessionID string) *entities.ConversationState {
	if !m.Enabled() {
		return nil
	}

	var state entities.ConversationState
	if !m.store.GetJSON(ctx, conversationKey(sessionID), &state) {
		return nil
	}
	return &state
}

// SaveFocusedCard stores the focused card for a session.
func (m *SessionManager) SaveFocusedCard(ctx context.Context, sessionID string, card entities.FocusedCard) bool {
	if !m.Enabled() {
		return false
	}

	card.SessionID = sessionID
	card.FocusedAt = utils.NowRFC3339()
	return m.store.PutJSON(ctx, focusedCardKey(sessionID), card, m.sessionTTL)
}

// LoadFocusedCard returns the focused card for a session, or nil.
func (m *SessionManager) LoadFocusedCard(ctx context.Context, sessionID string) *entities.FocusedCard {
	if !m.Enabled() {
		return nil
	}

	var card entities.FocusedCard
	if !m.store.GetJSON(ctx, focusedCardKey(sessionID), &card) {
		return nil
	}
	return &card
}

// ClearFocusedCard removes the focused card for a session.
func (m *SessionManager) ClearFocusedCard(ctx context.Context, sessionID string) bool {
	if !m.Enabled() {
		return false
	}
	return m.store.Delete(ctx, focusedCardKey(sessionID))
}

// AppendHistory appends one turn to the session's history, evicting the
// oldest entries beyond MaxHistoryEntries. History outlives the session
// TTL so brief gaps don't lose context.
func (m *SessionManager) AppendHistory(ctx context.Context, sessionID string, entry entities.HistoryEntry) bool {
	if !m.Enabled() {
		return false
	}

	entry.Timestamp = utils.NowRFC3339()

	var history []entities.HistoryEntry
	m.store.GetJSON(ctx, historyKey(sessionID), &history)

	history = append(history, entry)
	if len(history) > entities.MaxHistoryEntries {
		history = history[len(history)-entities.MaxHistoryEntries:]
	}

	return m.store.PutJSON(ctx, historyKey(sessionID), history, m.historyTTL)
}

// History returns the most recent limit entries (all entries when limit
// is <= 0).
func (m *SessionManager) History(ctx context.Context, sessionID string, limit int) []entities.HistoryEntry {
	if !m.Enabled() {
		return nil
	}

	var history []entities.HistoryEntry
	m.store.GetJSON(ctx, historyKey(sessionID), &history)

	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}

// ActiveSessions lists the session records that have not expired yet.
func (m *SessionManager) ActiveSessions(ctx context.Context) []entities.Session {
	if !m.Enabled() {
		return nil
	}

	keys := m.store.Keys(ctx, sessionKeyPrefix)
	sessions := make([]entities.Session, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimPrefix(key, sessionKeyPrefix)
		var session entities.Session
		if m.store.GetJSON(ctx, sessionKey(id), &session) {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

func sessionKey(id string) string      { return fmt.Sprintf("%s%s", sessionKeyPrefix, id) }
func conversationKey(id string) string { return fmt.Sprintf("%s%s", conversationKeyPrefix, id) }
func focusedCardKey(id string) string  { return fmt.Sprintf("%s%s", focusedCardKeyPrefix, id) }
func historyKey(id string) string      { return fmt.Sprintf("%s%s", historyKeyPrefix, id) }
