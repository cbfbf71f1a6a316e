package workflow

import (
	"context"

	"cardmind-backend/domain/core/entities"
	"cardmind-backend/pkg/common"

	"go.uber.org/zap"
)

// loadSession resolves the session for this turn. With persistence
// disabled the node is a no-op and the turn runs on caller-supplied
// context only. A caller-supplied focused card always wins over the
// stored one and is written back so subsequent turns see it.
func (w *Workflow) loadSession(ctx context.Context, state *State) {
	if !w.sessions.Enabled() {
		return
	}

	if state.SessionID == "" || !w.sessions.TouchSession(ctx, state.SessionID) {
		userID, _ := common.GetUserID(ctx)
		session := w.sessions.CreateSession(ctx, userID)
		state.SessionID = session.ID
		w.logger.Debug("Minted session for turn", zap.String("sessionID", session.ID))
	}

	if state.FocusedCard != nil {
		w.sessions.SaveFocusedCard(ctx, state.SessionID, *state.FocusedCard)
		return
	}
	state.FocusedCard = w.sessions.LoadFocusedCard(ctx, state.SessionID)
}

// saveSession persists the turn's outcome: the conversation snapshot is
// overwritten whole, one history entry is appended, and an updated card
// becomes the new focused card.
func (w *Workflow) saveSession(ctx context.Context, state *State) {
	if !w.sessions.Enabled() || state.SessionID == "" {
		return
	}

	if state.UpdatedCard != nil {
		focused := entities.NewFocusedCard(state.UpdatedCard)
		state.FocusedCard = &focused
		w.sessions.SaveFocusedCard(ctx, state.SessionID, focused)
	}

	w.sessions.SaveConversationState(ctx, state.SessionID, &entities.ConversationState{
		Intent:      state.Intent,
		Confidence:  state.Confidence,
		Reasoning:   state.Reasoning,
		FocusedCard: state.FocusedCard,
		LastMessage: state.UserMessage,
	})

	w.sessions.AppendHistory(ctx, state.SessionID, entities.HistoryEntry{
		UserMessage: state.UserMessage,
		Intent:      state.Intent,
		Confidence:  state.Confidence,
		Response:    state.Response,
		CardID:      state.CardID,
	})
}
