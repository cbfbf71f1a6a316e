package workflow

import (
	"context"

	"cardmind-backend/domain/core/entities"
	"cardmind-backend/pkg/modeljson"

	"go.uber.org/zap"
)

type cardExtraction struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type cardSelection struct {
	SelectedCardID   *int64 `json:"selected_card_id"`
	Reasoning        string `json:"reasoning"`
	SuggestedTitle   string `json:"suggested_title"`
	SuggestedContent string `json:"suggested_content"`
	UpdateSummary    string `json:"update_summary"`
}

// createCard extracts a structured card from the message and creates it
// through the repository. Extraction failure falls back to storing the
// message verbatim; only a repository failure aborts with an apology,
// which generate_response passes through untouched.
func (w *Workflow) createCard(ctx context.Context, state *State) {
	extraction := cardExtraction{
		Title:   "Knowledge from conversation",
		Content: state.UserMessage,
	}

	raw, err := w.capability.GenerateText(ctx, extractPrompt(state.UserMessage), extractMaxTokens)
	if err == nil {
		if parsed, perr := modeljson.Decode[cardExtraction](raw); perr == nil && parsed.Content != "" {
			extraction = parsed
			if extraction.Title == "" {
				extraction.Title = "New Knowledge Card"
			}
		} else {
			w.logger.Warn("Card extraction unparseable, storing message verbatim", zap.Error(perr))
		}
	} else {
		w.logger.Warn("Card extraction failed, storing message verbatim", zap.Error(err))
	}

	metadata := map[string]interface{}{
		"created_by":     "conversation",
		"source_message": state.UserMessage,
	}
	if extraction.Category != "" {
		metadata["category"] = extraction.Category
	}
	if len(extraction.Tags) > 0 {
		metadata["tags"] = extraction.Tags
	}

	card, err := w.cards.Create(ctx, extraction.Title, extraction.Content, metadata)
	if err != nil {
		w.logger.Error("Card creation failed", zap.Error(err))
		state.Response = "Sorry, I couldn't create the card right now. Please try again."
		return
	}

	state.CardID = &card.ID
	focused := entities.NewFocusedCard(card)
	state.FocusedCard = &focused
	w.sessions.SaveFocusedCard(ctx, state.SessionID, focused)

	w.logger.Info("Created card from conversation",
		zap.Int64("cardID", card.ID),
		zap.String("title", card.Title),
	)
}

// updateCard resolves which existing card the message refers to and
// applies the model-suggested revision. Every failure path sets an
// explanatory response and stops; generate_response passes it through.
func (w *Workflow) updateCard(ctx context.Context, state *State) {
	cards, err := w.cards.GetAll(ctx)
	if err != nil {
		w.logger.Error("Card listing failed", zap.Error(err))
		state.Response = "Sorry, I couldn't retrieve the existing cards to update."
		return
	}
	if len(cards) == 0 {
		state.Response = "No existing cards found to update."
		return
	}

	raw, err := w.capability.GenerateText(ctx, selectionPrompt(state.UserMessage, cards, state.FocusedCard), selectionMaxTokens)
	if err != nil {
		w.logger.Error("Card selection failed", zap.Error(err))
		state.Response = "Sorry, I couldn't work out which card to update."
		return
	}

	selection, err := modeljson.Decode[cardSelection](raw)
	if err != nil {
		w.logger.Warn("Card selection unparseable", zap.Error(err))
		state.Response = "I had trouble understanding how to update the cards based on your message."
		return
	}
	if selection.SelectedCardID == nil {
		state.Response = "I couldn't determine which card to update based on your message."
		return
	}

	updateReason := selection.UpdateSummary
	if updateReason == "" {
		updateReason = "Updated via conversation"
	}
	update := entities.CardUpdate{
		Metadata: map[string]interface{}{
			"updated_by":       "conversation",
			"update_reason":    updateReason,
			"original_message": state.UserMessage,
		},
	}
	if selection.SuggestedTitle != "" {
		update.Title = &selection.SuggestedTitle
	}
	if selection.SuggestedContent != "" {
		update.Content = &selection.SuggestedContent
	}

	card, err := w.cards.Update(ctx, *selection.SelectedCardID, update)
	if err != nil {
		w.logger.Error("Card update failed",
			zap.Int64("cardID", *selection.SelectedCardID),
			zap.Error(err),
		)
		state.Response = "Sorry, I couldn't update the card right now. Please try again."
		return
	}

	state.CardID = &card.ID
	state.UpdatedCard = card

	w.logger.Info("Updated card from conversation",
		zap.Int64("cardID", card.ID),
		zap.String("summary", updateReason),
	)
}
