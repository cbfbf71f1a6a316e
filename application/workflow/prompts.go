package workflow

import (
	"fmt"
	"strings"

	"cardmind-backend/domain/core/entities"
	"cardmind-backend/domain/core/valueobjects"
)

// Token budgets per node. Extraction and selection need room for card
// content; classification and replies are kept short.
const (
	intentMaxTokens    = 200
	responseMaxTokens  = 300
	extractMaxTokens   = 600
	selectionMaxTokens = 800
)

// selectionCardLimit bounds how many existing cards the selection prompt
// enumerates; selectionPreviewLimit bounds each card's content preview.
const (
	selectionCardLimit    = 5
	selectionPreviewLimit = 150
)

func intentPrompt(message string, focused *entities.FocusedCard) string {
	var b strings.Builder
	b.WriteString("You are an intent classifier for a knowledge card assistant.\n")
	b.WriteString("Classify the user's message into exactly one intent:\n")
	b.WriteString("- CREATE_NEW: the user wants to save new information as a card\n")
	b.WriteString("- UPDATE: the user wants to change an existing card\n")
	b.WriteString("- NO_ACTION: anything else (questions, chit-chat, browsing)\n\n")

	if focused != nil {
		fmt.Fprintf(&b, "The user is currently viewing card %d (%q):\n%s\n\n",
			focused.ID, focused.Title, focused.ContentPreview(entities.FocusedCardContentLimit))
		b.WriteString("Messages like \"add this\" or \"change that\" likely refer to this card.\n\n")
	}

	fmt.Fprintf(&b, "User message: %s\n\n", message)
	b.WriteString("Respond with JSON only:\n")
	b.WriteString(`{"action": "NO_ACTION|CREATE_NEW|UPDATE", "confidence": 0.0-1.0, "reasoning": "one sentence"}`)
	return b.String()
}

func extractPrompt(message string) string {
	var b strings.Builder
	b.WriteString("Extract a knowledge card from the user's message.\n")
	b.WriteString("Produce a short descriptive title and the content worth keeping,\n")
	b.WriteString("cleaned up but faithful to what the user said.\n\n")
	fmt.Fprintf(&b, "User message: %s\n\n", message)
	b.WriteString("Respond with JSON only:\n")
	b.WriteString(`{"title": "...", "content": "...", "category": "optional", "tags": ["optional"]}`)
	return b.String()
}

func selectionPrompt(message string, cards []entities.Card, focused *entities.FocusedCard) string {
	var b strings.Builder
	b.WriteString("The user wants to update one of their knowledge cards.\n")
	b.WriteString("Pick the card being referred to and produce its updated title and content.\n\n")

	if focused != nil {
		fmt.Fprintf(&b, "The user is currently viewing card %d (%q); prefer it unless the message clearly names another card.\n\n",
			focused.ID, focused.Title)
	}

	b.WriteString("Existing cards:\n")
	shown := cards
	if len(shown) > selectionCardLimit {
		shown = shown[:selectionCardLimit]
	}
	for _, card := range shown {
		fmt.Fprintf(&b, "- id=%d title=%q content=%q\n",
			card.ID, card.Title, entities.TruncateContent(card.Content, selectionPreviewLimit))
	}

	fmt.Fprintf(&b, "\nUser message: %s\n\n", message)
	b.WriteString("Respond with JSON only:\n")
	b.WriteString(`{"selected_card_id": <id or null>, "reasoning": "why this card", "suggested_title": "new title or null", "suggested_content": "content incorporating the user's input", "update_summary": "one sentence"}`)
	b.WriteString("\nUse null for selected_card_id when no card plausibly matches.")
	return b.String()
}

func responsePrompt(state *State) string {
	var b strings.Builder
	b.WriteString("You are a helpful knowledge card assistant. Reply to the user in one or two sentences. Plain text, no markdown, no emojis.\n\n")

	switch state.Intent {
	case valueobjects.IntentCreateNew:
		b.WriteString("You just created a new card from the user's message. Confirm it briefly, mentioning the card id for reference.\n")
		if state.CardID != nil {
			fmt.Fprintf(&b, "Card id: %d\n", *state.CardID)
		}
		if state.FocusedCard != nil {
			fmt.Fprintf(&b, "Card title: %q\n", state.FocusedCard.Title)
		}
	case valueobjects.IntentUpdate:
		b.WriteString("You just updated one of the user's cards. Confirm briefly what changed.\n")
		if state.UpdatedCard != nil {
			fmt.Fprintf(&b, "Card title: %q\n", state.UpdatedCard.Title)
		}
	default:
		b.WriteString("No card action was needed. Answer conversationally.\n")
		if state.FocusedCard != nil {
			fmt.Fprintf(&b, "The user is currently viewing card %q:\n%s\n",
				state.FocusedCard.Title, state.FocusedCard.ContentPreview(entities.FocusedCardContentLimit))
		}
	}

	fmt.Fprintf(&b, "\nUser message: %s\n", state.UserMessage)
	return b.String()
}
