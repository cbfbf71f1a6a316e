package workflow

import (
	"context"

	"go.uber.org/zap"
)

// generateResponse produces the conversational reply. A node upstream
// that already set a response (failure explanations) short-circuits this
// node so the user sees exactly what went wrong. Generation failure
// leaves the response empty rather than failing the turn.
func (w *Workflow) generateResponse(ctx context.Context, state *State) {
	if state.Response != "" {
		return
	}

	reply, err := w.capability.GenerateText(ctx, responsePrompt(state), responseMaxTokens)
	if err != nil {
		w.logger.Warn("Response generation failed", zap.Error(err))
		return
	}
	state.Response = reply
}
