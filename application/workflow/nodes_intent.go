package workflow

import (
	"context"

	"cardmind-backend/domain/core/valueobjects"
	"cardmind-backend/pkg/modeljson"

	"go.uber.org/zap"
)

// intentAnalysis is the shape the classifier is asked to produce.
// Confidence is a pointer so an omitted field is distinguishable from an
// explicit zero.
type intentAnalysis struct {
	Action     string   `json:"action"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

const (
	fallbackConfidence = 0.5
	fallbackReasoning  = "Failed to parse intent analysis"
	defaultReasoning   = "Analysis completed"
)

// analyzeIntent classifies the user message. Any failure, whether the
// model call or parsing its output, degrades to NO_ACTION so the turn
// still produces a conversational reply.
func (w *Workflow) analyzeIntent(ctx context.Context, state *State) {
	raw, err := w.capability.GenerateText(ctx, intentPrompt(state.UserMessage, state.FocusedCard), intentMaxTokens)
	if err == nil {
		var analysis intentAnalysis
		analysis, err = modeljson.Decode[intentAnalysis](raw)
		if err == nil {
			state.Intent = valueobjects.ParseIntent(analysis.Action)
			state.Confidence = fallbackConfidence
			if analysis.Confidence != nil {
				state.Confidence = *analysis.Confidence
			}
			state.Reasoning = analysis.Reasoning
			if state.Reasoning == "" {
				state.Reasoning = defaultReasoning
			}
			return
		}
	}

	w.logger.Warn("Intent analysis failed, defaulting to NO_ACTION", zap.Error(err))
	state.Intent = valueobjects.IntentNoAction
	state.Confidence = fallbackConfidence
	state.Reasoning = fallbackReasoning
}
