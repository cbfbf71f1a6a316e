// Package workflow implements the conversation state machine. Each
// inbound message makes one pass: load the session, classify intent,
// act on cards if needed, generate a reply, save the session. Nodes
// never return errors; every external failure is converted into a
// degraded state (fallback intent, explanatory response) at the node
// where it happened.
package workflow

import (
	"context"

	"cardmind-backend/application/ports"
	"cardmind-backend/application/services"
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// nodeName identifies a processing node. The graph is fixed: the only
// data-dependent transition is the route consulted after analyze_intent.
type nodeName string

const (
	nodeLoadSession      nodeName = "load_session"
	nodeAnalyzeIntent    nodeName = "analyze_intent"
	nodeCreateCard       nodeName = "create_card"
	nodeUpdateCard       nodeName = "update_card"
	nodeGenerateResponse nodeName = "generate_response"
	nodeSaveSession      nodeName = "save_session"
	nodeEnd              nodeName = "end"
)

// Workflow wires the conversation nodes to their collaborators. One
// instance serves all requests; State carries per-request data.
type Workflow struct {
	capability ports.CapabilityService
	cards      ports.CardRepository
	sessions   *services.SessionManager
	logger     *zap.Logger
	handlers   map[nodeName]func(ctx context.Context, state *State)
}

// New creates a workflow. sessions may be a disabled manager, in which
// case the load/save nodes are total no-ops and the workflow runs
// statelessly on caller-supplied context only.
func New(
	capability ports.CapabilityService,
	cards ports.CardRepository,
	sessions *services.SessionManager,
	logger *zap.Logger,
) *Workflow {
	w := &Workflow{
		capability: capability,
		cards:      cards,
		sessions:   sessions,
		logger:     logger,
	}
	w.handlers = map[nodeName]func(ctx context.Context, state *State){
		nodeLoadSession:      w.loadSession,
		nodeAnalyzeIntent:    w.analyzeIntent,
		nodeCreateCard:       w.createCard,
		nodeUpdateCard:       w.updateCard,
		nodeGenerateResponse: w.generateResponse,
		nodeSaveSession:      w.saveSession,
	}
	return w
}

// PersistenceEnabled reports whether session state survives across turns.
func (w *Workflow) PersistenceEnabled() bool {
	return w.sessions.Enabled()
}

// Sessions exposes the session manager for the HTTP layer (history,
// focused-card management).
func (w *Workflow) Sessions() *services.SessionManager {
	return w.sessions
}

// Process runs one message through the workflow. sessionID and
// focusedCard are optional; a missing session id mints a new session
// when persistence is enabled.
func (w *Workflow) Process(ctx context.Context, message, sessionID string, focusedCard *entities.FocusedCard) *Result {
	state := &State{
		UserMessage: message,
		SessionID:   sessionID,
		FocusedCard: focusedCard,
	}

	w.logger.Debug("Processing message",
		zap.String("sessionID", sessionID),
		zap.Bool("focusedCard", focusedCard != nil),
	)

	for current := nodeLoadSession; current != nodeEnd; current = w.next(current, state) {
		w.handlers[current](ctx, state)
	}

	return state.result()
}

// next returns the successor of a node. Only analyze_intent has a
// conditional edge.
func (w *Workflow) next(current nodeName, state *State) nodeName {
	switch current {
	case nodeLoadSession:
		return nodeAnalyzeIntent
	case nodeAnalyzeIntent:
		return w.route(state)
	case nodeCreateCard, nodeUpdateCard:
		return nodeGenerateResponse
	case nodeGenerateResponse:
		return nodeSaveSession
	default:
		return nodeEnd
	}
}

// route is the conditional edge after intent analysis.
func (w *Workflow) route(state *State) nodeName {
	switch state.Intent {
	case valueobjects.IntentCreateNew:
		return nodeCreateCard
	case valueobjects.IntentUpdate:
		return nodeUpdateCard
	default:
		return nodeGenerateResponse
	}
}
