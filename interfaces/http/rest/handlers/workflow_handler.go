package handlers

import (
	"net/http"

	"cardmind-backend/application/workflow"
	"cardmind-backend/domain/core/valueobjects"
	"cardmind-backend/pkg/common"
)

// WorkflowHandler exposes read-only workflow metadata for clients.
type WorkflowHandler struct {
	workflow *workflow.Workflow
}

// NewWorkflowHandler creates a workflow metadata handler.
func NewWorkflowHandler(w *workflow.Workflow) *WorkflowHandler {
	return &WorkflowHandler{workflow: w}
}

type intentDescription struct {
	Intent      valueobjects.Intent `json:"intent"`
	Description string              `json:"description"`
}

// Intents handles GET /api/v1/workflow/intents.
func (h *WorkflowHandler) Intents(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"intents": []intentDescription{
			{Intent: valueobjects.IntentCreateNew, Description: "Create a new knowledge card from the message"},
			{Intent: valueobjects.IntentUpdate, Description: "Update an existing knowledge card"},
			{Intent: valueobjects.IntentNoAction, Description: "Conversational reply, no card changes"},
		},
	})
}

// Status handles GET /api/v1/workflow/status.
func (h *WorkflowHandler) Status(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"persistence_enabled": h.workflow.PersistenceEnabled(),
		"nodes": []string{
			"load_session",
			"analyze_intent",
			"create_card",
			"update_card",
			"generate_response",
			"save_session",
		},
	})
}
