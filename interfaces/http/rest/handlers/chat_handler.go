package handlers

import (
	"net/http"

	"cardmind-backend/application/workflow"
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/pkg/common"
	"cardmind-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxChatBodyBytes = 64 * 1024

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	workflow *workflow.Workflow
	logger   *zap.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(w *workflow.Workflow, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{workflow: w, logger: logger}
}

// FocusedCardPayload is the caller-supplied view context: the card the
// user currently has open in their client.
type FocusedCardPayload struct {
	ID      int64  `json:"id" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// ChatRequest is one conversational message.
type ChatRequest struct {
	Message     string              `json:"message" validate:"required,min=1,max=4000"`
	SessionID   string              `json:"session_id,omitempty"`
	FocusedCard *FocusedCardPayload `json:"focused_card,omitempty"`
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := common.ParseJSONBody(r, &req, maxChatBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	var focused *entities.FocusedCard
	if req.FocusedCard != nil {
		focused = &entities.FocusedCard{
			ID:      req.FocusedCard.ID,
			Title:   req.FocusedCard.Title,
			Content: entities.TruncateContent(req.FocusedCard.Content, entities.FocusedCardContentLimit),
		}
	}

	result := h.workflow.Process(r.Context(), req.Message, req.SessionID, focused)

	h.logger.Debug("Chat turn completed",
		zap.String("sessionID", result.SessionID),
		zap.String("intent", result.Intent.String()),
	)

	common.RespondJSON(w, http.StatusOK, result)
}
