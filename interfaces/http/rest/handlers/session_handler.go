package handlers

import (
	"net/http"
	"strconv"

	"cardmind-backend/application/services"
	"cardmind-backend/domain/core/entities"
	"cardmind-backend/pkg/common"
	"cardmind-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 10

// SessionHandler serves session inspection and focused-card management.
// Every endpoint answers 503 when session persistence is disabled.
type SessionHandler struct {
	sessions *services.SessionManager
	logger   *zap.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions *services.SessionManager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

func (h *SessionHandler) requirePersistence(w http.ResponseWriter) bool {
	if h.sessions.Enabled() {
		return true
	}
	common.RespondError(w, http.StatusServiceUnavailable, common.StandardErrorCodes.ServiceUnavailable, "session persistence is disabled")
	return false
}

// Active handles GET /api/v1/sessions/active.
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	if !h.requirePersistence(w) {
		return
	}

	sessions := h.sessions.ActiveSessions(r.Context())
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// Info handles GET /api/v1/sessions/{sessionID}.
func (h *SessionHandler) Info(w http.ResponseWriter, r *http.Request) {
	if !h.requirePersistence(w) {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	session := h.sessions.SessionInfo(r.Context(), sessionID)
	if session == nil {
		common.RespondError(w, http.StatusNotFound, common.StandardErrorCodes.NotFound, "session not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, session)
}

// History handles GET /api/v1/sessions/{sessionID}/history.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	if !h.requirePersistence(w) {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	sessionID := chi.URLParam(r, "sessionID")
	history := h.sessions.History(r.Context(), sessionID, limit)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"history":    history,
		"count":      len(history),
	})
}

// SetFocusedCard handles POST /api/v1/sessions/{sessionID}/focused-card.
func (h *SessionHandler) SetFocusedCard(w http.ResponseWriter, r *http.Request) {
	if !h.requirePersistence(w) {
		return
	}

	var req FocusedCardPayload
	if err := common.ParseJSONBody(r, &req, maxChatBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	card := entities.FocusedCard{
		ID:      req.ID,
		Title:   req.Title,
		Content: entities.TruncateContent(req.Content, entities.FocusedCardContentLimit),
	}
	if !h.sessions.SaveFocusedCard(r.Context(), sessionID, card) {
		common.RespondError(w, http.StatusServiceUnavailable, common.StandardErrorCodes.ServiceUnavailable, "could not store focused card")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":   sessionID,
		"focused_card": card,
	})
}

// ClearFocusedCard handles DELETE /api/v1/sessions/{sessionID}/focused-card.
func (h *SessionHandler) ClearFocusedCard(w http.ResponseWriter, r *http.Request) {
	if !h.requirePersistence(w) {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	existed := h.sessions.ClearFocusedCard(r.Context(), sessionID)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"cleared":    existed,
	})
}
