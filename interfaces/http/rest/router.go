// Package rest assembles the HTTP API.
package rest

import (
	"net/http"

	"cardmind-backend/application/workflow"
	"cardmind-backend/infrastructure/config"
	"cardmind-backend/interfaces/http/rest/handlers"
	custommw "cardmind-backend/interfaces/http/rest/middleware"
	"cardmind-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter builds the full route tree.
func NewRouter(cfg *config.Config, wf *workflow.Workflow, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.Logging(logger))
	r.Use(chimiddleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status":              "ready",
			"persistence_enabled": wf.PersistenceEnabled(),
		})
	})

	chatHandler := handlers.NewChatHandler(wf, logger)
	sessionHandler := handlers.NewSessionHandler(wf.Sessions(), logger)
	workflowHandler := handlers.NewWorkflowHandler(wf)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(custommw.OptionalAuth(cfg.JWTSecret, cfg.JWTIssuer, logger))

		r.Post("/chat", chatHandler.Chat)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/active", sessionHandler.Active)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Info)
				r.Get("/history", sessionHandler.History)
				r.Post("/focused-card", sessionHandler.SetFocusedCard)
				r.Delete("/focused-card", sessionHandler.ClearFocusedCard)
			})
		})

		r.Route("/workflow", func(r chi.Router) {
			r.Get("/intents", workflowHandler.Intents)
			r.Get("/status", workflowHandler.Status)
		})
	})

	return r
}
