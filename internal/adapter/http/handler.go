// Package http exposes the agent session service over a JSON HTTP API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/input"
	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/usecase/agent"
)

const serviceName = "project-cua"

// Handler routes session API requests to the session service.
type Handler struct {
	sessions input.SessionService
	logger   output.LoggerPort
}

func NewHandler(sessions input.SessionService, logger output.LoggerPort) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// Router builds the full middleware chain and route table.
func (h *Handler) Router() http.Handler {
	requestLogger := httplog.NewLogger(serviceName, httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes attaches the session endpoints to an existing router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/start", h.handleStart)
	r.Post("/step", h.handleStep)
	r.Delete("/session/{sessionID}", h.handleDispose)
	r.Get("/health", h.handleHealth)
}

type startRequest struct {
	Objective string `json:"objective"`
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type stepRequest struct {
	SessionID string `json:"session_id"`
}

type stepResponse struct {
	Screenshot       string `json:"screenshot"`
	Logs             string `json:"logs"`
	Status           string `json:"status"`
	Action           string `json:"action,omitempty"`
	URL              string `json:"url,omitempty"`
	ExtractedContent string `json:"extracted_content,omitempty"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.sessions.StartSession(r.Context(), req.Objective)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, startResponse{
		SessionID: result.SessionID,
		Message:   result.Message,
	})
}

func (h *Handler) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		h.respondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := h.sessions.StepSession(r.Context(), req.SessionID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, stepResponse{
		Screenshot:       result.Screenshot,
		Logs:             result.Logs,
		Status:           string(result.Status),
		Action:           string(result.Action),
		URL:              result.URL,
		ExtractedContent: result.ExtractedContent,
	})
}

func (h *Handler) handleDispose(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.sessions.DisposeSession(r.Context(), sessionID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Session cleaned up"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"service":  serviceName,
		"sessions": h.sessions.SessionCount(),
	})
}

// respondWithServiceError maps service sentinels onto HTTP status codes.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agent.ErrInvalidObjective):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, agent.ErrProviderUnavailable):
		h.respondWithError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, agent.ErrSessionNotFound):
		h.respondWithError(w, http.StatusNotFound, err.Error())
	default:
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// corsMiddleware allows any origin. The API is meant to sit behind a
// local UI during development, so the policy is wide open.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
