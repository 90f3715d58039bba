package interview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchlane/interview-platform/pkg/logging"
)

// Handler exposes the interview service over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an interview HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("interview: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type startRequest struct {
	FounderName string `json:"founder_name"`
	StartupName string `json:"startup_name"`
}

type submitRequest struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Start opens a new interview session.
// POST /interviews
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.service.StartSession(r.Context(), req.FounderName, req.StartupName)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// Submit records a founder response for a session.
// POST /interviews/{sessionID}/responses
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.service.SubmitResponse(r.Context(), sessionID, req.Response)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Status returns the public session snapshot.
// GET /interviews/{sessionID}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.service.GetStatus(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// End finalizes a session and returns the summary report.
// POST /interviews/{sessionID}/end
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.service.EndSession(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// AdminGet returns the full stored session, responses included.
// GET /admin/interviews/{sessionID}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

// AdminDelete removes a session.
// DELETE /admin/interviews/{sessionID}
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.service.DeleteSession(r.Context(), sessionID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck reports liveness.
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		h.writeError(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, ErrSessionCompleted):
		h.writeError(w, r, http.StatusConflict, "session already completed")
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSessionNotTerminal):
		h.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRevisionConflict):
		h.writeError(w, r, http.StatusConflict, "session was updated concurrently, retry")
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrSinkUnavailable):
		h.logger.Error("dependency unavailable", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusServiceUnavailable, "temporarily unavailable, retry")
	default:
		h.logger.Error("unhandled error", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
