package problems

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/math-practice/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/math-problem", h.GenerateProblem).Methods("POST")
	r.HandleFunc("/api/math-problem/submit", h.SubmitAnswer).Methods("POST")
}

func (h *Handler) GenerateProblem(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateProblemRequest
	// An empty body means "use the defaults".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.GenerateProblem(r.Context(), req)
	if err != nil {
		h.writeError(w, "generate", "Failed to generate problem", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing session_id or user_answer"})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), req)
	if err != nil {
		h.writeError(w, "submit", "Failed to submit answer", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeError maps service errors to status codes. Server-side failures are
// logged in full and reported to the client with a generic message.
func (h *Handler) writeError(w http.ResponseWriter, op, generic string, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: ve.Message})
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
	default:
		log.Printf("[handler] %s failed: %s", op, describe(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: generic})
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
