package category

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subslayer/subslayer/internal/category"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/mappings", h.learn)
}

type suggestResponse struct {
	Category string `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	suggested, err := h.svc.Suggest(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{Category: suggested}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Pattern == "" || req.Category == "" {
		http.Error(w, "pattern and category are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.Pattern, req.Category); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
