package notification

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/subslayer/subslayer/internal/auth"
	"github.com/subslayer/subslayer/internal/notification"
)

type Handler struct {
	svc    *notification.Service
	engine *notification.Engine
}

func NewHandler(svc *notification.Service, engine *notification.Engine) *Handler {
	return &Handler{svc: svc, engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/sweep", h.sweep)
	r.Post("/read-all", h.markAllRead)
	r.Patch("/{id}/read", h.markRead)
	r.Delete("/{id}", h.delete)
	r.Delete("/", h.clear)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	items, err := h.svc.List(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, items)
}

// sweep runs the evaluation procedure on demand. The dashboard calls this on
// load so reminders appear without waiting for the periodic run.
func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	created, err := h.engine.Sweep(r.Context(), userID, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if created == nil {
		created = []notification.Item{}
	}

	writeItems(w, created)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	items, err := h.svc.MarkRead(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, items)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	items, err := h.svc.MarkAllRead(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, items)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	items, err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, items)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	items, err := h.svc.Clear(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, items)
}

// writeItems returns the full inbox after every operation. Items carry their
// own JSON tags, so no separate response type is needed.
func writeItems(w http.ResponseWriter, items []notification.Item) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(items); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
