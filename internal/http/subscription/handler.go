package subscription

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subslayer/subslayer/internal/auth"
	"github.com/subslayer/subslayer/internal/export"
	"github.com/subslayer/subslayer/internal/importer"
	"github.com/subslayer/subslayer/internal/subscription"
)

type Handler struct {
	svc      *subscription.Service
	exporter *export.Service
	importer *importer.Service
}

func NewHandler(svc *subscription.Service, exporter *export.Service, imp *importer.Service) *Handler {
	return &Handler{svc: svc, exporter: exporter, importer: imp}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/export", h.export)
	r.Post("/import", h.importCSV)
	r.Post("/bulk-delete", h.bulkDelete)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/toggle", h.toggle)
	r.Delete("/{id}", h.delete)
}

type createSubscriptionRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Cost        decimal.Decimal           `json:"cost"`
	Currency    string                    `json:"currency"`
	Cycle       subscription.BillingCycle `json:"cycle"`
	NextBilling time.Time                 `json:"next_billing"`
	Category    string                    `json:"category"`
	Color       string                    `json:"color"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.svc.Create(r.Context(), userID, subscription.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
		Currency:    req.Currency,
		Cycle:       req.Cycle,
		NextBilling: req.NextBilling,
		Category:    req.Category,
		Color:       req.Color,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(sub)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	filter := subscription.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(subscription.Status(s))
	}

	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = new(s)
	}

	subs, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(subs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	summary, err := h.svc.Summarize(r.Context(), userID, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSummaryResponse(summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sub, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(sub)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateSubscriptionRequest struct {
	Name        *string                    `json:"name,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Cost        *decimal.Decimal           `json:"cost,omitempty"`
	Currency    *string                    `json:"currency,omitempty"`
	Cycle       *subscription.BillingCycle `json:"cycle,omitempty"`
	NextBilling *time.Time                 `json:"next_billing,omitempty"`
	Category    *string                    `json:"category,omitempty"`
	Color       *string                    `json:"color,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Name != nil {
		sub.Name = *req.Name
	}

	if req.Description != nil {
		sub.Description = *req.Description
	}

	if req.Cost != nil {
		sub.Cost = *req.Cost
	}

	if req.Currency != nil {
		sub.Currency = *req.Currency
	}

	if req.Cycle != nil {
		sub.Cycle = *req.Cycle
	}

	if req.NextBilling != nil {
		sub.NextBilling = *req.NextBilling
	}

	if req.Category != nil {
		sub.Category = *req.Category
	}

	if req.Color != nil {
		sub.Color = *req.Color
	}

	if err := h.svc.Update(r.Context(), sub); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(sub)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sub, err := h.svc.ToggleStatus(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(sub)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.svc.BulkDelete(r.Context(), userID, req.IDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(bulkDeleteResponse{Deleted: deleted}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="subscriptions.csv"`)

	if err := h.exporter.CSV(r.Context(), userID, subscription.ListFilter{}, w); err != nil {
		slog.Error("failed to export subscriptions", "user", userID, "error", err)
	}
}

type importResponse struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// importCSV creates a subscription per parsed row. Rows the service rejects
// are reported back by name instead of failing the batch.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	params, err := h.importer.Import(r.Context(), importer.FormatCSV, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{}

	for _, p := range params {
		if _, err := h.svc.Create(r.Context(), userID, p); err != nil {
			slog.Warn("skipping imported subscription", "name", p.Name, "error", err)
			resp.Skipped = append(resp.Skipped, p.Name)

			continue
		}

		resp.Imported++
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
