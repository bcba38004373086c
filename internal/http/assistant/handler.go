package assistant

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subslayer/subslayer/internal/assistant"
	"github.com/subslayer/subslayer/internal/auth"
)

type Handler struct {
	svc *assistant.Service
}

func NewHandler(svc *assistant.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/chat", h.chat)
}

type chatRequest struct {
	RunID   string `json:"runId"`
	Message string `json:"message"`
}

// chat proxies one turn to the agent and streams the reply as it arrives.
// The run id travels in a response header so the body stays raw text.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserID(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	runID, stream, err := h.svc.Chat(r.Context(), userID, req.RunID, req.Message)
	if err != nil {
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-Id", runID)

	flusher, _ := w.(http.Flusher)

	buf := make([]byte, 4096)

	for {
		n, err := stream.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}

			if flusher != nil {
				flusher.Flush()
			}
		}

		if err != nil {
			if err != io.EOF {
				slog.Warn("assistant stream interrupted", "user", userID, "error", err)
			}

			return
		}
	}
}
