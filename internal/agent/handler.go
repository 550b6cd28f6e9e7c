package agent

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"organmatch/internal/httpapi"
)

type Handler struct {
	invoker *Invoker
}

func NewHandler(invoker *Invoker) *Handler {
	return &Handler{invoker: invoker}
}

type ChatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// Chat relays a free-form coordinator question. Backend failures are
// reported in the body with success=false rather than as an HTTP error.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	var promptContext any
	if len(req.Context) > 0 {
		promptContext = req.Context
	}
	httpapi.WriteJSON(w, http.StatusOK, h.invoker.Invoke(r.Context(), req.Message, promptContext))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/agent-chat", h.Chat)
}
