package toolhost

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"organmatch/internal/gateway"
	"organmatch/internal/httpapi"
)

func (h *Host) Capabilities(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.Manifest())
}

// Invoke answers 400 with an error body for unknown targets and tool
// failures.
func (h *Host) Invoke(w http.ResponseWriter, r *http.Request) {
	var req gateway.ToolCallRequest
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteJSON(w, http.StatusBadRequest, gateway.ToolCallResponse{Error: "Invalid request: " + err.Error()})
		return
	}
	result, err := h.Execute(r.Context(), req.Method, req.Params)
	if err != nil {
		h.logger.Warn("tool call failed", "target", req.Method, "error", err)
		httpapi.WriteJSON(w, http.StatusBadRequest, gateway.ToolCallResponse{Error: err.Error()})
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}

func RegisterRoutes(r chi.Router, h *Host) {
	r.Get(gateway.CapabilitiesPath, h.Capabilities)
	r.Post(gateway.ExecutePath, h.Invoke)
}
