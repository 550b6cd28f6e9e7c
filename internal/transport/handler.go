package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"organmatch/internal/httpapi"
)

// Reporter renders a decision as a PDF document and hands it to any
// configured delivery channel.
type Reporter interface {
	Generate(ctx context.Context, d Decision) ([]byte, error)
}

type Handler struct {
	decisions *Service
	planner   *Planner
	reports   Reporter
	logger    *slog.Logger
}

func NewHandler(decisions *Service, planner *Planner, reports Reporter, logger *slog.Logger) *Handler {
	return &Handler{decisions: decisions, planner: planner, reports: reports, logger: logger}
}

type PlanRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Decide always answers 200. An undecodable body is decided as an empty
// request by the rule engine's defaults.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		h.logger.Warn("transport decision request not decodable", "error", err)
		req = Request{}
	}
	httpapi.WriteJSON(w, http.StatusOK, h.decisions.Decide(r.Context(), req))
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if h.reports == nil {
		httpapi.WriteError(w, http.StatusInternalServerError, "report rendering not configured")
		return
	}
	decision := h.decisions.Decide(r.Context(), req)
	pdf, err := h.reports.Generate(r.Context(), decision)
	if err != nil {
		h.logger.Error("render decision report", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="transport-decision.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) decodePlan(w http.ResponseWriter, r *http.Request) (PlanRequest, bool) {
	req := PlanRequest{Origin: "SFO", Destination: "BOS"}
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return req, false
	}
	if req.Origin == "" {
		req.Origin = "SFO"
	}
	if req.Destination == "" {
		req.Destination = "BOS"
	}
	return req, true
}

func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlan(w, r)
	if !ok {
		return
	}
	plan, err := h.planner.Plan(r.Context(), req.Origin, req.Destination)
	if err != nil {
		h.logger.Error("build transport plan", "origin", req.Origin, "destination", req.Destination, "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, plan)
}

func (h *Handler) DynamicPlan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlan(w, r)
	if !ok {
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, h.planner.DynamicPlan(r.Context(), req.Origin, req.Destination))
}

// RegisterRoutes mounts the transport routes. The decision route always
// answers 200 with a decision, so limit only wraps the remaining routes.
func RegisterRoutes(r chi.Router, h *Handler, limit ...func(http.Handler) http.Handler) {
	r.Post("/agent-transport-decision", h.Decide)
	r.Group(func(r chi.Router) {
		r.Use(limit...)
		r.Post("/transport-decision/report", h.Report)
		r.Post("/transport-plan", h.Plan)
		r.Post("/transport-plan-dynamic", h.DynamicPlan)
	})
}
