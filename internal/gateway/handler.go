package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"organmatch/internal/assessment"
	"organmatch/internal/httpapi"
)

type Handler struct {
	tools *Invoker
}

func NewHandler(tools *Invoker) *Handler {
	return &Handler{tools: tools}
}

type CheckViabilityRequest struct {
	Organ assessment.OrganDescriptor `json:"organ"`
}

type WeatherRequest struct {
	Location string `json:"location"`
}

type FlightSearchRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date,omitempty"`
}

type MatchRequest struct {
	Donor     assessment.Donor     `json:"donor"`
	Recipient assessment.Recipient `json:"recipient"`
}

func (h *Handler) CheckViability(w http.ResponseWriter, r *http.Request) {
	var req CheckViabilityRequest
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, h.tools.CheckViability(r.Context(), req.Organ))
}

func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	req := WeatherRequest{Location: "Boston"}
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Location == "" {
		req.Location = "Boston"
	}
	httpapi.WriteJSON(w, http.StatusOK, h.tools.GetWeather(r.Context(), req.Location))
}

func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	req := FlightSearchRequest{Origin: "BOS", Destination: "LAX"}
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Origin == "" {
		req.Origin = "BOS"
	}
	if req.Destination == "" {
		req.Destination = "LAX"
	}
	httpapi.WriteJSON(w, http.StatusOK, h.tools.SearchFlights(r.Context(), req.Origin, req.Destination, req.Date))
}

func (h *Handler) MatchCompatibility(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := httpapi.DecodeJSON(w, r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, h.tools.MatchDonorRecipient(r.Context(), req.Donor, req.Recipient))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/check-viability", h.CheckViability)
	r.Post("/get-weather", h.GetWeather)
	r.Post("/search-flights", h.SearchFlights)
	r.Post("/match-compatibility", h.MatchCompatibility)
}
