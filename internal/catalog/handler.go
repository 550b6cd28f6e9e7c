package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"organmatch/internal/httpapi"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Organs(w http.ResponseWriter, r *http.Request) {
	organs, err := h.service.Organs(r.Context())
	respond(w, organs, err)
}

func (h *Handler) Recipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.service.Recipients(r.Context())
	respond(w, recipients, err)
}

func (h *Handler) Hospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.service.Hospitals(r.Context())
	respond(w, hospitals, err)
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context())
	respond(w, cities, err)
}

func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		httpapi.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/organs", h.Organs)
	r.Get("/recipients", h.Recipients)
	r.Get("/hospitals", h.Hospitals)
	r.Get("/cities", h.Cities)
}
