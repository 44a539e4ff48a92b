package catalog

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"voyage/internal/api"
)

type Handlers struct {
	Provider Provider
}

func (h Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	items, err := h.Provider.Destinations(r.Context())
	if err != nil {
		log.Printf("[catalog/handlers] list destinations: %v", err)
		api.WriteError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "catalog unavailable")
		return
	}
	if items == nil {
		items = []Destination{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	d, err := h.Provider.Destination(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "destination not found")
		return
	}
	if err != nil {
		log.Printf("[catalog/handlers] get destination %d: %v", id, err)
		api.WriteError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "catalog unavailable")
		return
	}
	api.WriteJSON(w, http.StatusOK, d)
}

// ListTours supports ?destination_id= and ?status= filters.
func (h Handlers) ListTours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var destID int
	if s := q.Get("destination_id"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid destination_id")
			return
		}
		destID = n
	}
	status := Status(q.Get("status"))
	switch status {
	case "", StatusActive, StatusInactive:
	default:
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	tours, err := h.Provider.Tours(r.Context())
	if err != nil {
		log.Printf("[catalog/handlers] list tours: %v", err)
		api.WriteError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "catalog unavailable")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": FilterTours(tours, destID, status)})
}
