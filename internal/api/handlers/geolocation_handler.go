package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=...&lng=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lngStr := strings.TrimSpace(r.URL.Query().Get("lng"))
	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lng parameter")
		return
	}
	if err := (entities.Location{Latitude: lat, Longitude: lng}).Validate(); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	address, err := h.provider.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("reverse geocode failed")
		if _, ok := apperrors.AsAppError(err); ok {
			respondWithAppError(w, r, err)
			return
		}
		respondWithError(w, http.StatusBadGateway, "failed to reverse geocode")
		return
	}

	respondWithJSON(w, http.StatusOK, address)
}
