package handlers

import (
	"net/http"

	"github.com/zatekoja/goldenhour/internal/domain/repositories"
)

// FacilityHandler handles facility catalog HTTP requests
type FacilityHandler struct {
	facilityRepo repositories.FacilityRepository
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityRepo repositories.FacilityRepository) *FacilityHandler {
	return &FacilityHandler{
		facilityRepo: facilityRepo,
	}
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	facility, err := h.facilityRepo.GetByID(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilityRepo.ListFacilities(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}
