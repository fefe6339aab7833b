package handlers

import (
	"net/http"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

// HospitalQuery is the body of POST /api/hospitals
type HospitalQuery struct {
	Severity            string             `json:"severity"`
	Location            *entities.Location `json:"location"`
	RequiredSpecialists []string           `json:"required_specialists"`
}

// HospitalHandler exposes candidate selection on its own
type HospitalHandler struct {
	dispatcher EmergencyDispatcher
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(dispatcher EmergencyDispatcher) *HospitalHandler {
	return &HospitalHandler{dispatcher: dispatcher}
}

// FindHospitals handles POST /api/hospitals
func (h *HospitalHandler) FindHospitals(w http.ResponseWriter, r *http.Request) {
	var query HospitalQuery
	if err := decodeJSON(w, r, &query); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	severity, err := entities.ParseSeverity(query.Severity)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if query.Location == nil {
		respondWithAppError(w, r, apperrors.NewValidationError("location is required"))
		return
	}

	specialists := make([]string, 0, len(query.RequiredSpecialists))
	for _, s := range query.RequiredSpecialists {
		if normalized := entities.NormalizeSymptom(s); normalized != "" {
			specialists = append(specialists, normalized)
		}
	}

	hospitals, err := h.dispatcher.Shortlist(r.Context(), severity, *query.Location, specialists)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
	})
}
