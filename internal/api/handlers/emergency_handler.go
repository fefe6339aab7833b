package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/goldenhour/internal/application/services"
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// EmergencyDispatcher runs the dispatch pipeline
type EmergencyDispatcher interface {
	Dispatch(ctx context.Context, report entities.Report, observer services.PhaseObserver) (*entities.Decision, error)
	Shortlist(ctx context.Context, severity entities.Severity, location entities.Location, requiredSpecialists []string) ([]entities.Candidate, error)
}

// EmergencyHandler handles synchronous emergency reports
type EmergencyHandler struct {
	dispatcher EmergencyDispatcher
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(dispatcher EmergencyDispatcher) *EmergencyHandler {
	return &EmergencyHandler{dispatcher: dispatcher}
}

// ReportEmergency handles POST /api/emergency
func (h *EmergencyHandler) ReportEmergency(w http.ResponseWriter, r *http.Request) {
	var payload entities.ReportPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	report, err := entities.NewReport(payload)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	decision, err := h.dispatcher.Dispatch(r.Context(), report, nil)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, decision)
}
