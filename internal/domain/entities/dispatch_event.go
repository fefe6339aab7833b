package entities

import (
	"time"

	"github.com/google/uuid"
)

// DispatchEventType represents the type of dispatch event
type DispatchEventType string

const (
	// DispatchEventTypeIncomingPatient is published to the assigned facility after DISPATCHED
	DispatchEventTypeIncomingPatient DispatchEventType = "incoming_patient"
)

// DispatchEvent notifies a facility dashboard of an assigned emergency
type DispatchEvent struct {
	ID          string            `json:"id"`
	RequestID   string            `json:"request_id"`
	FacilityID  string            `json:"facility_id"`
	EventType   DispatchEventType `json:"event_type"`
	Severity    Severity          `json:"severity"`
	Priority    int               `json:"priority"`
	RiskSummary string            `json:"estimated_risk"`
	ETAMinutes  float64           `json:"eta_minutes"`
	Location    Location          `json:"location"`
	Address     string            `json:"address"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewIncomingPatientEvent builds the event announcing a dispatched patient
func NewIncomingPatientEvent(alert *EmergencyAlert) *DispatchEvent {
	return &DispatchEvent{
		ID:          uuid.NewString(),
		RequestID:   alert.RequestID,
		FacilityID:  alert.FacilityID,
		EventType:   DispatchEventTypeIncomingPatient,
		Severity:    alert.Severity,
		Priority:    alert.Priority,
		RiskSummary: alert.RiskSummary,
		ETAMinutes:  alert.ETAMinutes,
		Location:    alert.Location,
		Address:     alert.Address,
		Timestamp:   time.Now().UTC(),
	}
}
