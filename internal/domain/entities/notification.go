package entities

import "time"

// EmergencyAlert is the summary handed to the notifier once a facility has been assigned
type EmergencyAlert struct {
	RequestID        string    `json:"request_id"`
	Severity         Severity  `json:"severity"`
	Priority         int       `json:"priority"`
	RiskSummary      string    `json:"estimated_risk"`
	Description      string    `json:"description"`
	Address          string    `json:"address"`
	Location         Location  `json:"location"`
	ContactEmail     string    `json:"contact_email"`
	FacilityID       string    `json:"facility_id"`
	FacilityName     string    `json:"facility_name"`
	FacilityEmail    string    `json:"facility_email,omitempty"`
	FacilityWhatsApp string    `json:"facility_whatsapp,omitempty"`
	ETAMinutes       float64   `json:"eta_minutes"`
	DistanceKm       float64   `json:"distance_km"`
	IssuedAt         time.Time `json:"issued_at"`
}

// NewEmergencyAlert derives the alert from a report and its decision
func NewEmergencyAlert(report Report, decision *Decision) *EmergencyAlert {
	alert := &EmergencyAlert{
		RequestID:    decision.RequestID,
		Severity:     decision.Classification.Severity,
		Priority:     decision.Classification.Priority,
		RiskSummary:  decision.Classification.RiskSummary,
		Description:  report.Description,
		Address:      decision.ResolvedAddress,
		Location:     report.Location,
		ContactEmail: report.ContactEmail,
		ETAMinutes:   decision.ETAMinutes,
		DistanceKm:   decision.SelectedFacility.Route.DistanceKm,
		IssuedAt:     decision.CreatedAt,
	}
	if f := decision.SelectedFacility.Facility; f != nil {
		alert.FacilityID = f.ID
		alert.FacilityName = f.Name
		alert.FacilityEmail = f.Email
		alert.FacilityWhatsApp = f.WhatsAppNumber
	}
	return alert
}
