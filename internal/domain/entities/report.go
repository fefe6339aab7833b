package entities

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"lat" db:"latitude"`
	Longitude float64 `json:"lng" db:"longitude"`
}

// Validate checks the coordinates are within WGS84 bounds
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return apperrors.NewValidationError(fmt.Sprintf("location.lat must be within [-90, 90], got %g", l.Latitude))
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return apperrors.NewValidationError(fmt.Sprintf("location.lng must be within [-180, 180], got %g", l.Longitude))
	}
	return nil
}

// ReportPayload is the wire shape of an emergency report, shared by the HTTP and WebSocket transports
type ReportPayload struct {
	Location     *Location              `json:"location"`
	Symptoms     []string               `json:"symptoms"`
	Vitals       map[string]interface{} `json:"vitals"`
	Age          *int                   `json:"age"`
	Description  string                 `json:"description"`
	ContactEmail string                 `json:"contact_email"`
}

// Report is a validated emergency report. It is passed by value and never mutated after NewReport.
type Report struct {
	Location     Location
	Symptoms     []string
	Vitals       map[string]interface{}
	Age          int
	Description  string
	ContactEmail string
}

// NewReport validates a payload and builds the canonical Report.
// Symptoms are lower-cased, trimmed, joined with underscores and de-duplicated.
func NewReport(p ReportPayload) (Report, error) {
	if p.Location == nil {
		return Report{}, apperrors.NewValidationError("location is required")
	}
	if err := p.Location.Validate(); err != nil {
		return Report{}, err
	}
	if p.Age == nil {
		return Report{}, apperrors.NewValidationError("age is required")
	}
	if *p.Age < 0 {
		return Report{}, apperrors.NewValidationError(fmt.Sprintf("age must be >= 0, got %d", *p.Age))
	}
	if p.Symptoms == nil {
		return Report{}, apperrors.NewValidationError("symptoms is required")
	}

	symptoms := make([]string, 0, len(p.Symptoms))
	seen := make(map[string]struct{}, len(p.Symptoms))
	for _, raw := range p.Symptoms {
		s := NormalizeSymptom(raw)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		symptoms = append(symptoms, s)
	}

	vitals := make(map[string]interface{}, len(p.Vitals))
	for k, v := range p.Vitals {
		vitals[k] = v
	}

	return Report{
		Location:     *p.Location,
		Symptoms:     symptoms,
		Vitals:       vitals,
		Age:          *p.Age,
		Description:  strings.TrimSpace(p.Description),
		ContactEmail: strings.TrimSpace(p.ContactEmail),
	}, nil
}

// NormalizeSymptom maps "Chest Pain" and " chest_pain " to "chest_pain"
func NormalizeSymptom(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), "_")
}

// HasSymptom reports whether the normalized symptom set contains symptom
func (r Report) HasSymptom(symptom string) bool {
	symptom = NormalizeSymptom(symptom)
	for _, s := range r.Symptoms {
		if s == symptom {
			return true
		}
	}
	return false
}

// HasAnySymptom reports whether any of the given symptoms is present
func (r Report) HasAnySymptom(symptoms ...string) bool {
	for _, s := range symptoms {
		if r.HasSymptom(s) {
			return true
		}
	}
	return false
}
