package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

func validPayload() ReportPayload {
	age := 64
	return ReportPayload{
		Location:     &Location{Latitude: 28.7041, Longitude: 77.1025},
		Symptoms:     []string{"Chest Pain", " fever", "chest_pain", ""},
		Vitals:       map[string]interface{}{"bp": "150/95"},
		Age:          &age,
		Description:  "  short of breath ",
		ContactEmail: "family@example.com",
	}
}

func TestNewReport_NormalizesSymptoms(t *testing.T) {
	report, err := NewReport(validPayload())
	require.NoError(t, err)

	assert.Equal(t, []string{"chest_pain", "fever"}, report.Symptoms)
	assert.Equal(t, "short of breath", report.Description)
	assert.True(t, report.HasSymptom("CHEST PAIN"))
	assert.True(t, report.HasAnySymptom("fracture", "fever"))
	assert.False(t, report.HasSymptom("fracture"))
}

func TestNewReport_CopiesVitals(t *testing.T) {
	payload := validPayload()
	report, err := NewReport(payload)
	require.NoError(t, err)

	payload.Vitals["bp"] = "90/60"
	assert.Equal(t, "150/95", report.Vitals["bp"])
}

func TestNewReport_Validation(t *testing.T) {
	negative := -1

	tests := []struct {
		name   string
		mutate func(p *ReportPayload)
	}{
		{"missing location", func(p *ReportPayload) { p.Location = nil }},
		{"latitude too high", func(p *ReportPayload) { p.Location = &Location{Latitude: 90.5, Longitude: 0} }},
		{"latitude too low", func(p *ReportPayload) { p.Location = &Location{Latitude: -91, Longitude: 0} }},
		{"longitude out of range", func(p *ReportPayload) { p.Location = &Location{Latitude: 0, Longitude: 181} }},
		{"missing age", func(p *ReportPayload) { p.Age = nil }},
		{"negative age", func(p *ReportPayload) { p.Age = &negative }},
		{"missing symptoms", func(p *ReportPayload) { p.Symptoms = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			_, err := NewReport(p)

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestLocation_BoundsAreInclusive(t *testing.T) {
	assert.NoError(t, Location{Latitude: 90, Longitude: 180}.Validate())
	assert.NoError(t, Location{Latitude: -90, Longitude: -180}.Validate())
}

func TestLocation_RejectsNonFiniteCoordinates(t *testing.T) {
	assert.Error(t, Location{Latitude: math.NaN(), Longitude: 77.2}.Validate())
	assert.Error(t, Location{Latitude: 28.6, Longitude: math.NaN()}.Validate())
	assert.Error(t, Location{Latitude: math.Inf(1), Longitude: 77.2}.Validate())
	assert.Error(t, Location{Latitude: 28.6, Longitude: math.Inf(-1)}.Validate())
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity(" yellow ")
	require.NoError(t, err)
	assert.Equal(t, SeverityYellow, sev)
	assert.Equal(t, 2, sev.Priority())

	_, err = ParseSeverity("BLUE")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestFacility_HasSpecialists(t *testing.T) {
	f := &Facility{Specialists: []string{"cardiologist", "emergency_physician"}, ICUBedsAvailable: 2, EmergencyBedsAvailable: 3}

	assert.True(t, f.HasSpecialists(nil))
	assert.True(t, f.HasSpecialists([]string{"cardiologist"}))
	assert.False(t, f.HasSpecialists([]string{"cardiologist", "trauma_surgeon"}))
	assert.Equal(t, 5, f.CombinedBeds())
}

func TestDispatchState_Terminal(t *testing.T) {
	for _, s := range []DispatchState{StateDispatched, StateNoCandidates, StateNoRoute, StateFailed} {
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []DispatchState{StateReceived, StateClassified, StateShortlisted, StateResolved} {
		assert.False(t, s.Terminal(), s)
	}
}
