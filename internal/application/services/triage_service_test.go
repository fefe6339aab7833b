package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/goldenhour/internal/application/services"
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

func TestTriageService_Classify(t *testing.T) {
	tests := []struct {
		name        string
		age         int
		symptoms    []string
		severity    entities.Severity
		priority    int
		risk        string
		specialists []string
	}{
		{
			name:        "elderly chest pain is a cardiac event",
			age:         65,
			symptoms:    []string{"chest_pain"},
			severity:    entities.SeverityRed,
			priority:    1,
			risk:        "CRITICAL - Possible cardiac event",
			specialists: []string{"cardiologist", "emergency_physician"},
		},
		{
			name:        "age 60 is the cardiac threshold",
			age:         60,
			symptoms:    []string{"chest_pain"},
			severity:    entities.SeverityRed,
			priority:    1,
			risk:        "CRITICAL - Possible cardiac event",
			specialists: []string{"cardiologist", "emergency_physician"},
		},
		{
			name:        "younger chest pain falls through to default",
			age:         59,
			symptoms:    []string{"chest_pain"},
			severity:    entities.SeverityGreen,
			priority:    3,
			risk:        "Routine issue",
			specialists: []string{"general_physician"},
		},
		{
			name:        "severe bleeding is trauma",
			age:         30,
			symptoms:    []string{"severe_bleeding"},
			severity:    entities.SeverityRed,
			priority:    1,
			risk:        "CRITICAL - Trauma",
			specialists: []string{"trauma_surgeon"},
		},
		{
			name:        "fracture is trauma",
			age:         12,
			symptoms:    []string{"fracture", "fever"},
			severity:    entities.SeverityRed,
			priority:    1,
			risk:        "CRITICAL - Trauma",
			specialists: []string{"trauma_surgeon"},
		},
		{
			name:        "fever is urgent",
			age:         40,
			symptoms:    []string{"fever"},
			severity:    entities.SeverityYellow,
			priority:    2,
			risk:        "Urgent but stable",
			specialists: []string{"general_physician"},
		},
		{
			name:        "moderate pain is urgent",
			age:         40,
			symptoms:    []string{"moderate_pain"},
			severity:    entities.SeverityYellow,
			priority:    2,
			risk:        "Urgent but stable",
			specialists: []string{"general_physician"},
		},
		{
			name:        "no symptoms is routine",
			age:         25,
			symptoms:    []string{},
			severity:    entities.SeverityGreen,
			priority:    3,
			risk:        "Routine issue",
			specialists: []string{"general_physician"},
		},
		{
			name:        "unrecognized symptoms are routine",
			age:         80,
			symptoms:    []string{"headache", "cough"},
			severity:    entities.SeverityGreen,
			priority:    3,
			risk:        "Routine issue",
			specialists: []string{"general_physician"},
		},
	}

	svc := services.NewTriageService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Classify(newReport(tt.age, tt.symptoms...))

			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.priority, got.Priority)
			assert.Equal(t, tt.risk, got.RiskSummary)
			assert.Equal(t, tt.specialists, got.RequiredSpecialists)
		})
	}
}

func TestTriageService_FirstMatchWins(t *testing.T) {
	svc := services.NewTriageService()

	got := svc.Classify(newReport(65, "chest_pain", "fever"))

	assert.Equal(t, entities.SeverityRed, got.Severity)
	assert.Equal(t, 1, got.Priority)
	assert.Equal(t, []string{"cardiologist", "emergency_physician"}, got.RequiredSpecialists)
}

func TestTriageService_NormalizesSymptoms(t *testing.T) {
	svc := services.NewTriageService()

	got := svc.Classify(newReport(70, "  Chest Pain "))

	assert.Equal(t, entities.SeverityRed, got.Severity)
	assert.Equal(t, "CRITICAL - Possible cardiac event", got.RiskSummary)
}

func TestTriageService_DeterministicAndIsolated(t *testing.T) {
	svc := services.NewTriageService()
	report := newReport(45, "severe_bleeding")

	first := svc.Classify(report)
	first.RequiredSpecialists[0] = "mutated"
	second := svc.Classify(report)

	assert.Equal(t, []string{"trauma_surgeon"}, second.RequiredSpecialists)
	assert.Equal(t, first.Severity, second.Severity)
	assert.Equal(t, first.RiskSummary, second.RiskSummary)
}

func TestTriageService_PriorityMatchesSeverity(t *testing.T) {
	svc := services.NewTriageService()
	inputs := [][]string{{"chest_pain"}, {"fracture"}, {"fever"}, {"sprain"}, nil}

	for _, symptoms := range inputs {
		for _, age := range []int{0, 30, 60, 99} {
			got := svc.Classify(newReport(age, symptoms...))
			assert.Equal(t, got.Severity.Priority(), got.Priority, "symptoms=%v age=%d", symptoms, age)
		}
	}
}
