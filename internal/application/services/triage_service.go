package services

import (
	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// triageRule is one row of the ordered classification table
type triageRule struct {
	matches     func(entities.Report) bool
	severity    entities.Severity
	risk        string
	specialists []string
}

// triageRules are evaluated top to bottom and the first match wins.
// Rules overlap, so their order is part of the contract.
var triageRules = []triageRule{
	{
		matches: func(r entities.Report) bool {
			return r.HasSymptom("chest_pain") && r.Age >= 60
		},
		severity:    entities.SeverityRed,
		risk:        "CRITICAL - Possible cardiac event",
		specialists: []string{"cardiologist", "emergency_physician"},
	},
	{
		matches: func(r entities.Report) bool {
			return r.HasAnySymptom("severe_bleeding", "fracture")
		},
		severity:    entities.SeverityRed,
		risk:        "CRITICAL - Trauma",
		specialists: []string{"trauma_surgeon"},
	},
	{
		matches: func(r entities.Report) bool {
			return r.HasAnySymptom("fever", "moderate_pain")
		},
		severity:    entities.SeverityYellow,
		risk:        "Urgent but stable",
		specialists: []string{"general_physician"},
	},
}

var defaultTriage = triageRule{
	severity:    entities.SeverityGreen,
	risk:        "Routine issue",
	specialists: []string{"general_physician"},
}

// TriageService classifies emergency reports
type TriageService struct{}

// NewTriageService creates a new triage service
func NewTriageService() *TriageService {
	return &TriageService{}
}

// Classify maps a report to exactly one severity tier. It has no failure path.
func (s *TriageService) Classify(report entities.Report) entities.Classification {
	rule := defaultTriage
	for _, r := range triageRules {
		if r.matches(report) {
			rule = r
			break
		}
	}

	return entities.Classification{
		Severity:            rule.severity,
		Priority:            rule.severity.Priority(),
		RiskSummary:         rule.risk,
		RequiredSpecialists: append([]string(nil), rule.specialists...),
	}
}
