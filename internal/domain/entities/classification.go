package entities

import (
	"fmt"
	"strings"

	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

// Severity is the coarse urgency tier of an emergency
type Severity string

const (
	SeverityRed    Severity = "RED"
	SeverityYellow Severity = "YELLOW"
	SeverityGreen  Severity = "GREEN"
)

// Priority returns the dispatch priority bound to the tier (1 is most urgent)
func (s Severity) Priority() int {
	switch s {
	case SeverityRed:
		return 1
	case SeverityYellow:
		return 2
	default:
		return 3
	}
}

// ParseSeverity parses a tier name case-insensitively
func ParseSeverity(raw string) (Severity, error) {
	switch Severity(strings.ToUpper(strings.TrimSpace(raw))) {
	case SeverityRed:
		return SeverityRed, nil
	case SeverityYellow:
		return SeverityYellow, nil
	case SeverityGreen:
		return SeverityGreen, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("severity must be one of RED, YELLOW, GREEN, got %q", raw))
}

// Classification is the triage outcome for a single report
type Classification struct {
	Severity            Severity `json:"severity"`
	Priority            int      `json:"priority"`
	RiskSummary         string   `json:"estimated_risk"`
	RequiredSpecialists []string `json:"recommended_specialists"`
}
