package entities

import "time"

// DispatchState is a phase of one dispatch run
type DispatchState string

const (
	StateReceived     DispatchState = "RECEIVED"
	StateClassified   DispatchState = "CLASSIFIED"
	StateShortlisted  DispatchState = "SHORTLISTED"
	StateResolved     DispatchState = "RESOLVED"
	StateDispatched   DispatchState = "DISPATCHED"
	StateNoCandidates DispatchState = "NO_CANDIDATES"
	StateNoRoute      DispatchState = "NO_ROUTE"
	StateFailed       DispatchState = "FAILED"
)

// Terminal reports whether no further transition follows this state
func (s DispatchState) Terminal() bool {
	switch s {
	case StateDispatched, StateNoCandidates, StateNoRoute, StateFailed:
		return true
	}
	return false
}

// DecisionStatusSuccess is the status carried by every returned Decision
const DecisionStatusSuccess = "success"

// Decision is the result of a completed dispatch run
type Decision struct {
	RequestID        string         `json:"request_id"`
	Status           string         `json:"status"`
	Classification   Classification `json:"triage_result"`
	SelectedFacility Candidate      `json:"selected_facility"`
	AssignedHospital string         `json:"assigned_hospital"`
	ETAMinutes       float64        `json:"eta_minutes"`
	Shortlist        []Candidate    `json:"top_hospitals"`
	ResolvedAddress  string         `json:"detected_address"`
	CreatedAt        time.Time      `json:"created_at"`
}
