package entities

// RouteMetric is the travel distance and time for one origin/destination pair.
// It is computed per request and never reused.
type RouteMetric struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
}

// Candidate is a facility annotated with its route from the emergency location
type Candidate struct {
	Facility *Facility   `json:"facility"`
	Route    RouteMetric `json:"route"`
	Eligible bool        `json:"eligible"`
}
