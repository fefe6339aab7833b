package entities

// LiveStatus tags an outbound live-update frame
type LiveStatus string

const (
	LiveStatusReceived  LiveStatus = "received"
	LiveStatusPhase     LiveStatus = "phase"
	LiveStatusCompleted LiveStatus = "completed"
	LiveStatusFailed    LiveStatus = "failed"
	LiveStatusError     LiveStatus = "error"
)

// LiveMessage is one outbound frame on the live-update channel
type LiveMessage struct {
	Status      LiveStatus    `json:"status"`
	EmergencyID string        `json:"emergency_id"`
	RequestID   string        `json:"request_id,omitempty"`
	Message     string        `json:"message,omitempty"`
	Phase       DispatchState `json:"phase,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	Data        *Decision     `json:"data,omitempty"`
}
