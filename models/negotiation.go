package models

import "time"

// Agent identifies which actor performed an action on an appointment. These
// are cosmetic labels on log entries, not separate runtime components.
type Agent string

const (
	AgentScheduler Agent = "SchedulerAgent"
	AgentProvider  Agent = "ProviderAgent"
	AgentUser      Agent = "UserAgent"
)

// NegotiationLogEntry is an immutable audit record attached to an appointment.
// Entries are only ever appended, in the order their transitions committed.
type NegotiationLogEntry struct {
	Agent     Agent          `bson:"agent" json:"agent"`
	Action    string         `bson:"action" json:"action"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Details   map[string]any `bson:"details,omitempty" json:"details,omitempty"`
}
