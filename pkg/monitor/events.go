// Package monitor captures validation lifecycle events and
// serves them to live dashboards over WebSocket.
package monitor

import "time"

// EventType represents the type of validation event.
type EventType string

const (
	EventStarted     EventType = "started"
	EventCompleted   EventType = "completed"
	EventFailed      EventType = "failed"
	EventErrored     EventType = "errored"
	EventCheckFailed EventType = "check_failed"
)

// ValidationEvent represents a lifecycle event during
// validation job execution.
type ValidationEvent struct {
	Type       EventType     `json:"type"`
	JobID      string        `json:"job_id"`
	Schema     string        `json:"schema"`
	Status     string        `json:"status,omitempty"`
	Check      string        `json:"check,omitempty"`
	Message    string        `json:"message,omitempty"`
	ErrorCount int           `json:"error_count,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
