package monitor

import (
	"sync"
	"time"
)

// EventCollector captures validation events and timing data.
type EventCollector struct {
	mu       sync.RWMutex
	events   []ValidationEvent
	handlers []func(ValidationEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Errored   int           `json:"errored"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]ValidationEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(ValidationEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event ValidationEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventCompleted:
		c.stats.Total++
		c.stats.Passed++
	case EventFailed:
		c.stats.Total++
		c.stats.Failed++
	case EventErrored:
		c.stats.Total++
		c.stats.Errored++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(ValidationEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitStarted emits a job started event.
func (c *EventCollector) EmitStarted(jobID, schema string) {
	c.Emit(ValidationEvent{
		Type:   EventStarted,
		JobID:  jobID,
		Schema: schema,
	})
}

// EmitCompleted emits a job completed (passed) event.
func (c *EventCollector) EmitCompleted(
	jobID, schema string, duration time.Duration,
) {
	c.Emit(ValidationEvent{
		Type:     EventCompleted,
		JobID:    jobID,
		Schema:   schema,
		Status:   "passed",
		Duration: duration,
	})
}

// EmitFailed emits a job failed event with the number of schema
// errors found.
func (c *EventCollector) EmitFailed(
	jobID, schema string, errorCount int,
) {
	c.Emit(ValidationEvent{
		Type:       EventFailed,
		JobID:      jobID,
		Schema:     schema,
		Status:     "failed",
		ErrorCount: errorCount,
	})
}

// EmitErrored emits an event for a job that could not run to
// completion.
func (c *EventCollector) EmitErrored(
	jobID, schema, msg string,
) {
	c.Emit(ValidationEvent{
		Type:    EventErrored,
		JobID:   jobID,
		Schema:  schema,
		Status:  "error",
		Message: msg,
	})
}

// EmitCheckFailed emits an event for one failing check inside a
// job.
func (c *EventCollector) EmitCheckFailed(
	jobID, schema, checkName string,
) {
	c.Emit(ValidationEvent{
		Type:   EventCheckFailed,
		JobID:  jobID,
		Schema: schema,
		Check:  checkName,
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []ValidationEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]ValidationEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
