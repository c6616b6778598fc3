// Package metrics records validation job and check counters for
// observability.
package metrics

import "time"

// ValidationMetrics defines the interface for recording
// validation metrics.
type ValidationMetrics interface {
	// RecordJob records one completed validation job.
	RecordJob(schema, status string, duration time.Duration)
	// RecordCheck records one check evaluation.
	RecordCheck(schema, checkName string, passed bool)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
	// SetActiveJobs sets the gauge of in-flight jobs.
	SetActiveJobs(count int)
}

// NoopMetrics is a no-op implementation of ValidationMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordJob(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordCheck(_, _ string, _ bool)        {}
func (NoopMetrics) IncrementRunTotal()                     {}
func (NoopMetrics) SetActiveJobs(_ int)                    {}
