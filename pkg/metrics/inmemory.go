package metrics

import (
	"sync"
	"time"
)

// InMemoryMetrics implements ValidationMetrics using counters
// and per-schema duration samples. It uses simple in-memory
// storage; real Prometheus integration is done by the host
// application using prometheus/client_golang.
type InMemoryMetrics struct {
	mu        sync.Mutex
	jobs      map[string]int
	checks    map[string]int
	durations map[string][]time.Duration
	runTotal  int
	active    int
}

// NewInMemoryMetrics creates a new InMemoryMetrics instance.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		jobs:      make(map[string]int),
		checks:    make(map[string]int),
		durations: make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) RecordJob(
	schema, status string, duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[schema+":"+status]++
	m.durations[schema] = append(m.durations[schema], duration)
}

func (m *InMemoryMetrics) RecordCheck(
	schema, checkName string, passed bool,
) {
	status := "failed"
	if passed {
		status = "passed"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[schema+":"+checkName+":"+status]++
}

func (m *InMemoryMetrics) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

func (m *InMemoryMetrics) SetActiveJobs(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// JobCount returns the count for a schema+status combination.
func (m *InMemoryMetrics) JobCount(schema, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[schema+":"+status]
}

// CheckCount returns the count for a schema+check+status
// combination.
func (m *InMemoryMetrics) CheckCount(
	schema, checkName, status string,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks[schema+":"+checkName+":"+status]
}

// RunTotal returns the total number of runs.
func (m *InMemoryMetrics) RunTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runTotal
}

// ActiveJobs returns the current in-flight jobs gauge.
func (m *InMemoryMetrics) ActiveJobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Durations returns the recorded durations for a schema.
func (m *InMemoryMetrics) Durations(schema string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.durations[schema]))
	copy(out, m.durations[schema])
	return out
}
