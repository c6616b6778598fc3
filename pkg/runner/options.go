package runner

import (
	"fmt"
	"time"

	"digital.vasic.datacheck/pkg/env"
	"digital.vasic.datacheck/pkg/logging"
	"digital.vasic.datacheck/pkg/metrics"
	"digital.vasic.datacheck/pkg/monitor"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink used by the runner.
func WithMetrics(m metrics.ValidationMetrics) RunnerOption {
	return func(r *DefaultRunner) {
		r.metrics = m
	}
}

// WithCollector sets the event collector notified of job
// lifecycle events.
func WithCollector(c *monitor.EventCollector) RunnerOption {
	return func(r *DefaultRunner) {
		r.collector = c
	}
}

// WithTimeout sets the default execution timeout for jobs that
// do not specify their own.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *DefaultRunner) {
		r.timeout = timeout
	}
}

// WithPreHook adds a pre-execution hook to the runner.
func WithPreHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// NewFromEnv builds a runner configured from the environment:
// the job timeout comes from DATACHECK_TIMEOUT and structured
// logging is written under DATACHECK_LOGS_DIR. Additional
// options are applied on top and may override the environment.
func NewFromEnv(
	loader env.Loader, opts ...RunnerOption,
) (*DefaultRunner, error) {
	cfg := env.LoadConfig(loader)
	logger, err := logging.SetupLogging(cfg.LogsDir, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	base := []RunnerOption{
		WithLogger(logger),
		WithTimeout(cfg.Timeout),
	}
	return NewRunner(append(base, opts...)...), nil
}

// WithPostHook adds a post-execution hook to the runner.
func WithPostHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}
