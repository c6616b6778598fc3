// Package runner provides the validation execution engine. It
// supports single, sequential, and parallel execution modes
// with configurable timeouts and lifecycle hooks.
package runner

import (
	"context"
	"fmt"
	"time"

	"digital.vasic.datacheck/pkg/logging"
	"digital.vasic.datacheck/pkg/metrics"
	"digital.vasic.datacheck/pkg/monitor"
	"digital.vasic.datacheck/pkg/schema"
	"digital.vasic.datacheck/pkg/table"
)

// Status is the terminal state of a validation job.
type Status string

const (
	// StatusPassed means the data satisfied the schema.
	StatusPassed Status = "passed"
	// StatusFailed means the data violated the schema.
	StatusFailed Status = "failed"
	// StatusError means the job could not run to completion.
	StatusError Status = "error"
)

// Job pairs a schema with the data it validates.
type Job struct {
	// ID identifies the job in results, logs, and events.
	ID string `json:"id"`

	// Schema is the table schema to validate against.
	Schema *schema.Table `json:"-"`

	// Data is the table under validation.
	Data *table.Table `json:"-"`

	// Options configure the validation run (lazy mode,
	// subsampling).
	Options []schema.ValidateOption `json:"-"`

	// Timeout overrides the runner default when non-zero.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Result captures the outcome of one validation job.
type Result struct {
	JobID     string          `json:"job_id"`
	Schema    string          `json:"schema"`
	Status    Status          `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Duration  time.Duration   `json:"duration"`
	Errors    []*schema.Error `json:"errors,omitempty"`
	Error     string          `json:"error,omitempty"`

	// Validated holds the coerced output table when the job
	// passed.
	Validated *table.Table `json:"-"`
}

// Runner defines the interface for validation job execution.
type Runner interface {
	// Run executes a single validation job.
	Run(ctx context.Context, job Job) (*Result, error)

	// RunAll executes jobs sequentially in order.
	RunAll(ctx context.Context, jobs []Job) ([]*Result, error)

	// RunParallel executes jobs concurrently with the given
	// concurrency limit.
	RunParallel(
		ctx context.Context,
		jobs []Job,
		maxConcurrency int,
	) ([]*Result, error)
}

// Hook is a function invoked before or after job execution.
type Hook func(ctx context.Context, job Job) error

// DefaultRunner is the standard Runner implementation.
type DefaultRunner struct {
	logger    logging.Logger
	metrics   metrics.ValidationMetrics
	collector *monitor.EventCollector
	timeout   time.Duration
	preHooks  []Hook
	postHooks []Hook
}

// NewRunner creates a DefaultRunner with the supplied options.
func NewRunner(opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
		timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single validation job.
func (r *DefaultRunner) Run(
	ctx context.Context,
	job Job,
) (*Result, error) {
	if job.Schema == nil {
		return nil, fmt.Errorf("job %s has no schema", job.ID)
	}
	if job.Data == nil {
		return nil, fmt.Errorf("job %s has no data", job.ID)
	}
	return r.executeJob(ctx, job), nil
}

// RunAll executes jobs sequentially, stopping early only when
// the context is canceled.
func (r *DefaultRunner) RunAll(
	ctx context.Context,
	jobs []Job,
) ([]*Result, error) {
	results := make([]*Result, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := r.Run(ctx, job)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// RunParallel executes the given jobs concurrently using at
// most maxConcurrency goroutines. It delegates to the parallel
// runner implementation.
func (r *DefaultRunner) RunParallel(
	ctx context.Context,
	jobs []Job,
	maxConcurrency int,
) ([]*Result, error) {
	return runParallel(ctx, r, jobs, maxConcurrency)
}

// executeJob runs a single job through its full lifecycle:
// pre-hooks -> validate with timeout -> classify outcome ->
// post-hooks -> record metrics and events.
func (r *DefaultRunner) executeJob(
	ctx context.Context,
	job Job,
) *Result {
	result := &Result{
		JobID:     job.ID,
		Schema:    job.Schema.Name,
		StartTime: time.Now(),
	}

	r.metrics.IncrementRunTotal()
	if r.collector != nil {
		r.collector.EmitStarted(job.ID, job.Schema.Name)
	}
	r.logger.Debug("job started",
		logging.StringField("job_id", job.ID),
		logging.StringField("schema", job.Schema.Name),
	)

	for _, hook := range r.preHooks {
		if err := hook(ctx, job); err != nil {
			return r.finish(job, result, fmt.Errorf(
				"pre-hook failed: %w", err,
			))
		}
	}

	timeout := job.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	validated, err := r.validate(execCtx, job)

	for _, hook := range r.postHooks {
		if hookErr := hook(ctx, job); hookErr != nil {
			r.logger.Warn("post-hook failed",
				logging.StringField("job_id", job.ID),
				logging.ErrorField(hookErr),
			)
		}
	}

	result.Validated = validated
	return r.finish(job, result, err)
}

// validate runs schema validation in a goroutine so the hard
// timeout holds even when a check predicate does not return.
func (r *DefaultRunner) validate(
	ctx context.Context,
	job Job,
) (*table.Table, error) {
	type outcome struct {
		validated *table.Table
		err       error
	}
	done := make(chan outcome, 1)

	go func() {
		validated, err := job.Schema.Validate(
			job.Data, job.Options...,
		)
		done <- outcome{validated: validated, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf(
			"validation aborted: %w", ctx.Err(),
		)
	case out := <-done:
		return out.validated, out.err
	}
}

// finish classifies the outcome, stamps timing, and records the
// job in metrics, events, and the audit log.
func (r *DefaultRunner) finish(
	job Job,
	result *Result,
	err error,
) *Result {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	switch {
	case err == nil:
		result.Status = StatusPassed
	case isSchemaFailure(err):
		result.Status = StatusFailed
		result.Errors = schemaErrors(err)
		result.Error = err.Error()
	default:
		result.Status = StatusError
		result.Error = err.Error()
	}

	r.metrics.RecordJob(
		job.Schema.Name, string(result.Status), result.Duration,
	)
	for _, e := range result.Errors {
		if e.ReasonCode == schema.ReasonCheckFailure {
			r.metrics.RecordCheck(
				job.Schema.Name, e.Check, false,
			)
			if r.collector != nil {
				r.collector.EmitCheckFailed(
					job.ID, job.Schema.Name, e.Check,
				)
			}
		}
	}

	if r.collector != nil {
		switch result.Status {
		case StatusPassed:
			r.collector.EmitCompleted(
				job.ID, job.Schema.Name, result.Duration,
			)
		case StatusFailed:
			r.collector.EmitFailed(
				job.ID, job.Schema.Name, len(result.Errors),
			)
		case StatusError:
			r.collector.EmitErrored(
				job.ID, job.Schema.Name, result.Error,
			)
		}
	}

	r.logger.LogValidation(logging.ValidationLog{
		Timestamp:  result.EndTime.Format(time.RFC3339Nano),
		JobID:      job.ID,
		Schema:     job.Schema.Name,
		Rows:       job.Data.Len(),
		Columns:    job.Data.NumColumns(),
		Passed:     result.Status == StatusPassed,
		ErrorCount: len(result.Errors),
		DurationMs: result.Duration.Milliseconds(),
	})

	return result
}

// isSchemaFailure reports whether err describes data violating
// the schema, as opposed to the job failing to run.
func isSchemaFailure(err error) bool {
	switch err.(type) {
	case *schema.Error, *schema.Errors:
		return true
	}
	return false
}

// schemaErrors flattens a validation error into its individual
// schema errors.
func schemaErrors(err error) []*schema.Error {
	switch e := err.(type) {
	case *schema.Error:
		return []*schema.Error{e}
	case *schema.Errors:
		return e.Errors
	}
	return nil
}
