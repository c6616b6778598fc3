// Package check implements the check-execution pipeline: it binds
// one check definition to a preprocess → apply → postprocess
// stage that turns a data container into a verdict with a
// bounded, deterministic sample of failing values.
package check

import "digital.vasic.datacheck/pkg/table"

// Fn is a vectorized check function. It receives the whole
// preprocessed object (a column, a table, or a grouped view when
// grouping is configured) and returns a boolean output of
// matching shape, or a scalar.
type Fn func(obj table.Object) (Output, error)

// ElementFn is an element-wise check function. For column objects
// it receives each cell value; for table objects it receives each
// record as a table.Row.
type ElementFn func(value any) (bool, error)

// GroupByFn computes a grouped view from the object a check
// would otherwise have seen (the projected column, or the whole
// table when no column key is given).
type GroupByFn func(obj table.Object) (table.Object, error)

// GroupBy is a tagged variant describing how to partition the
// check object before evaluation: by the values of a named
// column, or by a custom grouping function.
type GroupBy struct {
	column string
	fn     GroupByFn
}

// ByColumn groups by the values of the named column.
func ByColumn(name string) GroupBy {
	return GroupBy{column: name}
}

// ByFunc groups with a custom grouping function.
func ByFunc(fn GroupByFn) GroupBy {
	return GroupBy{fn: fn}
}

// Check is the immutable configuration for one validation check.
// It is owned by the schema definition and read-only to the
// pipeline, so one Check may back many concurrent backend calls.
type Check struct {
	name          string
	errMsg        string
	fn            Fn
	elementFn     ElementFn
	elementWise   bool
	groupBy       GroupBy
	hasGroupBy    bool
	groups        []string
	ignoreNA      bool
	nFailureCases int
	statistics    map[string]any
}

// Option configures a Check at construction time.
type Option func(*Check)

// WithGroupBy partitions the check object by the given grouping
// before evaluation.
func WithGroupBy(g GroupBy) Option {
	return func(c *Check) {
		c.groupBy = g
		c.hasGroupBy = true
	}
}

// WithGroups restricts grouped evaluation to the listed group
// keys. Every listed key must exist among the computed groups.
func WithGroups(keys ...string) Option {
	return func(c *Check) {
		c.groups = keys
	}
}

// WithIgnoreNA treats rows (or cells) holding missing values as
// passing.
func WithIgnoreNA(ignore bool) Option {
	return func(c *Check) {
		c.ignoreNA = ignore
	}
}

// WithNFailureCases bounds how many failing examples are
// retained. Zero means unbounded.
func WithNFailureCases(n int) Option {
	return func(c *Check) {
		c.nFailureCases = n
	}
}

// WithError sets the human-readable message reported when the
// check fails.
func WithError(msg string) Option {
	return func(c *Check) {
		c.errMsg = msg
	}
}

// WithStatistics records the check's serializable parameters so
// declarative schemas can round-trip it.
func WithStatistics(stats map[string]any) Option {
	return func(c *Check) {
		c.statistics = stats
	}
}

// New creates a vectorized check: fn is called once with the
// whole (sub-)container.
func New(name string, fn Fn, opts ...Option) *Check {
	c := &Check{name: name, fn: fn}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

/// NewElementWise creates an element-wise check: fn is called once
// per cell (columns) or once per record (tables).
func NewElementWise(
	name string,
	fn ElementFn,
	opts ...Option,
) *Check {
	c := &Check{name: name, elementFn: fn, elementWise: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the check's identifier.
func (c *Check) Name() string {
	return c.name
}

// Error returns the failure message configured for the check.
func (c *Check) Error() string {
	return c.errMsg
}

// ElementWise reports whether the check applies per element.
func (c *Check) ElementWise() bool {
	return c.elementWise
}

// HasGroupBy reports whether grouped evaluation is configured.
func (c *Check) HasGroupBy() bool {
	return c.hasGroupBy
}

// Groups returns the configured group allow-list, or nil.
func (c *Check) Groups() []string {
	if c.groups == nil {
		return nil
	}
	keys := make([]string, len(c.groups))
	copy(keys, c.groups)
	return keys
}

// IgnoreNA reports whether missing values count as passing.
func (c *Check) IgnoreNA() bool {
	return c.ignoreNA
}

// NFailureCases returns the failure-case bound; zero means
// unbounded.
func (c *Check) NFailureCases() int {
	return c.nFailureCases
}

// Statistics returns the check's serializable parameters, or nil
// for checks that were not built from declarative parameters.
func (c *Check) Statistics() map[string]any {
	if c.statistics == nil {
		return nil
	}
	stats := make(map[string]any, len(c.statistics))
	for k, v := range c.statistics {
		stats[k] = v
	}
	return stats
}
