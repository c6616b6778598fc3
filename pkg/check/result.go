package check

import "digital.vasic.datacheck/pkg/table"

// FailureCase is one concrete value for which the check evaluated
// false. For column objects Column names the checked column and
// Value is the cell value; for per-row table failures Column is
// empty and Value holds the failing table.Row; for per-cell table
// failures all three fields are set.
type FailureCase struct {
	// Column is the column the failing value came from, when the
	// failure is attributable to one column.
	Column string `json:"column,omitempty"`

	// Index is the failing row's index label.
	Index any `json:"index"`

	// Value is the failing value (or row).
	Value any `json:"failure_case"`
}

// Result is the normalized verdict for one check invocation. It
// is created fresh per invocation and never mutated afterward.
type Result struct {
	// Output is the raw per-element boolean signal, matching the
	// shape of the checked object.
	Output Output `json:"check_output"`

	// Passed is the AND-reduction of Output.
	Passed bool `json:"check_passed"`

	// CheckedObject is the object actually evaluated, after
	// preprocessing.
	CheckedObject table.Object `json:"-"`

	// FailureCases is a bounded sample of the failing values.
	// Nil when the check passed or the output carries no
	// element-level signal.
	FailureCases []FailureCase `json:"failure_cases,omitempty"`
}
