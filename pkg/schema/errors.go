package schema

import (
	"fmt"
	"strings"

	"digital.vasic.datacheck/pkg/check"
)

// Reason codes classifying schema errors.
const (
	ReasonWrongName     = "wrong_field_name"
	ReasonNotNullable   = "field_contains_nulls"
	ReasonDuplicates    = "field_contains_duplicates"
	ReasonWrongDType    = "wrong_dtype"
	ReasonCoerceFailure = "coerce_dtype_failure"
	ReasonCheckFailure  = "check_failure"
	ReasonCheckError    = "check_error"
	ReasonMissingColumn = "column_not_in_data"
	ReasonExtraColumn   = "column_not_in_schema"
)

// Error is a single schema validation error: one failed core
// check or user check, with the failing values attached.
type Error struct {
	// Schema is the name of the schema that raised the error.
	Schema string `json:"schema"`

	// Check identifies the failed check (a core check name or a
	// user check's name).
	Check string `json:"check"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// ReasonCode classifies the failure.
	ReasonCode string `json:"reason_code"`

	// FailureCases holds the offending values.
	FailureCases []check.FailureCase `json:"failure_cases,omitempty"`
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Message
}

// Errors aggregates the schema errors collected during a lazy
// validation run.
type Errors struct {
	// Schema is the name of the validated schema.
	Schema string `json:"schema"`

	// Errors holds the collected errors in occurrence order.
	Errors []*Error `json:"errors"`
}

// Error summarizes the collected errors.
func (e *Errors) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		"schema %s failed with %d errors:",
		e.Schema, len(e.Errors),
	)
	for _, err := range e.Errors {
		sb.WriteString("\n\t")
		sb.WriteString(err.ReasonCode)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *Errors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// errorHandler collects schema errors in lazy mode and fails
// fast otherwise.
type errorHandler struct {
	lazy      bool
	collected []*Error
}

// collect either stores the error (lazy) or returns it to abort
// validation immediately.
func (h *errorHandler) collect(err *Error) error {
	if !h.lazy {
		return err
	}
	h.collected = append(h.collected, err)
	return nil
}

// result returns the aggregated error, or nil when nothing was
// collected.
func (h *errorHandler) result(schemaName string) error {
	if len(h.collected) == 0 {
		return nil
	}
	return &Errors{Schema: schemaName, Errors: h.collected}
}
