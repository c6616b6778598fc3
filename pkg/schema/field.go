package schema

import (
	"fmt"

	"digital.vasic.datacheck/pkg/check"
	"digital.vasic.datacheck/pkg/table"
)

// Field is the declarative schema for one column: its data type,
// core constraints, and user checks.
type Field struct {
	// Name is the expected column name.
	Name string `json:"name"`

	// DType is the declared data type.
	DType DType `json:"dtype"`

	// Nullable permits missing values.
	Nullable bool `json:"nullable"`

	// Unique forbids duplicate values.
	Unique bool `json:"unique"`

	// Coerce converts values to DType before checking.
	Coerce bool `json:"coerce"`

	// Optional permits the column to be absent from a table.
	Optional bool `json:"optional"`

	// Title is a human-readable label.
	Title string `json:"title,omitempty"`

	// Description explains what the field holds.
	Description string `json:"description,omitempty"`

	// Checks are the user checks run against the column.
	Checks []*check.Check `json:"-"`
}

// Validate runs the field's core checks and user checks against
// a standalone column and returns the (possibly coerced) column.
// In lazy mode all errors are aggregated into *Errors; otherwise
// the first error aborts validation.
func (f *Field) Validate(
	col *table.Column,
	opts ...ValidateOption,
) (*table.Column, error) {
	return f.validate(col, nil, resolveOptions(opts))
}

// validate is the shared implementation; parent supplies table
// context for grouped checks when the field is validated as part
// of a table schema.
func (f *Field) validate(
	col *table.Column,
	parent *table.Table,
	cfg validateConfig,
) (*table.Column, error) {
	h := &errorHandler{lazy: cfg.lazy}

	out := col
	if !cfg.inPlace {
		out = col.Copy()
	}

	if f.Name != "" && out.Name != f.Name {
		err := h.collect(&Error{
			Schema: f.Name,
			Check:  fmt.Sprintf("field_name(%q)", f.Name),
			Message: fmt.Sprintf(
				"expected column named %q, found %q",
				f.Name, out.Name,
			),
			ReasonCode:   ReasonWrongName,
			FailureCases: scalarFailureCase(out.Name),
		})
		if err != nil {
			return nil, err
		}
	}

	if f.Coerce && f.DType != DTypeAny {
		if schemaErr := f.coerceValues(out); schemaErr != nil {
			if err := h.collect(schemaErr); err != nil {
				return nil, err
			}
		}
	}

	sub := subsampleColumn(out, cfg)

	for _, core := range []func(*table.Column) *Error{
		f.checkNullable,
		f.checkUnique,
		f.checkDType,
	} {
		if schemaErr := core(sub); schemaErr != nil {
			if err := h.collect(schemaErr); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range f.Checks {
		if schemaErr := f.runUserCheck(c, sub, parent); schemaErr != nil {
			if err := h.collect(schemaErr); err != nil {
				return nil, err
			}
		}
	}

	if err := h.result(f.Name); err != nil {
		return nil, err
	}
	return out, nil
}

// coerceValues converts every value to the field's dtype in
// place, reporting the uncoercible values.
func (f *Field) coerceValues(col *table.Column) *Error {
	var failures []check.FailureCase
	for i, v := range col.Values {
		coerced, err := f.DType.Coerce(v)
		if err != nil {
			failures = append(failures, check.FailureCase{
				Column: col.Name,
				Index:  col.Index[i],
				Value:  v,
			})
			continue
		}
		col.Values[i] = coerced
	}

	if len(failures) == 0 {
		return nil
	}
	return &Error{
		Schema: f.Name,
		Check:  fmt.Sprintf("coerce_dtype(%q)", f.DType),
		Message: fmt.Sprintf(
			"error coercing field %q to type %s: %d values failed",
			f.Name, f.DType, len(failures),
		),
		ReasonCode:   ReasonCoerceFailure,
		FailureCases: failures,
	}
}

func (f *Field) checkNullable(col *table.Column) *Error {
	if f.Nullable {
		return nil
	}

	var failures []check.FailureCase
	for i := range col.Values {
		if col.IsNA(i) {
			failures = append(failures, check.FailureCase{
				Column: col.Name,
				Index:  col.Index[i],
				Value:  col.Values[i],
			})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &Error{
		Schema: f.Name,
		Check:  "not_nullable",
		Message: fmt.Sprintf(
			"non-nullable field %q contains missing values",
			f.Name,
		),
		ReasonCode:   ReasonNotNullable,
		FailureCases: failures,
	}
}

func (f *Field) checkUnique(col *table.Column) *Error {
	if !f.Unique {
		return nil
	}

	seen := make(map[string]struct{}, col.Len())
	var failures []check.FailureCase
	for i, v := range col.Values {
		key := table.FormatValue(v)
		if _, dup := seen[key]; dup {
			failures = append(failures, check.FailureCase{
				Column: col.Name,
				Index:  col.Index[i],
				Value:  v,
			})
			continue
		}
		seen[key] = struct{}{}
	}
	if len(failures) == 0 {
		return nil
	}
	return &Error{
		Schema: f.Name,
		Check:  "field_uniqueness",
		Message: fmt.Sprintf(
			"field %q contains duplicate values", f.Name,
		),
		ReasonCode:   ReasonDuplicates,
		FailureCases: failures,
	}
}

func (f *Field) checkDType(col *table.Column) *Error {
	if f.DType == DTypeAny {
		return nil
	}

	var failures []check.FailureCase
	for i, v := range col.Values {
		if !f.DType.Check(v) {
			failures = append(failures, check.FailureCase{
				Column: col.Name,
				Index:  col.Index[i],
				Value:  v,
			})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &Error{
		Schema: f.Name,
		Check:  fmt.Sprintf("dtype(%q)", f.DType),
		Message: fmt.Sprintf(
			"expected field %q to have type %s", f.Name, f.DType,
		),
		ReasonCode:   ReasonWrongDType,
		FailureCases: failures,
	}
}

// runUserCheck executes one user check through the check
// backend. The backend propagates predicate errors unmodified;
// this layer is where they (and predicate panics) are converted
// into schema errors so one broken check cannot take down a lazy
// validation run.
func (f *Field) runUserCheck(
	c *check.Check,
	col *table.Column,
	parent *table.Table,
) *Error {
	res, err := f.applyCheck(c, col, parent)
	if err != nil {
		return &Error{
			Schema: f.Name,
			Check:  c.Name(),
			Message: fmt.Sprintf(
				"error executing check %q: %v", c.Name(), err,
			),
			ReasonCode:   ReasonCheckError,
			FailureCases: scalarFailureCase(err.Error()),
		}
	}

	if res.Passed {
		return nil
	}

	msg := c.Error()
	if msg == "" {
		msg = fmt.Sprintf("check %q failed", c.Name())
	}
	return &Error{
		Schema: f.Name,
		Check:  c.Name(),
		Message: fmt.Sprintf(
			"field %q failed check: %s", f.Name, msg,
		),
		ReasonCode:   ReasonCheckFailure,
		FailureCases: res.FailureCases,
	}
}

// applyCheck runs the backend, recovering predicate panics into
// errors. Grouped checks need the parent table for context.
func (f *Field) applyCheck(
	c *check.Check,
	col *table.Column,
	parent *table.Table,
) (res *check.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()

	backend := check.NewBackend(c)
	if c.HasGroupBy() {
		if parent == nil {
			return nil, fmt.Errorf(
				"check groups by a column and requires table context",
			)
		}
		return backend.Run(parent, f.Name)
	}
	return backend.Run(col, "")
}

// scalarFailureCase wraps a single offending value the way
// element-level failures are reported.
func scalarFailureCase(v any) []check.FailureCase {
	return []check.FailureCase{{Index: 0, Value: v}}
}
