package schema

import (
	"fmt"

	"digital.vasic.datacheck/pkg/check"
	"digital.vasic.datacheck/pkg/table"
)

// Table is the declarative schema for a whole table: an ordered
// set of fields plus checks that run against the table as a
// unit.
type Table struct {
	// Name identifies the schema in errors and reports.
	Name string `json:"name"`

	// Fields describe the expected columns in order.
	Fields []*Field `json:"fields"`

	// Strict rejects columns that no field describes.
	Strict bool `json:"strict"`

	// Checks are the table-level checks.
	Checks []*check.Check `json:"-"`

	// Title is a human-readable label.
	Title string `json:"title,omitempty"`

	// Description explains what the table holds.
	Description string `json:"description,omitempty"`
}

// Field returns the field with the given name.
func (s *Table) Field(name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Validate checks a table against the schema and returns the
// validated (possibly coerced) table. In lazy mode all errors
// are aggregated into *Errors; otherwise the first error aborts
// validation.
func (s *Table) Validate(
	data *table.Table,
	opts ...ValidateOption,
) (*table.Table, error) {
	cfg := resolveOptions(opts)
	h := &errorHandler{lazy: cfg.lazy}

	present := make(map[string]bool, data.NumColumns())
	for _, name := range data.Columns() {
		present[name] = true
	}

	for _, f := range s.Fields {
		if f.Optional || present[f.Name] {
			continue
		}
		err := h.collect(&Error{
			Schema: s.Name,
			Check:  fmt.Sprintf("column_in_table(%q)", f.Name),
			Message: fmt.Sprintf(
				"column %q not in table", f.Name,
			),
			ReasonCode:   ReasonMissingColumn,
			FailureCases: scalarFailureCase(f.Name),
		})
		if err != nil {
			return nil, err
		}
	}

	if s.Strict {
		for _, name := range data.Columns() {
			if _, ok := s.Field(name); ok {
				continue
			}
			err := h.collect(&Error{
				Schema: s.Name,
				Check:  "column_in_schema",
				Message: fmt.Sprintf(
					"column %q not in schema %q", name, s.Name,
				),
				ReasonCode:   ReasonExtraColumn,
				FailureCases: scalarFailureCase(name),
			})
			if err != nil {
				return nil, err
			}
		}
	}

	validated, err := s.validateFields(data, cfg, h)
	if err != nil {
		return nil, err
	}

	tableSample := subsampleTable(validated, cfg)
	for _, c := range s.Checks {
		if schemaErr := s.runTableCheck(c, tableSample); schemaErr != nil {
			if err := h.collect(schemaErr); err != nil {
				return nil, err
			}
		}
	}

	if err := h.result(s.Name); err != nil {
		return nil, err
	}
	return validated, nil
}

// validateFields runs each present field against its column and
// rebuilds the table with the coerced columns.
func (s *Table) validateFields(
	data *table.Table,
	cfg validateConfig,
	h *errorHandler,
) (*table.Table, error) {
	names := data.Columns()
	byName := make(map[string]*table.Column, len(names))
	for _, name := range names {
		col, _ := data.Column(name)
		byName[name] = col
	}

	for _, f := range s.Fields {
		col, ok := byName[f.Name]
		if !ok {
			continue
		}
		validated, err := f.validate(col, data, cfg)
		if err != nil {
			if agg, ok := err.(*Errors); ok && cfg.lazy {
				h.collected = append(h.collected, agg.Errors...)
				continue
			}
			return nil, err
		}
		byName[f.Name] = validated
	}

	rebuilt := make([]*table.Column, len(names))
	for i, name := range names {
		rebuilt[i] = byName[name]
	}
	return table.NewTable(rebuilt...)
}

// runTableCheck executes one table-level check, converting
// backend errors and predicate panics into schema errors.
func (s *Table) runTableCheck(
	c *check.Check,
	data *table.Table,
) *Error {
	res, err := s.applyTableCheck(c, data)
	if err != nil {
		return &Error{
			Schema: s.Name,
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
		Schema: s.Name,
		Check:  c.Name(),
		Message: fmt.Sprintf(
			"table %q failed check: %s", s.Name, msg,
		),
		ReasonCode:   ReasonCheckFailure,
		FailureCases: res.FailureCases,
	}
}

func (s *Table) applyTableCheck(
	c *check.Check,
	data *table.Table,
) (res *check.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	return check.NewBackend(c).Run(data, "")
}
