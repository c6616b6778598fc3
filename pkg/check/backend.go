package check

import (
	"fmt"
	"sort"

	"digital.vasic.datacheck/pkg/table"
)

// Backend binds one check definition to an executable
// preprocess → apply → postprocess stage. A backend holds only an
// immutable reference to its check, so it is reentrant: the same
// instance may run many times against different objects, and
// concurrent runs are safe as long as the containers themselves
// are not mutated.
type Backend struct {
	check *Check
}

// NewBackend creates a backend bound to the given check.
func NewBackend(c *Check) *Backend {
	return &Backend{check: c}
}

// Check returns the bound check definition.
func (b *Backend) Check() *Check {
	return b.check
}

// Run executes the full pipeline against a check object. key
// selects one column when obj is a table; the empty string means
// the whole object is checked.
func (b *Backend) Run(
	obj table.Object,
	key string,
) (*Result, error) {
	pre, err := b.Preprocess(obj, key)
	if err != nil {
		return nil, err
	}
	out, err := b.Apply(pre)
	if err != nil {
		return nil, err
	}
	return b.Postprocess(pre, out)
}

// Preprocess transforms the raw check object into the shape the
// check function was written against: the object itself, a
// projected column, or a grouped view when grouping is
// configured.
func (b *Backend) Preprocess(
	obj table.Object,
	key string,
) (table.Object, error) {
	switch o := obj.(type) {
	case *table.Column:
		if key != "" {
			return nil, fmt.Errorf(
				"column objects take no column key, got %q", key,
			)
		}
		// Grouping a bare column by its own index is not
		// supported; the column passes through unchanged.
		return o, nil

	case *table.Table:
		if key != "" {
			col, ok := o.Column(key)
			if !ok {
				return nil, fmt.Errorf(
					"column %q not found, available columns: %v",
					key, o.Columns(),
				)
			}
			if !b.check.hasGroupBy {
				return col, nil
			}
			grouped, err := b.groupColumn(o, col, key)
			if err != nil {
				return nil, err
			}
			return b.filterGroups(grouped)
		}

		if !b.check.hasGroupBy {
			return o, nil
		}
		grouped, err := b.groupTable(o)
		if err != nil {
			return nil, err
		}
		return b.filterGroups(grouped)

	default:
		return nil, fmt.Errorf(
			"unsupported check object type %T", obj,
		)
	}
}

// groupColumn computes the grouped view for a projected column.
// A named grouping partitions the parent table's rows and then
// projects the key column per group; a grouping function receives
// the projected column directly.
func (b *Backend) groupColumn(
	tbl *table.Table,
	col *table.Column,
	key string,
) (table.Object, error) {
	g := b.check.groupBy
	if g.fn != nil {
		obj, err := g.fn(col)
		if err != nil {
			return nil, err
		}
		if _, ok := obj.(*table.GroupedColumns); !ok {
			return nil, fmt.Errorf(
				"groupby function returned %T, want *table.GroupedColumns",
				obj,
			)
		}
		return obj, nil
	}

	grouped, err := table.GroupTableByColumn(tbl, g.column)
	if err != nil {
		return nil, err
	}
	return grouped.ProjectColumn(key)
}

// groupTable computes the grouped view for a whole table.
func (b *Backend) groupTable(
	tbl *table.Table,
) (table.Object, error) {
	g := b.check.groupBy
	if g.fn != nil {
		obj, err := g.fn(tbl)
		if err != nil {
			return nil, err
		}
		if _, ok := obj.(*table.GroupedTables); !ok {
			return nil, fmt.Errorf(
				"groupby function returned %T, want *table.GroupedTables",
				obj,
			)
		}
		return obj, nil
	}
	return table.GroupTableByColumn(tbl, g.column)
}

// filterGroups restricts a grouped view to the check's group
// allow-list. Every requested key must exist among the computed
// groups; missing keys abort with a GroupKeyError before the
// check function runs.
func (b *Backend) filterGroups(
	obj table.Object,
) (table.Object, error) {
	if b.check.groups == nil {
		return obj, nil
	}

	switch g := obj.(type) {
	case *table.GroupedColumns:
		if err := validateGroupKeys(
			b.check.groups, g.Keys(),
		); err != nil {
			return nil, err
		}
		filtered := make(
			map[string]*table.Column, len(b.check.groups),
		)
		for _, key := range b.check.groups {
			col, _ := g.Group(key)
			filtered[key] = col
		}
		return table.NewGroupedColumns(filtered), nil

	case *table.GroupedTables:
		if err := validateGroupKeys(
			b.check.groups, g.Keys(),
		); err != nil {
			return nil, err
		}
		filtered := make(
			map[string]*table.Table, len(b.check.groups),
		)
		for _, key := range b.check.groups {
			sub, _ := g.Group(key)
			filtered[key] = sub
		}
		return table.NewGroupedTables(filtered), nil

	default:
		return nil, fmt.Errorf(
			"groups allow-list requires a grouped object, got %T",
			obj,
		)
	}
}

// validateGroupKeys checks every requested key against the
// computed key set.
func validateGroupKeys(requested, computed []string) error {
	valid := make(map[string]struct{}, len(computed))
	for _, k := range computed {
		valid[k] = struct{}{}
	}

	var invalid []string
	for _, k := range requested {
		if _, ok := valid[k]; !ok {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		return &GroupKeyError{Invalid: invalid, Valid: computed}
	}
	return nil
}

// Apply executes the check function against the preprocessed
// object. Vectorized checks receive the object whole (including
// grouped views); element-wise checks run once per cell or
// record, per group when the object is grouped.
func (b *Backend) Apply(obj table.Object) (Output, error) {
	if !b.check.elementWise {
		return b.check.fn(obj)
	}

	switch o := obj.(type) {
	case *table.Column:
		return b.applyElementsColumn(o)

	case *table.Table:
		return b.applyElementsTable(o)

	case *table.GroupedColumns:
		groups := make(map[string]*BoolColumn, o.Len())
		for _, key := range o.Keys() {
			col, _ := o.Group(key)
			mask, err := b.applyElementsColumn(col)
			if err != nil {
				return nil, err
			}
			groups[key] = mask
		}
		return newGroupedOutput(groups), nil

	case *table.GroupedTables:
		groups := make(map[string]*BoolColumn, o.Len())
		for _, key := range o.Keys() {
			sub, _ := o.Group(key)
			mask, err := b.applyElementsTable(sub)
			if err != nil {
				return nil, err
			}
			groups[key] = mask
		}
		return newGroupedOutput(groups), nil

	default:
		return nil, fmt.Errorf(
			"unsupported check object type %T", obj,
		)
	}
}

// applyElementsColumn maps the element function over every cell,
// preserving the row index.
func (b *Backend) applyElementsColumn(
	col *table.Column,
) (*BoolColumn, error) {
	values := make([]bool, col.Len())
	for i, v := range col.Values {
		ok, err := b.check.elementFn(v)
		if err != nil {
			return nil, err
		}
		values[i] = ok
	}
	return &BoolColumn{Index: col.Index, Values: values}, nil
}

// applyElementsTable maps the element function over every record,
// preserving the row index.
func (b *Backend) applyElementsTable(
	tbl *table.Table,
) (*BoolColumn, error) {
	values := make([]bool, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		ok, err := b.check.elementFn(tbl.Row(i))
		if err != nil {
			return nil, err
		}
		values[i] = ok
	}
	return &BoolColumn{Index: tbl.Index(), Values: values}, nil
}

// Postprocess combines the checked object and the raw output into
// a normalized Result with failure-case extraction. Unrecognized
// (object, output) combinations raise an OutputTypeError.
func (b *Backend) Postprocess(
	obj table.Object,
	out Output,
) (*Result, error) {
	// Grouped element-wise outputs are recombined into a single
	// column (or table) and mask before shape dispatch.
	if g, ok := out.(*GroupedOutput); ok {
		cobj, cout, err := recombineGroups(obj, g)
		if err != nil {
			return nil, err
		}
		obj, out = cobj, cout
	}

	switch o := out.(type) {
	case BoolScalar:
		return &Result{
			Output:        o,
			Passed:        bool(o),
			CheckedObject: obj,
		}, nil

	case *BoolColumn:
		switch co := obj.(type) {
		case *table.Column:
			return b.postprocessColumn(co, o)
		case *table.Table:
			return b.postprocessTableRows(co, o)
		}

	case *BoolTable:
		if co, ok := obj.(*table.Table); ok {
			return b.postprocessTableCells(co, o)
		}
	}

	return nil, &OutputTypeError{
		TypeName: fmt.Sprintf("%T", out),
	}
}

func newGroupedOutput(
	groups map[string]*BoolColumn,
) *GroupedOutput {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &GroupedOutput{keys: keys, groups: groups}
}

// recombineGroups concatenates per-group objects and outputs in
// sorted key order so the normal shape dispatch applies.
func recombineGroups(
	obj table.Object,
	out *GroupedOutput,
) (table.Object, Output, error) {
	switch g := obj.(type) {
	case *table.GroupedColumns:
		col := &table.Column{}
		mask := &BoolColumn{}
		for _, key := range g.Keys() {
			sub, _ := g.Group(key)
			m, ok := out.Group(key)
			if !ok {
				return nil, nil, fmt.Errorf(
					"no check output for group %s", key,
				)
			}
			col.Name = sub.Name
			col.Index = append(col.Index, sub.Index...)
			col.Values = append(col.Values, sub.Values...)
			mask.Index = append(mask.Index, m.Index...)
			mask.Values = append(mask.Values, m.Values...)
		}
		return col, mask, nil

	case *table.GroupedTables:
		var tbl *table.Table
		mask := &BoolColumn{}
		for _, key := range g.Keys() {
			sub, _ := g.Group(key)
			m, ok := out.Group(key)
			if !ok {
				return nil, nil, fmt.Errorf(
					"no check output for group %s", key,
				)
			}
			var err error
			tbl, err = appendTable(tbl, sub)
			if err != nil {
				return nil, nil, err
			}
			mask.Index = append(mask.Index, m.Index...)
			mask.Values = append(mask.Values, m.Values...)
		}
		return tbl, mask, nil

	default:
		return nil, nil, fmt.Errorf(
			"grouped check output requires a grouped object, got %T",
			obj,
		)
	}
}

// appendTable concatenates two tables row-wise. The tables must
// share the same column layout, which holds for groups split from
// one parent table.
func appendTable(
	dst *table.Table,
	src *table.Table,
) (*table.Table, error) {
	if dst == nil {
		return src.Copy(), nil
	}

	cols := make([]*table.Column, 0, dst.NumColumns())
	for _, name := range dst.Columns() {
		dc, _ := dst.Column(name)
		sc, ok := src.Column(name)
		if !ok {
			return nil, fmt.Errorf(
				"groups disagree on columns: missing %s", name,
			)
		}
		merged := &table.Column{
			Name:   name,
			Index:  append(append([]any{}, dc.Index...), sc.Index...),
			Values: append(append([]any{}, dc.Values...), sc.Values...),
		}
		cols = append(cols, merged)
	}
	return table.NewTable(cols...)
}
