package table

import "fmt"

// Table is an ordered mapping of column name to column. All
// columns share one row index.
type Table struct {
	names []string
	cols  map[string]*Column
	index []any
}

// Row is a single table record, passed to element-wise table
// checks.
type Row struct {
	// Index is the row's index label.
	Index any `json:"index"`

	// Values maps column name to the cell value in this row.
	Values map[string]any `json:"values"`
}

// NewTable creates a table from columns. All columns must have
// the same length and distinct names. The first column's index
// becomes the table's row index.
func NewTable(cols ...*Column) (*Table, error) {
	if len(cols) == 0 {
		return &Table{cols: map[string]*Column{}}, nil
	}

	t := &Table{
		names: make([]string, 0, len(cols)),
		cols:  make(map[string]*Column, len(cols)),
		index: cols[0].Index,
	}

	for _, c := range cols {
		if _, exists := t.cols[c.Name]; exists {
			return nil, fmt.Errorf(
				"duplicate column name: %s", c.Name,
			)
		}
		if c.Len() != len(t.index) {
			return nil, fmt.Errorf(
				"column %s has %d rows, expected %d",
				c.Name, c.Len(), len(t.index),
			)
		}
		t.names = append(t.names, c.Name)
		t.cols[c.Name] = c
	}

	return t, nil
}

// MustNewTable is NewTable that panics on error. Intended for
// tests and static fixtures.
func MustNewTable(cols ...*Column) *Table {
	t, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.names)
}

// Index returns the shared row index.
func (t *Table) Index() []any {
	return t.index
}

// Row returns the record at position i.
func (t *Table) Row(i int) Row {
	values := make(map[string]any, len(t.names))
	for _, name := range t.names {
		values[name] = t.cols[name].Values[i]
	}
	return Row{Index: t.index[i], Values: values}
}

// RowNAMask returns a per-row mask that is true where any column
// in that row holds a missing value.
func (t *Table) RowNAMask() []bool {
	mask := make([]bool, t.Len())
	for _, name := range t.names {
		for i, v := range t.cols[name].Values {
			if IsNA(v) {
				mask[i] = true
			}
		}
	}
	return mask
}

// Take returns a new table containing the rows at the given
// positions, preserving index labels.
func (t *Table) Take(positions []int) *Table {
	cols := make([]*Column, 0, len(t.names))
	for _, name := range t.names {
		cols = append(cols, t.cols[name].Take(positions))
	}
	sub, err := NewTable(cols...)
	if err != nil {
		// Columns taken from one table cannot disagree on
		// length or name.
		panic(err)
	}
	return sub
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	cols := make([]*Column, 0, len(t.names))
	for _, name := range t.names {
		cols = append(cols, t.cols[name].Copy())
	}
	cp, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return cp
}

// Equal reports whether two tables have the same columns in the
// same order with equal contents.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.names) != len(other.names) {
		return false
	}
	for i, name := range t.names {
		if other.names[i] != name {
			return false
		}
		if !t.cols[name].Equal(other.cols[name]) {
			return false
		}
	}
	return true
}

func (*Table) isObject() {}
