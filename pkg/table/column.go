package table

import "fmt"

// Column is an ordered sequence of values with a row index. The
// index carries row identity through grouping, subsampling, and
// failure-case extraction.
type Column struct {
	// Name is the column identifier.
	Name string `json:"name"`

	// Index holds one label per row.
	Index []any `json:"index"`

	// Values holds the cell values. len(Values) == len(Index).
	Values []any `json:"values"`
}

// NewColumn creates a column with a default positional index
// 0..n-1.
func NewColumn(name string, values []any) *Column {
	index := make([]any, len(values))
	for i := range values {
		index[i] = i
	}
	return &Column{Name: name, Index: index, Values: values}
}

// NewColumnWithIndex creates a column with an explicit row index.
// The index and values must have the same length.
func NewColumnWithIndex(
	name string,
	index []any,
	values []any,
) (*Column, error) {
	if len(index) != len(values) {
		return nil, fmt.Errorf(
			"column %s: index length %d does not match value length %d",
			name, len(index), len(values),
		)
	}
	return &Column{Name: name, Index: index, Values: values}, nil
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return len(c.Values)
}

// At returns the value at position i.
func (c *Column) At(i int) any {
	return c.Values[i]
}

// IsNA reports whether the value at position i is missing.
func (c *Column) IsNA(i int) bool {
	return IsNA(c.Values[i])
}

// NAMask returns a per-row mask that is true where the value is
// missing.
func (c *Column) NAMask() []bool {
	mask := make([]bool, len(c.Values))
	for i, v := range c.Values {
		mask[i] = IsNA(v)
	}
	return mask
}

// Take returns a new column containing the rows at the given
// positions, preserving index labels and order of positions.
func (c *Column) Take(positions []int) *Column {
	index := make([]any, 0, len(positions))
	values := make([]any, 0, len(positions))
	for _, p := range positions {
		index = append(index, c.Index[p])
		values = append(values, c.Values[p])
	}
	return &Column{Name: c.Name, Index: index, Values: values}
}

// Copy returns a deep copy of the column.
func (c *Column) Copy() *Column {
	index := make([]any, len(c.Index))
	copy(index, c.Index)
	values := make([]any, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Index: index, Values: values}
}

// Equal reports whether two columns have the same name, index,
// and values. Missing values compare equal to each other.
func (c *Column) Equal(other *Column) bool {
	if other == nil || c.Name != other.Name ||
		len(c.Values) != len(other.Values) {
		return false
	}
	for i := range c.Values {
		if !ValueEqual(c.Index[i], other.Index[i]) ||
			!ValueEqual(c.Values[i], other.Values[i]) {
			return false
		}
	}
	return true
}

func (*Column) isObject() {}
