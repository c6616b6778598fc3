package check

// Output is the closed union of raw check-output shapes: a
// boolean scalar, a per-row mask, a per-cell mask, or a grouped
// collection of per-row masks produced by grouped element-wise
// application.
type Output interface {
	isOutput()
}

// BoolScalar is a single boolean verdict for the whole object.
type BoolScalar bool

func (BoolScalar) isOutput() {}

// BoolColumn is a per-row boolean mask sharing the checked
// object's row index.
type BoolColumn struct {
	// Index holds one label per row.
	Index []any `json:"index"`

	// Values holds the per-row verdicts.
	Values []bool `json:"values"`
}

// NewBoolColumn creates a per-row mask with a positional index.
func NewBoolColumn(values []bool) *BoolColumn {
	index := make([]any, len(values))
	for i := range values {
		index[i] = i
	}
	return &BoolColumn{Index: index, Values: values}
}

// Len returns the number of rows.
func (b *BoolColumn) Len() int {
	return len(b.Values)
}

// All reports whether every row passed.
func (b *BoolColumn) All() bool {
	for _, v := range b.Values {
		if !v {
			return false
		}
	}
	return true
}

func (*BoolColumn) isOutput() {}

// BoolTable is a per-cell boolean mask. Its shape (column set and
// row count) must match the checked table exactly.
type BoolTable struct {
	// Columns lists the column names in order.
	Columns []string `json:"columns"`

	// Index holds one label per row.
	Index []any `json:"index"`

	// Cells maps column name to that column's per-row verdicts.
	Cells map[string][]bool `json:"cells"`
}

// Len returns the number of rows.
func (b *BoolTable) Len() int {
	return len(b.Index)
}

// All reports whether every cell passed.
func (b *BoolTable) All() bool {
	for _, name := range b.Columns {
		for _, v := range b.Cells[name] {
			if !v {
				return false
			}
		}
	}
	return true
}

func (*BoolTable) isOutput() {}

// GroupedOutput maps group key to a per-row mask. It is produced
// by element-wise application over a grouped object and is
// recombined before postprocessing.
type GroupedOutput struct {
	keys   []string
	groups map[string]*BoolColumn
}

// Keys returns the group keys in sorted order.
func (g *GroupedOutput) Keys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	return keys
}

// Group returns the mask for a key.
func (g *GroupedOutput) Group(key string) (*BoolColumn, bool) {
	b, ok := g.groups[key]
	return b, ok
}

func (*GroupedOutput) isOutput() {}
