package check

import (
	"fmt"

	"digital.vasic.datacheck/pkg/table"
)

// failureEntry pairs a failing value with the boolean output it
// produced, for stratified truncation.
type failureEntry struct {
	output bool
	fc     FailureCase
}

// stratifiedHead bounds failure cases to at most n entries per
// distinct output partition, preserving original row order. This
// keeps one failure mode from starving the sample of another;
// when every failing entry carries the same output value it
// degenerates to "first n in original order". n == 0 keeps
// everything.
func stratifiedHead(
	entries []failureEntry,
	n int,
) []FailureCase {
	if len(entries) == 0 {
		return nil
	}

	if n <= 0 {
		cases := make([]FailureCase, len(entries))
		for i, e := range entries {
			cases[i] = e.fc
		}
		return cases
	}

	counts := make(map[bool]int, 2)
	cases := make([]FailureCase, 0, n)
	for _, e := range entries {
		if counts[e.output] >= n {
			continue
		}
		counts[e.output]++
		cases = append(cases, e.fc)
	}
	return cases
}

// postprocessColumn normalizes a per-row output over a column:
// missing rows pass when IgnoreNA is set, the verdict is the AND
// over all rows, and failure cases are the values at false
// positions in original order.
func (b *Backend) postprocessColumn(
	col *table.Column,
	out *BoolColumn,
) (*Result, error) {
	if out.Len() != col.Len() {
		return nil, fmt.Errorf(
			"check output has %d rows, does not match checked column with %d rows",
			out.Len(), col.Len(),
		)
	}

	values := make([]bool, out.Len())
	copy(values, out.Values)
	if b.check.ignoreNA {
		for i := range values {
			values[i] = values[i] || col.IsNA(i)
		}
	}

	passed := true
	var entries []failureEntry
	for i, ok := range values {
		if ok {
			continue
		}
		passed = false
		entries = append(entries, failureEntry{
			output: ok,
			fc: FailureCase{
				Column: col.Name,
				Index:  col.Index[i],
				Value:  col.Values[i],
			},
		})
	}

	return &Result{
		Output:        &BoolColumn{Index: col.Index, Values: values},
		Passed:        passed,
		CheckedObject: col,
		FailureCases: stratifiedHead(
			entries, b.check.nFailureCases,
		),
	}, nil
}

// postprocessTableRows normalizes a per-row output over a table:
// a row counts as missing when any of its columns is missing, and
// failure cases carry the whole failing record.
func (b *Backend) postprocessTableRows(
	tbl *table.Table,
	out *BoolColumn,
) (*Result, error) {
	if out.Len() != tbl.Len() {
		return nil, fmt.Errorf(
			"check output has %d rows, does not match checked table with %d rows",
			out.Len(), tbl.Len(),
		)
	}

	values := make([]bool, out.Len())
	copy(values, out.Values)
	if b.check.ignoreNA {
		naMask := tbl.RowNAMask()
		for i := range values {
			values[i] = values[i] || naMask[i]
		}
	}

	passed := true
	var entries []failureEntry
	for i, ok := range values {
		if ok {
			continue
		}
		passed = false
		entries = append(entries, failureEntry{
			output: ok,
			fc: FailureCase{
				Index: tbl.Index()[i],
				Value: tbl.Row(i),
			},
		})
	}

	return &Result{
		Output:        &BoolColumn{Index: tbl.Index(), Values: values},
		Passed:        passed,
		CheckedObject: tbl,
		FailureCases: stratifiedHead(
			entries, b.check.nFailureCases,
		),
	}, nil
}

// postprocessTableCells normalizes a per-cell output: object and
// output must have identical shape, both are reshaped into long
// form walking columns in table order and rows in index order,
// and failure cases are the unique failing (column, row, value)
// triples truncated after de-duplication.
func (b *Backend) postprocessTableCells(
	tbl *table.Table,
	out *BoolTable,
) (*Result, error) {
	if err := checkCellShape(tbl, out); err != nil {
		return nil, err
	}

	passed := true
	cells := make(map[string][]bool, tbl.NumColumns())
	var cases []FailureCase
	seen := make(map[string]struct{})

	for _, name := range tbl.Columns() {
		col, _ := tbl.Column(name)
		mask := out.Cells[name]
		adjusted := make([]bool, len(mask))
		copy(adjusted, mask)

		for i := range adjusted {
			if b.check.ignoreNA && col.IsNA(i) {
				adjusted[i] = true
			}
			if adjusted[i] {
				continue
			}
			passed = false

			key := name + "\x00" +
				table.FormatValue(col.Index[i]) + "\x00" +
				table.FormatValue(col.Values[i])
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			cases = append(cases, FailureCase{
				Column: name,
				Index:  col.Index[i],
				Value:  col.Values[i],
			})
		}
		cells[name] = adjusted
	}

	if n := b.check.nFailureCases; n > 0 && len(cases) > n {
		cases = cases[:n]
	}
	if len(cases) == 0 {
		cases = nil
	}

	return &Result{
		Output: &BoolTable{
			Columns: tbl.Columns(),
			Index:   tbl.Index(),
			Cells:   cells,
		},
		Passed:        passed,
		CheckedObject: tbl,
		FailureCases:  cases,
	}, nil
}

// checkCellShape verifies that a per-cell output matches the
// checked table's shape exactly; mismatches are never broadcast.
func checkCellShape(tbl *table.Table, out *BoolTable) error {
	if out.Len() != tbl.Len() ||
		len(out.Columns) != tbl.NumColumns() {
		return fmt.Errorf(
			"check output shape (%d rows, %d columns) does not match checked table shape (%d rows, %d columns)",
			out.Len(), len(out.Columns),
			tbl.Len(), tbl.NumColumns(),
		)
	}
	for _, name := range tbl.Columns() {
		mask, ok := out.Cells[name]
		if !ok {
			return fmt.Errorf(
				"check output is missing column %s, does not match checked table columns %v",
				name, tbl.Columns(),
			)
		}
		if len(mask) != tbl.Len() {
			return fmt.Errorf(
				"check output column %s has %d rows, does not match checked table with %d rows",
				name, len(mask), tbl.Len(),
			)
		}
	}
	return nil
}
