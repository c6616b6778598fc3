package table

import (
	"fmt"
	"sort"
)

// Object is the closed union of container shapes a check can be
// evaluated against: a column, a table, or a grouped view of
// either. The check backend dispatches on this union instead of
// inspecting engine-specific types.
type Object interface {
	isObject()
}

// GroupedColumns maps group key to sub-column. Keys iterate in
// sorted order so grouped evaluation is deterministic.
type GroupedColumns struct {
	keys   []string
	groups map[string]*Column
}

// NewGroupedColumns creates a grouped column view. Keys are
// sorted internally.
func NewGroupedColumns(groups map[string]*Column) *GroupedColumns {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &GroupedColumns{keys: keys, groups: groups}
}

// Keys returns the group keys in sorted order.
func (g *GroupedColumns) Keys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	return keys
}

// Group returns the sub-column for a key.
func (g *GroupedColumns) Group(key string) (*Column, bool) {
	c, ok := g.groups[key]
	return c, ok
}

// Len returns the number of groups.
func (g *GroupedColumns) Len() int {
	return len(g.keys)
}

func (*GroupedColumns) isObject() {}

// GroupedTables maps group key to sub-table. Keys iterate in
// sorted order.
type GroupedTables struct {
	keys   []string
	groups map[string]*Table
}

// NewGroupedTables creates a grouped table view. Keys are sorted
// internally.
func NewGroupedTables(groups map[string]*Table) *GroupedTables {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &GroupedTables{keys: keys, groups: groups}
}

// Keys returns the group keys in sorted order.
func (g *GroupedTables) Keys() []string {
	keys := make([]string, len(g.keys))
	copy(keys, g.keys)
	return keys
}

// Group returns the sub-table for a key.
func (g *GroupedTables) Group(key string) (*Table, bool) {
	t, ok := g.groups[key]
	return t, ok
}

// Len returns the number of groups.
func (g *GroupedTables) Len() int {
	return len(g.keys)
}

// ProjectColumn projects one named column out of every group,
// turning a grouped table view into a grouped column view.
func (g *GroupedTables) ProjectColumn(
	name string,
) (*GroupedColumns, error) {
	cols := make(map[string]*Column, len(g.keys))
	for _, key := range g.keys {
		c, ok := g.groups[key].Column(name)
		if !ok {
			return nil, fmt.Errorf(
				"column %s not found in group %s", name, key,
			)
		}
		cols[key] = c
	}
	return NewGroupedColumns(cols), nil
}

func (*GroupedTables) isObject() {}

// GroupTableByColumn partitions a table's rows by the values of
// one column. Group keys are the canonical string form of the
// grouping values; rows whose grouping value is missing are
// excluded. Within each group the original row order and index
// labels are preserved.
func GroupTableByColumn(
	t *Table,
	column string,
) (*GroupedTables, error) {
	by, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf(
			"groupby column %s not found, available columns: %v",
			column, t.Columns(),
		)
	}

	positions := make(map[string][]int)
	for i, v := range by.Values {
		if IsNA(v) {
			continue
		}
		key := FormatValue(v)
		positions[key] = append(positions[key], i)
	}

	groups := make(map[string]*Table, len(positions))
	for key, pos := range positions {
		groups[key] = t.Take(pos)
	}
	return NewGroupedTables(groups), nil
}
