package stats

import (
	"bytes"
	"encoding/json"
)

// Table is a small integer-valued result table with ordered columns and
// project identity as the row key. It backs the cycletime, forecast, and
// merged results.
type Table struct {
	columns []string
	index   []string
	cells   map[string]map[string]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		cells: make(map[string]map[string]int),
	}
}

// Set stores a cell value. Row keys and column names are appended to the
// table ordering the first time they are seen.
func (t *Table) Set(row, column string, value int) {
	cells, ok := t.cells[row]
	if !ok {
		cells = make(map[string]int)
		t.cells[row] = cells
		t.index = append(t.index, row)
	}
	if !t.hasColumn(column) {
		t.columns = append(t.columns, column)
	}
	cells[column] = value
}

// Value returns the cell at (row, column).
func (t *Table) Value(row, column string) (int, bool) {
	cells, ok := t.cells[row]
	if !ok {
		return 0, false
	}
	v, ok := cells[column]
	return v, ok
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	return t.columns
}

// Index returns the row keys in insertion order.
func (t *Table) Index() []string {
	return t.index
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.index) == 0
}

// Relabel renames a row key, keeping its position and cells.
func (t *Table) Relabel(old, new string) {
	cells, ok := t.cells[old]
	if !ok {
		return
	}
	delete(t.cells, old)
	t.cells[new] = cells
	for i, key := range t.index {
		if key == old {
			t.index[i] = new
			return
		}
	}
}

// Merge inner-joins two tables on row key: only rows present in both survive,
// in the receiver's row order, with the receiver's columns first. Rows that
// do not match on both sides are dropped silently.
func (t *Table) Merge(other *Table) *Table {
	merged := NewTable()
	if other == nil {
		return merged
	}
	for _, row := range t.index {
		otherCells, ok := other.cells[row]
		if !ok {
			continue
		}
		for _, col := range t.columns {
			merged.Set(row, col, t.cells[row][col])
		}
		for _, col := range other.columns {
			merged.Set(row, col, otherCells[col])
		}
	}
	return merged
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// MarshalJSON renders the table as {"columns": [...], "rows": [...]} with
// each row carrying its project key and cells in column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"columns":`)

	columns, err := json.Marshal(append([]string{"project"}, t.columns...))
	if err != nil {
		return nil, err
	}
	buf.Write(columns)

	buf.WriteString(`,"rows":[`)
	for i, row := range t.index {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"project":`)
		key, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		for _, col := range t.columns {
			buf.WriteByte(',')
			name, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			cell, err := json.Marshal(t.cells[row][col])
			if err != nil {
				return nil, err
			}
			buf.Write(cell)
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`]}`)

	return buf.Bytes(), nil
}
