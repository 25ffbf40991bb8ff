// pkg/model/table.go
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ColumnKind classifies the values held by a column
type ColumnKind int

const (
	KindUnknown  ColumnKind = iota // no non-missing values to classify
	KindNumeric                    // float64 values
	KindText                       // string values
	KindTemporal                   // time.Time values
)

// String returns the lowercase name of the kind
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Column is a named, typed sequence of values.
// A nil value (or a NaN float) marks a missing entry.
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []any
}

// Table is an ordered collection of equally sized columns
type Table struct {
	Columns []*Column
}

// NewTable creates a table from columns, inferring kinds for columns
// declared as KindUnknown and normalizing their values
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{Columns: columns}
	for _, col := range t.Columns {
		if col == nil {
			continue
		}
		if col.Kind == KindUnknown {
			col.Kind = InferKind(col.Values)
		}
		for i, v := range col.Values {
			col.Values[i] = Coerce(v, col.Kind)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate ensures all columns have the same length
func (t *Table) Validate() error {
	for _, col := range t.Columns {
		if col == nil {
			return fmt.Errorf("table contains a nil column")
		}
	}
	if len(t.Columns) == 0 {
		return nil
	}
	expected := len(t.Columns[0].Values)
	for _, col := range t.Columns {
		if len(col.Values) != expected {
			return fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), expected)
		}
	}
	return nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Names returns column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns a column by exact name, or nil if not found
func (t *Table) Column(name string) *Column {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// GetColumnByName returns a column by name (case-insensitive)
func (t *Table) GetColumnByName(name string) *Column {
	normalized := strings.ToLower(name)
	for _, col := range t.Columns {
		if strings.ToLower(col.Name) == normalized {
			return col
		}
	}
	return nil
}

// MissingCount counts missing values across the whole table
func (t *Table) MissingCount() int {
	total := 0
	for _, col := range t.Columns {
		total += col.MissingCount()
	}
	return total
}

// KeepRows retains only rows whose index is set in keep, preserving order
func (t *Table) KeepRows(keep []bool) {
	for _, col := range t.Columns {
		kept := make([]any, 0, len(col.Values))
		for i, v := range col.Values {
			if keep[i] {
				kept = append(kept, v)
			}
		}
		col.Values = kept
	}
}

// Row returns the values of row i in column order
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = col.Values[i]
	}
	return row
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	clone := &Table{Columns: make([]*Column, len(t.Columns))}
	for i, col := range t.Columns {
		clone.Columns[i] = col.Clone()
	}
	return clone
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	values := make([]any, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// MissingCount counts missing values in the column
func (c *Column) MissingCount() int {
	missing := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			missing++
		}
	}
	return missing
}

// Present counts non-missing values in the column
func (c *Column) Present() int {
	return len(c.Values) - c.MissingCount()
}

// DistinctCount counts distinct non-missing values
func (c *Column) DistinctCount() int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		if IsMissing(v) {
			continue
		}
		seen[ValueKey(v)] = struct{}{}
	}
	return len(seen)
}

// Floats returns the non-missing numeric values of the column
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.(float64); ok && !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsMissing reports whether a value counts as missing
func IsMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(val)
	case time.Time:
		return val.IsZero()
	}
	return false
}

// ValueKey renders a value as a kind-tagged key for equality checks
func ValueKey(v any) string {
	if IsMissing(v) {
		return "\x00"
	}
	switch val := v.(type) {
	case float64:
		// negative zero keys like zero
		if val == 0 {
			val = 0
		}
		return "f:" + fmt.Sprintf("%v", val)
	case string:
		return "s:" + val
	case time.Time:
		return "t:" + val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("o:%v", val)
	}
}

// UniqueName returns base if taken does not claim it, otherwise base_<n>
// with the smallest free n starting at 1
func UniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
