// Package dataset holds the in-memory tabular model shared by the loaders and
// the validation checks.
package dataset

import (
	"fmt"
	"strings"
)

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// IsStringTyped reports whether any cell holds a string. Such a column behaves
// like an object column: placeholders and mixed types are checked on it.
func (c Column) IsStringTyped() bool {
	for _, v := range c.Values {
		if v.IsString() {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the column carries only numbers and nulls.
// An all-null column is numeric.
func (c Column) IsNumeric() bool { return !c.IsStringTyped() }

// NonNull returns the non-null cells in row order.
func (c Column) NonNull() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsNull() {
			out = append(out, v)
		}
	}
	return out
}

// Dataset is an ordered set of equal-length columns. Checks treat it as read-only.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a Dataset, rejecting ragged and duplicate-named columns.
func New(cols ...Column) (*Dataset, error) {
	ds := &Dataset{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := ds.index[c.Name]; dup {
			return nil, &InputError{Msg: fmt.Sprintf("duplicate column name %q", c.Name)}
		}
		ds.index[c.Name] = i
		if i == 0 {
			ds.rows = len(c.Values)
			continue
		}
		if len(c.Values) != ds.rows {
			return nil, &InputError{Msg: fmt.Sprintf("column %q has %d values, expected %d", c.Name, len(c.Values), ds.rows)}
		}
	}
	return ds, nil
}

// MustNew is New for fixtures; it panics on malformed input.
func MustNew(cols ...Column) *Dataset {
	ds, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.rows }

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.cols) }

// Columns returns the columns in order. Callers must not modify the result.
func (d *Dataset) Columns() []Column { return d.cols }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.cols[i], true
}

// Has reports whether name is one of the column names.
func (d *Dataset) Has(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// Row returns a copy of row i across all columns.
func (d *Dataset) Row(i int) []Value {
	out := make([]Value, len(d.cols))
	for j, c := range d.cols {
		out[j] = c.Values[i]
	}
	return out
}

// CheckTarget verifies the target column exists.
func (d *Dataset) CheckTarget(t TargetSpec) error {
	if strings.TrimSpace(t.Column) == "" {
		return &InputError{Msg: "target column is required"}
	}
	if !d.Has(t.Column) {
		return &InputError{Msg: fmt.Sprintf("Target column '%s' not found in dataset", t.Column)}
	}
	return nil
}
