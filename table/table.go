// Package table is a minimal in-memory dataframe: named columns and rows of
// values.
package table

import (
	"fmt"
	"slices"
)

type Table struct {
	Columns []string
	Rows    [][]any
}

func New(columns ...string) *Table {
	return &Table{Columns: columns, Rows: [][]any{}}
}

// Append adds a row. The number of values must match the columns.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}

	t.Rows = append(t.Rows, values)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of the column name, in row order.
func (t *Table) Column(name string) ([]any, error) {
	idx := slices.Index(t.Columns, name)
	if idx < 0 {
		return nil, fmt.Errorf("no column %q", name)
	}

	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}

	return values, nil
}

// Records returns each row as a map from column name to value.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			rec[col] = row[j]
		}
		records[i] = rec
	}

	return records
}

// Strings returns the rows with every value formatted with fmt.
func (t *Table) Strings() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = format(v)
		}
	}

	return rows
}

func format(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case [2]int:
		return fmt.Sprintf("[%d, %d]", val[0], val[1])
	case nil:
		return ""
	}

	return fmt.Sprint(v)
}
