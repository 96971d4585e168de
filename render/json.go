package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/revelaction/terms/table"
)

// json writes the rows as a JSON array of objects, keys in column order.
func (r *Renderer) json(t *table.Table) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")

		if err := record(&buf, t.Columns, row); err != nil {
			return err
		}
	}

	if len(t.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := r.W.Write(buf.Bytes())
	return err
}

// jsonl writes one JSON object per row and line.
func (r *Renderer) jsonl(t *table.Table) error {
	var buf bytes.Buffer
	for _, row := range t.Rows {
		if err := record(&buf, t.Columns, row); err != nil {
			return err
		}
		buf.WriteString("\n")
	}

	_, err := r.W.Write(buf.Bytes())
	return err
}

func record(buf *bytes.Buffer, columns []string, row []any) error {
	buf.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			buf.WriteString(", ")
		}

		key, err := json.Marshal(col)
		if err != nil {
			return err
		}

		value, err := json.Marshal(row[i])
		if err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}

		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	buf.WriteString("}")

	return nil
}
