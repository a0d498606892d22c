package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is one exportable table. Rows are positional and must line up with
// Columns.
type Dataset struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (d Dataset) check() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset %q has no columns", d.Title)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("dataset %q row %d has %d cells, want %d", d.Title, i, len(row), len(d.Columns))
		}
	}
	return nil
}

// CSVExporter renders a Dataset as UTF-8 CSV with a header row.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render encodes the dataset.
func (e *CSVExporter) Render(d Dataset) ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(d.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(d.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
