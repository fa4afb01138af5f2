package loteca

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a raw CSV table: a header row plus records, every value trimmed
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadCSVFile reads a whole CSV file into a Table
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses CSV content. The first row is the header; a UTF-8 BOM on it is removed.
// Short rows are padded so every row has one value per header.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	t := &Table{Headers: headers}
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		row := make([]string, len(headers))
		for j := range headers {
			if j < len(record) {
				row[j] = strings.TrimSpace(record[j])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Index returns the position of a header, or -1
func (t *Table) Index(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Value returns the cell under header for a row, empty when the header is absent
func (t *Table) Value(row []string, header string) string {
	i := t.Index(header)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// WriteCSVFile writes headers and records to path, creating or truncating it
func WriteCSVFile(path string, headers []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
