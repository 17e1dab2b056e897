package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

const byteOrderMark = "\ufeff"

// Table is one parsed and normalized CSV resource.
type Table struct {
	Resource Resource
	Headers  []string
	Rows     []models.Row
}

// ReadCSV parses a header row followed by records. Short records are padded with "", blank records
// are skipped and a leading BOM is dropped. On a malformed record it returns the records read so
// far together with the error.
func ReadCSV(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], byteOrderMark)
	}

	records := make([]map[string]string, 0)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return headers, records, fmt.Errorf("read csv record: %w", err)
		}
		if isBlank(fields) {
			continue
		}
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(fields) {
				record[header] = fields[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return headers, records, nil
}

// ReadTable parses and normalizes a resource. A partial table is returned alongside a parse error.
func ReadTable(r io.Reader, resource Resource, loc *time.Location) (*Table, error) {
	headers, records, err := ReadCSV(r)
	coercer := NewCoercer(VocabularyFor(resource), loc)
	table := &Table{
		Resource: resource,
		Headers:  VocabularyFor(resource).Normalize(headers),
		Rows:     make([]models.Row, 0, len(records)),
	}
	for _, record := range records {
		table.Rows = append(table.Rows, coercer.CoerceRow(record, headers))
	}
	return table, err
}

func isBlank(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
