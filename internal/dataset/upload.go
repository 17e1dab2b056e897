package dataset

import (
	"bytes"
	"errors"
	"time"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
)

// ErrNoRecognizedFiles is returned when none of the uploaded file names matches a resource.
var ErrNoRecognizedFiles = errors.New("no recognized dataset files uploaded")

// UploadFile is one user supplied CSV.
type UploadFile struct {
	Name    string
	Content []byte
}

// ParseUpload turns uploaded files into a bundle tagged uploaded. Files are matched
// case-sensitively against the six resource names and go through the same normalization and
// coercion as fetched resources.
func ParseUpload(files []UploadFile, loc *time.Location) (*LoadResult, error) {
	result := &LoadResult{}
	tables := make(map[Resource]*Table)

	for _, file := range files {
		resource, ok := ResourceForFile(file.Name)
		if !ok {
			headers, _, _ := ReadCSV(bytes.NewReader(file.Content))
			if hint := DetectFileType(headers); hint != "" {
				result.Warn("ignored %s: unrecognized file name (looks like %s)", file.Name, hint.FileName())
			} else {
				result.Warn("ignored %s: unrecognized file name", file.Name)
			}
			continue
		}
		table, err := ReadTable(bytes.NewReader(file.Content), resource, loc)
		if err != nil {
			result.Warn("%s partially parsed: %v", file.Name, err)
		}
		if err := ValidateRequiredFields(resource, table.Headers); err != nil {
			result.Warn("%v", err)
		}
		tables[resource] = table
	}

	if len(tables) == 0 {
		return result, ErrNoRecognizedFiles
	}
	result.Bundle = Assemble(tables, models.SourceUploaded)
	if len(result.Bundle.Requests) == 0 {
		result.Warn("uploaded dataset has no requests")
	}
	return result, nil
}
