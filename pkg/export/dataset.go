package export

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

// Dataset is tabular export content. Each row holds one value per header, in header order;
// short rows are padded with "".
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Cell returns the value at row i, column j, or "" when the row is short.
func (d Dataset) Cell(i, j int) string {
	if i < 0 || i >= len(d.Rows) || j < 0 || j >= len(d.Rows[i]) {
		return ""
	}
	return d.Rows[i][j]
}

// Renderer encodes a Dataset into one file format.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	Extension() string
	ContentType() string
}

// For returns the renderer registered for format (csv, pdf or xlsx).
func For(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	case "xlsx":
		return NewXLSXExporter(), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
}

func requireHeaders(kind string, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", kind)
	}
	return nil
}
