package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/pkg/export"
)

func newSampleCmd() *cobra.Command {
	var (
		out      string
		requests int
		admins   int
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic dataset as CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle := dataset.GenerateSampleData(dataset.SampleConfig{Now: time.Now(), Requests: requests, Admins: admins})
			written, err := writeTables(out, dataset.Tables(bundle))
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "data", "directory the CSV files are written to")
	cmd.Flags().IntVar(&requests, "requests", 0, "number of requests (0 uses the default)")
	cmd.Flags().IntVar(&admins, "admins", 0, "number of admins (0 uses the default)")
	return cmd
}

// writeTables writes each non-empty table under its canonical file name and returns the paths in
// resource order.
func writeTables(dir string, tables map[dataset.Resource]export.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	csvExporter := export.NewCSVExporter()
	var written []string
	for _, resource := range dataset.Resources {
		table, ok := tables[resource]
		if !ok || len(table.Headers) == 0 {
			continue
		}
		data, err := csvExporter.Render(table)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", resource, err)
		}
		path := filepath.Join(dir, resource.FileName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
