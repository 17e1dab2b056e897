package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
)

type exportOptions struct {
	reportType string
	format     string
	out        string
	open       bool
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	eo := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a report export (csv, pdf or xlsx) to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			exports := service.NewExportService(service.ExportServiceParams{
				Datasets: env.datasets,
				Logger:   env.logger,
				Config: service.ExportConfig{
					SLAThreshold:           env.cfg.Metrics.SLAThresholdMinutes,
					UseTimestampResolution: env.cfg.Metrics.UseTimestampResolution,
					RoleScope:              env.cfg.Metrics.RoleScope,
					Location:               env.cfg.Location(),
				},
			})
			rendered, err := exports.Render(cmd.Context(), models.ReportType(eo.reportType), models.ReportJobParams{
				Format: models.ReportFormat(strings.ToLower(eo.format)),
			})
			if err != nil {
				return err
			}

			path := eo.out
			if path == "" {
				path = rendered.Filename
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := os.WriteFile(path, rendered.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			env.logger.Info("export written", zap.String("path", path), zap.Int("bytes", len(rendered.Data)))
			fmt.Fprintln(cmd.OutOrStdout(), path)

			if eo.open {
				return browser.OpenFile(path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&eo.reportType, "type", string(models.ReportTypeRequests),
		"report type: requests, monthly_summary, department_performance or admin_productivity")
	cmd.Flags().StringVar(&eo.format, "format", string(models.ReportFormatCSV), "output format: csv, pdf or xlsx")
	cmd.Flags().StringVarP(&eo.out, "out", "o", "", "output file (defaults to the generated file name in the working directory)")
	cmd.Flags().BoolVar(&eo.open, "open", false, "open the written file with the system viewer")
	return cmd
}
