package commands

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/silverleaf-workload-api/internal/analytics"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
)

type summaryReport struct {
	Source               models.DatasetSource `json:"source"`
	Requests             int                  `json:"requests"`
	Admins               int                  `json:"admins"`
	Warnings             []string             `json:"warnings"`
	KPIs                 models.KPIs          `json:"kpis"`
	SLAThresholdMinutes  float64              `json:"slaThresholdMinutes"`
	SLACompliance        float64              `json:"slaCompliance"`
	AvgResolutionMinutes float64              `json:"avgResolutionMinutes"`
	MonthlyVolume        int                  `json:"monthlyVolume"`
	MonthlyCost          float64              `json:"monthlyCost"`
}

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print headline KPIs and SLA figures as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			snap := env.datasets.Current(cmd.Context())
			report := summarize(snap.Bundle, snap.Warnings, env.cfg.Metrics, time.Now().In(env.cfg.Location()))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

func summarize(bundle *models.Bundle, warnings []string, metrics config.MetricsConfig, now time.Time) summaryReport {
	threshold := metrics.SLAThresholdMinutes
	if threshold <= 0 {
		threshold = 60
	}
	hourlyRate := metrics.HourlyRate
	if hourlyRate <= 0 {
		hourlyRate = analytics.DefaultHourlyRate
	}
	requests := bundle.Requests
	monthlyCost := analytics.MonthlyCost(requests, bundle.Admins, metrics.DefaultAdminRate, metrics.UseTimestampResolution, now)
	return summaryReport{
		Source:               bundle.Source,
		Requests:             len(requests),
		Admins:               len(bundle.Admins),
		Warnings:             warnings,
		KPIs:                 analytics.CalculateKPIsAt(requests, hourlyRate),
		SLAThresholdMinutes:  threshold,
		SLACompliance:        analytics.SLACompliance(requests, threshold, metrics.UseTimestampResolution),
		AvgResolutionMinutes: analytics.AvgResolutionMinutes(requests, metrics.UseTimestampResolution),
		MonthlyVolume:        analytics.MonthlyVolume(requests, now),
		MonthlyCost:          analytics.Round2(monthlyCost),
	}
}
