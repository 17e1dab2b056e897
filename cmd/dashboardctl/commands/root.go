package commands

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/repository"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
	"github.com/noah-isme/silverleaf-workload-api/pkg/database"
	"github.com/noah-isme/silverleaf-workload-api/pkg/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

type globalOptions struct {
	dataDir string
}

// environment is what summary and export need: the loaded config and a dataset service
// reading from the configured source.
type environment struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *sqlx.DB
	datasets *service.DatasetService
}

// NewRootCmd builds the dashboardctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:     "dashboardctl",
		Short:   "dashboardctl inspects and exports the Silverleaf workload dataset",
		Long:    `Loads the workload dataset from the configured source (or a CSV directory) and prints KPIs, writes exports or generates sample CSV files.`,
		Version: Version,

		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "dir", "", "read the CSV files from this directory instead of DATA_SOURCE")

	root.AddCommand(newSummaryCmd(opts), newExportCmd(opts), newSampleCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *globalOptions) load(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.Data.Source = config.SourceDir
		cfg.Data.Dir = o.dataDir
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	env := &environment{cfg: cfg, logger: logr}
	if cfg.Data.Source == config.SourcePostgres {
		env.db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect warehouse: %w", err)
		}
	}

	primary, err := repository.DataSourceFromConfig(cfg, env.db, logr)
	if err != nil {
		env.close()
		return nil, err
	}
	env.datasets = service.NewDatasetService(service.DatasetServiceParams{
		Loader:   dataset.NewLoader(logr, dataset.NewSampleSource(dataset.SampleConfig{}), primary),
		Logger:   logr,
		Location: cfg.Location(),
	})
	return env, nil
}

func (e *environment) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.logger.Sync()
}
