package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
)

// DataSourceFromConfig builds the primary dataset source selected by DATA_SOURCE. db is only
// consulted for the postgres source.
func DataSourceFromConfig(cfg *config.Config, db *sqlx.DB, logger *zap.Logger) (dataset.DataSource, error) {
	loc := cfg.Location()
	switch cfg.Data.Source {
	case config.SourceDir, "":
		return dataset.NewRemoteSource(dataset.NewDirFetcher(cfg.Data.Dir), loc), nil
	case config.SourceHTTP:
		if cfg.Data.BaseURL == "" {
			return nil, fmt.Errorf("DATA_BASE_URL is required for the http source")
		}
		return dataset.NewRemoteSource(dataset.NewHTTPFetcher(cfg.Data.BaseURL, cfg.Data.FetchTimeout), loc), nil
	case config.SourceS3:
		fetcher, err := dataset.NewObjectStoreFetcher(dataset.ObjectStoreConfig{
			Endpoint:  cfg.ObjectStore.Endpoint,
			AccessKey: cfg.ObjectStore.AccessKey,
			SecretKey: cfg.ObjectStore.SecretKey,
			UseSSL:    cfg.ObjectStore.UseSSL,
			Bucket:    cfg.Data.Bucket,
			Prefix:    cfg.Data.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return dataset.NewRemoteSource(fetcher, loc), nil
	case config.SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres source needs DB_ENABLED=true")
		}
		return NewWarehouseSource(NewWarehouseRepository(db), 0, logger), nil
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.Data.Source)
	}
}
