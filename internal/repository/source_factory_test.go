package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/silverleaf-workload-api/pkg/config"
)

func TestDataSourceFromConfig(t *testing.T) {
	src, err := DataSourceFromConfig(&config.Config{Data: config.DataConfig{Source: config.SourceDir, Dir: t.TempDir()}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "remote", src.Name())

	_, err = DataSourceFromConfig(&config.Config{Data: config.DataConfig{Source: config.SourceHTTP}}, nil, nil)
	assert.Error(t, err)

	_, err = DataSourceFromConfig(&config.Config{Data: config.DataConfig{Source: config.SourcePostgres}}, nil, nil)
	assert.Error(t, err)

	db, _, cleanup := newWarehouseMock(t)
	defer cleanup()
	src, err = DataSourceFromConfig(&config.Config{Data: config.DataConfig{Source: config.SourcePostgres}}, db, nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", src.Name())

	_, err = DataSourceFromConfig(&config.Config{Data: config.DataConfig{Source: "ftp"}}, nil, nil)
	assert.Error(t, err)
}
