package config_test

import (
	"testing"

	"recruit-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "data/cache.db", cfg.Cache.Path)
	assert.Equal(t, 500, cfg.Bitable.MaxBatchSize)
	assert.Equal(t, 3, cfg.Pipeline.IntervalHours)
	assert.Equal(t, 90, cfg.Pipeline.RetentionDays)
	assert.False(t, cfg.Bitable.IsComplete())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BITABLE_APP_ID", "cli_test")
	t.Setenv("BITABLE_APP_SECRET", "secret")
	t.Setenv("BITABLE_APP_TOKEN", "bastoken")
	t.Setenv("BITABLE_TABLE_ID", "tbl123")
	t.Setenv("PIPELINE_RETENTION_DAYS", "30")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "cli_test", cfg.Bitable.AppID)
	assert.Equal(t, 30, cfg.Pipeline.RetentionDays)
	assert.True(t, cfg.Bitable.IsComplete())
}
