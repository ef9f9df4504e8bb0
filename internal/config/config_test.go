package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)

	cfg, err := LoadWithoutDatabase()
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tennis")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, tennis.WTA, cfg.ImportAssociation)
	assert.Equal(t, time.Second, cfg.ImportDelay)
	assert.Equal(t, 100, cfg.ImportMaxPages)
	assert.Equal(t, 2020, cfg.ImportStartYear)
	assert.Equal(t, time.Hour, cfg.ImportTimeout)
	assert.Equal(t, 60, cfg.BDLRequestsPerMinute)
	assert.Zero(t, cfg.SyncRankingsInterval, "scheduled sync is off by default")
	assert.Equal(t, []tennis.Association{tennis.WTA, tennis.ATP}, cfg.SyncAssociations)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tennis")
	t.Setenv("IMPORT_ASSOCIATION", "atp")
	t.Setenv("IMPORT_DELAY_MS", "250")
	t.Setenv("SYNC_RANKINGS_INTERVAL_HOURS", "6")
	t.Setenv("SYNC_ASSOCIATIONS", " atp ,")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("API_PORT", "not-a-number")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, tennis.ATP, cfg.ImportAssociation)
	assert.Equal(t, 250*time.Millisecond, cfg.ImportDelay)
	assert.Equal(t, 6*time.Hour, cfg.SyncRankingsInterval)
	assert.Equal(t, []tennis.Association{tennis.ATP}, cfg.SyncAssociations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 8000, cfg.APIPort, "unparseable ints fall back")
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsUnknownAssociation(t *testing.T) {
	t.Setenv("IMPORT_ASSOCIATION", "ITF")
	_, err := LoadWithoutDatabase()
	assert.Error(t, err)
}
