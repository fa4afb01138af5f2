package loteca

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultLotecaConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, 38, cfg.SeasonRounds)
	assert.True(t, cfg.H2H.Excludes(DivisionB))
	assert.False(t, cfg.H2H.Excludes(DivisionA))
}

func TestValidateConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LotecaConfig)
	}{
		{"years reversed", func(c *LotecaConfig) { c.FirstYear, c.LastYear = 2020, 2010 }},
		{"no rounds", func(c *LotecaConfig) { c.SeasonRounds = 0 }},
		{"negative window", func(c *LotecaConfig) { c.CupWindowDays = -1 }},
		{"late desperation", func(c *LotecaConfig) { c.DesperationStartRound = 40 }},
		{"zero league average", func(c *LotecaConfig) { c.DefaultLeagueHomeGoals = 0 }},
		{"empty slate", func(c *LotecaConfig) { c.SlateSize = 0 }},
		{"cup without folder", func(c *LotecaConfig) { c.Cups = []CupSource{{Name: "Copa"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLotecaConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "loteca.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(
		"dataDir: /data\nlastYear: 2019\nfeatures:\n  includeH2H: false\n  includeCupSignals: true\n"), 0644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("LOTECA_SLATE_SIZE=10\n"), 0644))

	t.Setenv("LOTECA_LAST_YEAR", "2018")
	t.Setenv("LOTECA_SCRAPE_DELAY", "2s")
	t.Setenv("LOTECA_H2H_EXCLUDED_DIVISIONS", "0, 1")
	t.Cleanup(func() { os.Unsetenv("LOTECA_SLATE_SIZE") })

	cfg, err := LoadConfig(yamlPath, envPath, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, 2018, cfg.LastYear)
	assert.False(t, cfg.Features.IncludeH2H)
	assert.True(t, cfg.Features.IncludeCupSignals)
	assert.Equal(t, 10, cfg.SlateSize)
	assert.Equal(t, 2*time.Second, cfg.ScrapeDelay)
	assert.Equal(t, []int{0, 1}, cfg.H2H.ExcludedDivisions)
	assert.Equal(t, filepath.Join("/data", "brasileiraoB", "brasileiraoB2015.csv"), cfg.SeriesPath(DivisionB, 2015))
	assert.Equal(t, filepath.Join("/data", "times", "times2015.csv"), cfg.TeamsPath(2015))
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("LOTECA_FIRST_YEAR", "dois mil")
	_, err := LoadConfig("")
	assert.Error(t, err)
}
