package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRAVIGO_PLANNER_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default().Search.NumItineraries, cfg.Search.NumItineraries)
	assert.Equal(t, 20*time.Minute, cfg.Street.MaxAccessEgressDurationFor("walk"))
	assert.Equal(t, 45*time.Minute, cfg.Street.MaxAccessEgressDurationFor("CAR"))
	assert.Equal(t, "Europe/London", cfg.Location().String())
}

func TestLoadFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
time_zone: America/New_York
street:
  max_access_egress_duration: PT30M
  max_access_egress_duration_for_mode:
    BIKE: PT15M
search:
  search_window: PT2H
  num_itineraries: 5
  itinerary_filter_debug_profile: limit-to-search-window
features:
  parallel_routing: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.TimeZone)
	assert.Equal(t, 30*time.Minute, cfg.Street.MaxAccessEgressDurationFor("CAR"))
	assert.Equal(t, 15*time.Minute, cfg.Street.MaxAccessEgressDurationFor("BIKE"))
	assert.Equal(t, 20*time.Minute, cfg.Street.MaxAccessEgressDurationFor("WALK"))
	assert.Equal(t, 2*time.Hour, cfg.Search.SearchWindow.Value())
	assert.Equal(t, 5, cfg.Search.NumItineraries)
	assert.False(t, cfg.Features.ParallelRouting)
	assert.True(t, cfg.Features.OptimizeTransfers)
	assert.Equal(t, float64(5000), cfg.Street.LinkRadius)
}

func TestLoadFeatureOverridesFromEnvironment(t *testing.T) {
	t.Setenv("TRAVIGO_FEATURE_PARALLEL_ROUTING", "NO")
	t.Setenv("TRAVIGO_FEATURE_FLEX_ROUTING", "yes")

	cfg, err := Load(writeConfig(t, "time_zone: UTC\n"))
	require.NoError(t, err)

	assert.False(t, cfg.Features.ParallelRouting)
	assert.True(t, cfg.Features.FlexRouting)
	assert.True(t, cfg.Features.OptimizeTransfers)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"bad profile":   "search:\n  itinerary_filter_debug_profile: everything\n",
		"bad timezone":  "time_zone: Mars/Olympus_Mons\n",
		"bad duration":  "street:\n  max_access_egress_duration: 45 minutes\n",
		"bad itinerary": "search:\n  num_itineraries: 0\n",
		"too many days": "transit:\n  additional_future_search_days: 30\n",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, contents))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDurationValueCountsDays(t *testing.T) {
	assert.Equal(t, 36*time.Hour, MustParseDuration("P1DT12H").Value())
	assert.True(t, Duration{}.IsZero())
}
