package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/util"
	"gopkg.in/yaml.v3"
)

type RouterConfig struct {
	TimeZone string `yaml:"time_zone" validate:"required"`

	Transit     TransitConfig     `yaml:"transit"`
	Street      StreetConfig      `yaml:"street"`
	Search      SearchConfig      `yaml:"search"`
	RideHailing RideHailingConfig `yaml:"ride_hailing"`
	Features    FeatureFlags      `yaml:"features"`
}

type TransitConfig struct {
	AdditionalPastSearchDays   int `yaml:"additional_past_search_days" validate:"gte=0,lte=7"`
	AdditionalFutureSearchDays int `yaml:"additional_future_search_days" validate:"gte=0,lte=7"`

	LoadDaysBefore int `yaml:"load_days_before" validate:"gte=0"`
	LoadDaysAfter  int `yaml:"load_days_after" validate:"gte=0"`

	StopsCSV              string `yaml:"stops_csv"`
	RealtimeStopRefPrefix string `yaml:"realtime_stop_ref_prefix"`
}

type StreetConfig struct {
	MaxAccessEgressDuration        Duration            `yaml:"max_access_egress_duration"`
	MaxAccessEgressDurationForMode map[string]Duration `yaml:"max_access_egress_duration_for_mode"`

	LinkRadius float64 `yaml:"link_radius" validate:"gt=0"`

	NearbyStopCacheSize       int      `yaml:"nearby_stop_cache_size" validate:"gt=0"`
	NearbyStopCacheExpiration Duration `yaml:"nearby_stop_cache_expiration"`
}

type SearchConfig struct {
	SearchWindow       Duration `yaml:"search_window"`
	DirectSearchWindow Duration `yaml:"direct_search_window"`

	NumItineraries              int    `yaml:"num_itineraries" validate:"gt=0"`
	ItineraryFilterDebugProfile string `yaml:"itinerary_filter_debug_profile" validate:"oneof=off list-all limit-to-search-window limit-to-num-of-itineraries"`

	MaxNumberOfTransfers int     `yaml:"max_number_of_transfers" validate:"gte=0"`
	BoardCost            int     `yaml:"board_cost" validate:"gte=0"`
	TransferCost         int     `yaml:"transfer_cost" validate:"gte=0"`
	WaitReluctance       float64 `yaml:"wait_reluctance" validate:"gte=0"`
	TransitReluctance    float64 `yaml:"transit_reluctance" validate:"gte=0"`
}

type RideHailingConfig struct {
	Enabled        bool     `yaml:"enabled"`
	PickupEstimate Duration `yaml:"pickup_estimate"`
}

type FeatureFlags struct {
	ParallelRouting   bool `yaml:"parallel_routing"`
	OptimizeTransfers bool `yaml:"optimize_transfers"`
	FlexRouting       bool `yaml:"flex_routing"`
}

func Default() RouterConfig {
	return RouterConfig{
		TimeZone: "Europe/London",
		Transit: TransitConfig{
			AdditionalPastSearchDays:   1,
			AdditionalFutureSearchDays: 1,
			LoadDaysBefore:             1,
			LoadDaysAfter:              7,
		},
		Street: StreetConfig{
			MaxAccessEgressDuration: MustParseDuration("PT45M"),
			MaxAccessEgressDurationForMode: map[string]Duration{
				"WALK": MustParseDuration("PT20M"),
			},
			LinkRadius:                5000,
			NearbyStopCacheSize:       10000,
			NearbyStopCacheExpiration: MustParseDuration("PT1H"),
		},
		Search: SearchConfig{
			DirectSearchWindow:          MustParseDuration("PT40M"),
			NumItineraries:              20,
			ItineraryFilterDebugProfile: "off",
			MaxNumberOfTransfers:        12,
			BoardCost:                   600,
			TransferCost:                0,
			WaitReluctance:              1,
			TransitReluctance:           1,
		},
		RideHailing: RideHailingConfig{
			PickupEstimate: MustParseDuration("PT5M"),
		},
		Features: FeatureFlags{
			ParallelRouting:   true,
			OptimizeTransfers: true,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls back to
// TRAVIGO_PLANNER_CONFIG and then to the defaults alone. TRAVIGO_FEATURE_* variables
// override the feature flags.
func Load(path string) (RouterConfig, error) {
	env := util.GetEnvironmentVariables()

	if path == "" {
		path = env["TRAVIGO_PLANNER_CONFIG"]
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return RouterConfig{}, fmt.Errorf("reading config: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return RouterConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
		}

		log.Info().Str("path", path).Msg("Loaded router config")
	}

	applyFeatureOverrides(&cfg.Features, env)

	if err := cfg.Validate(); err != nil {
		return RouterConfig{}, err
	}

	return cfg, nil
}

func applyFeatureOverrides(features *FeatureFlags, env map[string]string) {
	overrides := map[string]*bool{
		"TRAVIGO_FEATURE_PARALLEL_ROUTING":   &features.ParallelRouting,
		"TRAVIGO_FEATURE_OPTIMIZE_TRANSFERS": &features.OptimizeTransfers,
		"TRAVIGO_FEATURE_FLEX_ROUTING":       &features.FlexRouting,
	}

	for name, flag := range overrides {
		if _, exists := env[name]; exists {
			*flag = util.EnvironmentFlag(env, name)
		}
	}
}

func (c RouterConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid router config: %w", err)
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid router config time zone: %w", err)
	}

	return nil
}

func (c RouterConfig) Location() *time.Location {
	location, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return location
}

// MaxAccessEgressDurationFor returns the per mode limit, falling back to the default
func (c StreetConfig) MaxAccessEgressDurationFor(mode string) time.Duration {
	if duration, exists := c.MaxAccessEgressDurationForMode[strings.ToUpper(mode)]; exists {
		return duration.Value()
	}
	return c.MaxAccessEgressDuration.Value()
}
