package ingest

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/harvest.yaml
var harvestYAML embed.FS

type LatLng struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// FetchConfig defines HTTP pacing for the Places source.
type FetchConfig struct {
	TimeoutSeconds   int     `yaml:"timeout_seconds,omitempty"`     // Default: 30
	RateLimitRPS     float64 `yaml:"rate_limit_rps,omitempty"`      // Details requests per second, default: 5
	MaxRetries       int     `yaml:"max_retries,omitempty"`         // Details transport retries, default: 0 (abort)
	PageTokenDelayMS int     `yaml:"page_token_delay_ms,omitempty"` // Default: 2000
}

// HarvestConfig is the fixed search plan for one region.
type HarvestConfig struct {
	Name         string      `yaml:"name"`
	RegionCode   string      `yaml:"region_code"`
	Center       LatLng      `yaml:"center"`
	RadiusMeters int         `yaml:"radius_meters"`
	Queries      []string    `yaml:"queries"`
	Fetch        FetchConfig `yaml:"fetch,omitempty"`
}

// LoadHarvestConfig reads the harvest plan from path, or the embedded default
// when path is empty. ${VAR} references are expanded from the environment.
func LoadHarvestConfig(path string) (*HarvestConfig, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = harvestYAML.ReadFile("config/harvest.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("reading harvest config: %w", err)
	}

	return ParseHarvestConfig(data)
}

func ParseHarvestConfig(data []byte) (*HarvestConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg HarvestConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing harvest config: %w", err)
	}

	if cfg.Fetch.RateLimitRPS == 0 {
		cfg.Fetch.RateLimitRPS = 5
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv applies GOOGLE_MAPS_SEARCH_RADIUS_METERS on top of the file values.
func (c *HarvestConfig) ApplyEnv() error {
	raw := strings.TrimSpace(os.Getenv("GOOGLE_MAPS_SEARCH_RADIUS_METERS"))
	if raw == "" {
		return nil
	}
	radius, err := strconv.Atoi(raw)
	if err != nil || radius <= 0 {
		return fmt.Errorf("%w: GOOGLE_MAPS_SEARCH_RADIUS_METERS=%q", ErrInvalidRegistry, raw)
	}
	c.RadiusMeters = radius
	return nil
}

func (c *HarvestConfig) Validate() error {
	queries := c.Queries[:0]
	for _, q := range c.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	c.Queries = queries

	if len(c.Queries) == 0 {
		return fmt.Errorf("%w: no search queries", ErrInvalidRegistry)
	}
	if c.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius_meters must be positive", ErrInvalidRegistry)
	}
	if c.Fetch.RateLimitRPS < 0 || c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("%w: fetch settings must not be negative", ErrInvalidRegistry)
	}
	return nil
}
