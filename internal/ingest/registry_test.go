package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadHarvestConfigEmbedded(t *testing.T) {
	cfg, err := LoadHarvestConfig("")
	if err != nil {
		t.Fatalf("failed to load embedded config: %v", err)
	}

	if len(cfg.Queries) != 15 {
		t.Errorf("expected 15 queries, got %d", len(cfg.Queries))
	}
	if cfg.Queries[0] != "grocery store in Red Deer, Alberta" {
		t.Errorf("unexpected first query %q", cfg.Queries[0])
	}
	if cfg.RadiusMeters != 35000 {
		t.Errorf("expected radius 35000, got %d", cfg.RadiusMeters)
	}
	if cfg.RegionCode != "ca" {
		t.Errorf("expected region ca, got %s", cfg.RegionCode)
	}
	if cfg.Center.Lat != 52.268157 || cfg.Center.Lng != -113.811573 {
		t.Errorf("unexpected center %+v", cfg.Center)
	}
	if cfg.Fetch.RateLimitRPS != 5 {
		t.Errorf("expected 5 rps, got %v", cfg.Fetch.RateLimitRPS)
	}
	if cfg.Fetch.MaxRetries != 0 {
		t.Errorf("expected retries disabled by default, got %d", cfg.Fetch.MaxRetries)
	}
}

func TestParseHarvestConfig(t *testing.T) {
	t.Setenv("TEST_HARVEST_TOWN", "Lacombe")

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *HarvestConfig)
	}{
		{
			name: "Env expansion and trimming",
			yaml: `
region_code: ca
radius_meters: 1000
queries:
  - "  bakery in ${TEST_HARVEST_TOWN}  "
  - ""
`,
			check: func(t *testing.T, cfg *HarvestConfig) {
				if len(cfg.Queries) != 1 || cfg.Queries[0] != "bakery in Lacombe" {
					t.Errorf("unexpected queries %q", cfg.Queries)
				}
				if cfg.Fetch.RateLimitRPS != 5 {
					t.Errorf("expected default rps 5, got %v", cfg.Fetch.RateLimitRPS)
				}
			},
		},
		{
			name:    "No queries",
			yaml:    "radius_meters: 1000\nqueries: []\n",
			wantErr: true,
		},
		{
			name:    "Zero radius",
			yaml:    "radius_meters: 0\nqueries: [a]\n",
			wantErr: true,
		},
		{
			name:    "Negative retries",
			yaml:    "radius_meters: 10\nqueries: [a]\nfetch:\n  max_retries: -1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseHarvestConfig([]byte(tt.yaml))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRegistry) {
					t.Fatalf("expected ErrInvalidRegistry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadHarvestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvest.yaml")
	if err := os.WriteFile(path, []byte("radius_meters: 500\nqueries: [butcher in Penhold]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadHarvestConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RadiusMeters != 500 || len(cfg.Queries) != 1 {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := LoadHarvestConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg, err := LoadHarvestConfig("")
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("GOOGLE_MAPS_SEARCH_RADIUS_METERS", "12000")
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RadiusMeters != 12000 {
		t.Errorf("expected radius 12000, got %d", cfg.RadiusMeters)
	}

	t.Setenv("GOOGLE_MAPS_SEARCH_RADIUS_METERS", "wide")
	if err := cfg.ApplyEnv(); !errors.Is(err, ErrInvalidRegistry) {
		t.Errorf("expected ErrInvalidRegistry, got %v", err)
	}
	if cfg.RadiusMeters != 12000 {
		t.Errorf("radius should be unchanged after invalid override, got %d", cfg.RadiusMeters)
	}
}
