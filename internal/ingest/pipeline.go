package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/david/store-finder/internal/models"
)

// PlacesSource is the subset of the Places API a harvest run needs.
type PlacesSource interface {
	SearchAll(ctx context.Context, query string) ([]PlaceSummary, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// RunRecorder persists harvest run bookkeeping. Failures are logged only.
type RunRecorder interface {
	StartRun(ctx context.Context, runID string, queries []string, snapshotPath string) error
	FinishRun(ctx context.Context, runID string, stats Stats, runErr error) error
}

// Pipeline runs discovery, enrichment, normalization and persistence for one region.
type Pipeline struct {
	Source     PlacesSource
	Config     *HarvestConfig
	OutputPath string
	Limiter    *rate.Limiter
	Recorder   RunRecorder
	Now        func() time.Time

	// RetryBackoff is multiplied by the attempt number between details retries.
	RetryBackoff time.Duration
}

func NewPipeline(source PlacesSource, cfg *HarvestConfig, outputPath string) *Pipeline {
	limit := rate.Inf
	if cfg.Fetch.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.Fetch.RateLimitRPS)
	}
	return &Pipeline{
		Source:     source,
		Config:     cfg,
		OutputPath: outputPath,
		Limiter:    rate.NewLimiter(limit, 1),
		Now:        time.Now,

		RetryBackoff: time.Second,
	}
}

// Run performs a full harvest and replaces the snapshot at OutputPath.
// On any error the previous snapshot is left untouched.
func (p *Pipeline) Run(ctx context.Context) (*models.StoreDataset, Stats, error) {
	start := time.Now()
	stats := Stats{
		RunID:   uuid.New().String()[:8],
		Queries: len(p.Config.Queries),
	}

	if p.Recorder != nil {
		if err := p.Recorder.StartRun(ctx, stats.RunID, p.Config.Queries, p.OutputPath); err != nil {
			log.Printf("[Ledger] Failed to record start of run %s: %v", stats.RunID, err)
		}
	}

	dataset, err := p.run(ctx, &stats)
	stats.Duration = time.Since(start)

	if p.Recorder != nil {
		if recErr := p.Recorder.FinishRun(context.WithoutCancel(ctx), stats.RunID, stats, err); recErr != nil {
			log.Printf("[Ledger] Failed to record end of run %s: %v", stats.RunID, recErr)
		}
	}
	if err != nil {
		return nil, stats, err
	}
	return dataset, stats, nil
}

func (p *Pipeline) run(ctx context.Context, stats *Stats) (*models.StoreDataset, error) {
	log.Printf("[Harvest] Run %s: fetching store candidates for %d queries...", stats.RunID, len(p.Config.Queries))
	candidates, found, err := p.Discover(ctx)
	if err != nil {
		return nil, err
	}
	stats.Candidates = found
	stats.Unique = len(candidates)

	log.Printf("[Harvest] Discovered %d unique places. Fetching details...", len(candidates))
	stores, skipped, err := p.Enrich(ctx, candidates)
	stats.Skipped = skipped
	if err != nil {
		return nil, err
	}

	dataset := Assemble(stores, p.Config.Queries, p.now())
	stats.Saved = len(dataset.Stores)

	if err := WriteSnapshot(p.OutputPath, dataset); err != nil {
		return nil, err
	}

	log.Printf("[Harvest] Stored %d stores to %s", stats.Saved, p.OutputPath)
	return dataset, nil
}

// Discover runs every configured query concurrently and returns the
// deduplicated candidates plus the raw hit count. Any query failure is fatal.
func (p *Pipeline) Discover(ctx context.Context) ([]PlaceSummary, int, error) {
	results := make([][]PlaceSummary, len(p.Config.Queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range p.Config.Queries {
		i, query := i, query
		g.Go(func() error {
			places, err := p.Source.SearchAll(gctx, query)
			if err != nil {
				return fmt.Errorf("text search %q: %w", query, err)
			}
			results[i] = places
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	found := 0
	for _, r := range results {
		found += len(r)
	}
	return DedupePlaces(results), found, nil
}

// DedupePlaces flattens per-query results, keeping the first occurrence of each place_id.
func DedupePlaces(results [][]PlaceSummary) []PlaceSummary {
	seen := make(map[string]struct{})
	var unique []PlaceSummary
	for _, places := range results {
		for _, place := range places {
			if place.PlaceID == "" {
				continue
			}
			if _, ok := seen[place.PlaceID]; ok {
				continue
			}
			seen[place.PlaceID] = struct{}{}
			unique = append(unique, place)
		}
	}
	return unique
}

// Enrich fetches details one place at a time. A non-OK status skips the place;
// a transport failure aborts the run.
func (p *Pipeline) Enrich(ctx context.Context, candidates []PlaceSummary) ([]models.Store, int, error) {
	stores := make([]models.Store, 0, len(candidates))
	skipped := 0

	for _, candidate := range candidates {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil, skipped, err
		}

		details, err := p.fetchDetails(ctx, candidate.PlaceID)
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			log.Printf("[Harvest] Skipping place %s: %s %s", candidate.PlaceID, statusErr.Status, statusErr.Message)
			skipped++
			continue
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("place details %s: %w", candidate.PlaceID, err)
		}

		if details.PlaceID == "" {
			details.PlaceID = candidate.PlaceID
		}
		stores = append(stores, FromDetails(*details, p.now()))
	}

	return stores, skipped, nil
}

func (p *Pipeline) fetchDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	for attempt := 0; ; attempt++ {
		details, err := p.Source.Details(ctx, placeID)
		if err == nil || attempt >= p.Config.Fetch.MaxRetries || !retryable(ctx, err) {
			return details, err
		}

		backoff := time.Duration(attempt+1) * p.RetryBackoff
		log.Printf("[Harvest] Details for %s failed (%v), retrying in %s", placeID, err, backoff)
		if err := sleepContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

func retryable(ctx context.Context, err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	return ctx.Err() == nil
}

// Assemble sorts stores by name and wraps them with run metadata. Places whose
// details resolved to an already-seen place_id are dropped.
func Assemble(stores []models.Store, queries []string, generatedAt time.Time) *models.StoreDataset {
	seen := make(map[string]struct{}, len(stores))
	out := make([]models.Store, 0, len(stores))
	for _, s := range stores {
		if _, ok := seen[s.PlaceID]; ok {
			continue
		}
		seen[s.PlaceID] = struct{}{}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	sourceQueries := make([]string, len(queries))
	copy(sourceQueries, queries)

	return &models.StoreDataset{
		Stores: out,
		Metadata: models.DatasetMetadata{
			GeneratedAt:   models.NewTimestamp(generatedAt),
			SourceQueries: sourceQueries,
		},
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
