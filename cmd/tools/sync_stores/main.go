package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/store-finder/internal/db"
	"github.com/david/store-finder/internal/ingest"
)

func main() {
	configPath := flag.String("config", os.Getenv("HARVEST_CONFIG"), "Harvest config YAML (defaults to the embedded Red Deer plan)")
	output := flag.String("out", os.Getenv("STORE_DATA_FILE"), "Snapshot path (default ../data/stores.json)")
	flag.Parse()

	if *output == "" {
		*output = "../data/stores.json"
	}

	apiKey := strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	if apiKey == "" {
		log.Fatalf("Harvest failed: %v", ingest.ErrMissingAPIKey)
	}

	cfg, err := ingest.LoadHarvestConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load harvest config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := ingest.NewPipeline(ingest.NewPlacesClient(apiKey, cfg), cfg, *output)

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.Connect(connectCtx, dbURL)
		if err == nil {
			err = db.ApplyMigrations(connectCtx, pool)
			if err != nil {
				pool.Close()
			}
		}
		cancel()

		if err != nil {
			log.Printf("[Ledger] Run ledger disabled: %v", err)
		} else {
			defer pool.Close()
			pipeline.Recorder = db.NewRunStore(pool)
		}
	}

	log.Printf("Starting harvest for %s (%d queries, radius %dm)", cfg.Name, len(cfg.Queries), cfg.RadiusMeters)
	_, stats, err := pipeline.Run(ctx)
	if err != nil {
		var transportErr *ingest.TransportError
		if errors.As(err, &transportErr) {
			log.Printf("[Harvest] Aborted on transport failure, previous snapshot kept")
		}
		log.Fatalf("Harvest failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Queries", "Candidates", "Unique", "Saved", "Skipped", "Duration"})
	t.AppendRow(table.Row{stats.RunID, stats.Queries, stats.Candidates, stats.Unique, stats.Saved, stats.Skipped, stats.Duration.Round(time.Millisecond).String()})
	t.Render()
}
