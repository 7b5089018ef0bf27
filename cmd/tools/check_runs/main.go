package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/store-finder/internal/db"
)

func main() {
	limit := flag.Int("n", 10, "Number of runs to show")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	runs, err := db.NewRunStore(pool).ListRuns(ctx, *limit)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Status", "Candidates", "Unique", "Saved", "Skipped", "Duration", "Started At", "Error"})

	for _, r := range runs {
		duration := "Running..."
		if r.CompletedAt != nil {
			duration = r.Duration().Round(time.Second).String()
		}
		errText := ""
		if r.Error != nil {
			errText = *r.Error
		}

		t.AppendRow(table.Row{r.RunID, r.Status, r.Candidates, r.Unique, r.Saved, r.Skipped, duration, r.StartedAt.Local().Format("2006-01-02 15:04:05"), errText})
	}
	t.Render()
}
