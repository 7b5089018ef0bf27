package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/store-finder/internal/dataset"
	"github.com/david/store-finder/internal/ingest"
)

func main() {
	path := os.Getenv("STORE_DATA_FILE")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		path = "../data/stores.json"
	}

	ds, err := dataset.NewRepository(path).Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	var withPhone, withWebsite, withHours, withRating, withLocality int
	byLocality := map[string]int{}
	byCategory := map[string]int{}
	seen := map[string]bool{}
	var problems []string

	for i, s := range ds.Stores {
		if seen[s.PlaceID] {
			problems = append(problems, fmt.Sprintf("duplicate placeId %s", s.PlaceID))
		}
		seen[s.PlaceID] = true
		if len(s.Categories) == 0 {
			problems = append(problems, fmt.Sprintf("%s has no categories", s.PlaceID))
		}
		if i > 0 && ds.Stores[i-1].Name > s.Name {
			problems = append(problems, fmt.Sprintf("%q is out of order", s.Name))
		}

		if s.PhoneNumber != "" {
			withPhone++
		}
		if s.Website != "" {
			withWebsite++
		}
		if s.OpeningHours != nil {
			withHours++
		}
		if s.Rating != nil {
			withRating++
		}
		if s.Locality != "" {
			withLocality++
			byLocality[s.Locality]++
		}
		for _, c := range s.Categories {
			byCategory[c]++
		}
	}

	fmt.Printf("Snapshot: %s\n", path)
	fmt.Printf("Generated At: %s\n", ds.Metadata.GeneratedAt)
	fmt.Printf("Source Queries: %d\n", len(ds.Metadata.SourceQueries))
	fmt.Printf("Total Stores: %d\n", len(ds.Stores))
	fmt.Printf("With Phone: %d\n", withPhone)
	fmt.Printf("With Website: %d\n", withWebsite)
	fmt.Printf("With Hours: %d\n", withHours)
	fmt.Printf("With Rating: %d\n", withRating)
	fmt.Printf("With Locality: %d\n", withLocality)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Category", "Stores"})
	for _, c := range ingest.KnownCategories() {
		t.AppendRow(table.Row{c, byCategory[c]})
	}
	t.Render()

	if len(byLocality) > 0 {
		towns := make([]string, 0, len(byLocality))
		for town := range byLocality {
			towns = append(towns, town)
		}
		sort.Strings(towns)

		lt := table.NewWriter()
		lt.SetOutputMirror(os.Stdout)
		lt.AppendHeader(table.Row{"Locality", "Stores"})
		for _, town := range towns {
			lt.AppendRow(table.Row{town, byLocality[town]})
		}
		lt.Render()
	}

	if len(problems) > 0 {
		for _, p := range problems {
			log.Printf("Problem: %s", p)
		}
		os.Exit(1)
	}
}
