package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/david/store-finder/internal/models"
)

// Terms shorter than this are matched exactly.
const minFuzzyLength = 4

// Index is an in-memory ranked keyword index over a store snapshot.
type Index struct {
	index bleve.Index
}

type storeDocument struct {
	Name       string
	Address    string
	Locality   string
	Categories []string
	Types      []string
}

// Hit is a single ranked match.
type Hit struct {
	PlaceID string
	Score   float64
}

func buildIndexMapping() mapping.IndexMapping {
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Name", nameFieldMapping)
	docMapping.AddFieldMappingsAt("Address", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Locality", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Categories", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Types", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Build indexes every store in one batch.
func Build(stores []models.Store) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, s := range stores {
		doc := storeDocument{
			Name:       s.Name,
			Address:    s.FormattedAddress,
			Locality:   s.Locality,
			Categories: s.Categories,
			Types:      s.Types,
		}
		if err := batch.Index(s.PlaceID, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("batch index %s: %w", s.PlaceID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return &Index{index: idx}, nil
}

// Search returns up to limit hits ordered by score. Misspellings of longer
// terms still match.
func (i *Index) Search(text string, limit int) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 {
		return []Hit{}, nil
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"Name", 3},
		{"Categories", 2},
		{"Locality", 1.5},
		{"Address", 1},
		{"Types", 1},
	}

	fuzzy := len([]rune(text)) >= minFuzzyLength
	clauses := make([]query.Query, 0, len(fields)+1)
	for _, f := range fields {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		if fuzzy {
			mq.SetFuzziness(1)
		}
		clauses = append(clauses, mq)
	}

	// Prefix on the name so partially typed words rank.
	if last := lastTerm(text); len(last) >= 2 {
		pq := bleve.NewPrefixQuery(last)
		pq.SetField("Name")
		clauses = append(clauses, pq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(clauses...), limit, 0, false)
	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, h := range results.Hits {
		hits = append(hits, Hit{PlaceID: h.ID, Score: h.Score})
	}
	return hits, nil
}

func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

func (i *Index) Close() error {
	return i.index.Close()
}

func lastTerm(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
