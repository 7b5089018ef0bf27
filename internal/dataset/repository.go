package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"github.com/david/store-finder/internal/models"
)

var ErrStoreNotFound = errors.New("store not found")

// Repository serves the harvested snapshot. The file is read on first use
// and cached for the lifetime of the process.
type Repository struct {
	path string

	mu      sync.Mutex
	dataset *models.StoreDataset
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) Path() string {
	return r.path
}

// Load returns the cached dataset, reading it from disk on the first call.
// A missing file yields an empty dataset; any other failure is returned and
// retried on the next call.
func (r *Repository) Load(ctx context.Context) (*models.StoreDataset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dataset != nil {
		return r.dataset, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Dataset] No snapshot at %s, serving empty dataset", r.path)
		r.dataset = models.EmptyDataset()
		return r.dataset, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", r.path, err)
	}

	var ds models.StoreDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", r.path, err)
	}
	if ds.Stores == nil {
		ds.Stores = []models.Store{}
	}
	if ds.Metadata.SourceQueries == nil {
		ds.Metadata.SourceQueries = []string{}
	}

	log.Printf("[Dataset] Loaded %d stores from %s", len(ds.Stores), r.path)
	r.dataset = &ds
	return r.dataset, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]models.Store, error) {
	ds, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Stores, nil
}

// GetByPlaceID returns ErrStoreNotFound when no store carries placeID.
func (r *Repository) GetByPlaceID(ctx context.Context, placeID string) (*models.Store, error) {
	stores, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stores {
		if stores[i].PlaceID == placeID {
			s := stores[i]
			return &s, nil
		}
	}
	return nil, ErrStoreNotFound
}
