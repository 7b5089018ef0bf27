package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/david/store-finder/internal/dataset"
	"github.com/david/store-finder/internal/models"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type storesResponse struct {
	Stores      []models.Store   `json:"stores"`
	Total       int              `json:"total"`
	GeneratedAt models.Timestamp `json:"generatedAt"`
}

type metadataResponse struct {
	GeneratedAt   models.Timestamp `json:"generatedAt"`
	SourceQueries []string         `json:"sourceQueries"`
	Total         int              `json:"total"`
	Categories    []categoryCount  `json:"categories"`
}

type categoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListStores(c echo.Context) error {
	params := c.QueryParams()
	q, ok := queryParam(params, "q")
	if !ok {
		return jsonError(c, http.StatusBadRequest, errInvalidQuery)
	}
	category, ok := queryParam(params, "type")
	if !ok {
		return jsonError(c, http.StatusBadRequest, errInvalidQuery)
	}

	ds, err := s.Repo.Load(c.Request().Context())
	if err != nil {
		return err
	}

	stores := FilterStores(ds.Stores, q, category)
	return c.JSON(http.StatusOK, storesResponse{
		Stores:      stores,
		Total:       len(stores),
		GeneratedAt: s.now(),
	})
}

func (s *Server) handleGetStore(c echo.Context) error {
	store, err := s.Repo.GetByPlaceID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, dataset.ErrStoreNotFound) {
		return jsonError(c, http.StatusNotFound, errStoreNotFound)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store)
}

func (s *Server) handleSearch(c echo.Context) error {
	params := c.QueryParams()
	q, ok := queryParam(params, "q")
	if !ok || strings.TrimSpace(q) == "" {
		return jsonError(c, http.StatusBadRequest, errInvalidQuery)
	}
	category, ok := queryParam(params, "type")
	if !ok {
		return jsonError(c, http.StatusBadRequest, errInvalidQuery)
	}
	limitStr, ok := queryParam(params, "limit")
	if !ok {
		return jsonError(c, http.StatusBadRequest, errInvalidQuery)
	}

	limit := defaultSearchLimit
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 || l > maxSearchLimit {
			return jsonError(c, http.StatusBadRequest, errInvalidQuery)
		}
		limit = l
	}

	idx, ds, err := s.searchIndex(c.Request().Context())
	if err != nil {
		return err
	}
	// Over-fetch so the category filter can still fill the page.
	fetch := limit
	if category != "" {
		fetch = len(ds.Stores)
	}
	hits, err := idx.Search(q, fetch)
	if err != nil {
		return err
	}

	byID := make(map[string]int, len(ds.Stores))
	for i := range ds.Stores {
		byID[ds.Stores[i].PlaceID] = i
	}

	ranked := make([]models.Store, 0, len(hits))
	for _, h := range hits {
		i, ok := byID[h.PlaceID]
		if !ok {
			continue
		}
		ranked = append(ranked, ds.Stores[i])
	}
	ranked = FilterStores(ranked, "", category)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return c.JSON(http.StatusOK, storesResponse{
		Stores:      ranked,
		Total:       len(ranked),
		GeneratedAt: s.now(),
	})
}

func (s *Server) handleMetadata(c echo.Context) error {
	ds, err := s.Repo.Load(c.Request().Context())
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, store := range ds.Stores {
		for _, cat := range store.Categories {
			counts[cat]++
		}
	}
	categories := make([]categoryCount, 0, len(counts))
	for cat, n := range counts {
		categories = append(categories, categoryCount{Category: cat, Count: n})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Category < categories[j].Category
	})

	sourceQueries := ds.Metadata.SourceQueries
	if sourceQueries == nil {
		sourceQueries = []string{}
	}

	return c.JSON(http.StatusOK, metadataResponse{
		GeneratedAt:   ds.Metadata.GeneratedAt,
		SourceQueries: sourceQueries,
		Total:         len(ds.Stores),
		Categories:    categories,
	})
}
