package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/store-finder/internal/models"
	"github.com/david/store-finder/internal/search"
)

// StoreRepository is the read side of the dataset store.
type StoreRepository interface {
	Load(ctx context.Context) (*models.StoreDataset, error)
	GetByPlaceID(ctx context.Context, placeID string) (*models.Store, error)
}

type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

type Server struct {
	Repo StoreRepository
	Echo *echo.Echo
	Now  func() time.Time

	// Ranked search index, built from the dataset on first use
	searchMu sync.Mutex
	index    *search.Index
}

func NewServer(repo StoreRepository, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Repo: repo,
		Echo: e,
		Now:  time.Now,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/stores", s.handleListStores)
	s.Echo.GET("/stores/:id", s.handleGetStore)
	s.Echo.GET("/search", s.handleSearch)
	s.Echo.GET("/metadata", s.handleMetadata)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

// Shutdown drains in-flight requests before releasing the search index.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)

	s.searchMu.Lock()
	if s.index != nil {
		s.index.Close()
		s.index = nil
	}
	s.searchMu.Unlock()
	return err
}

func (s *Server) searchIndex(ctx context.Context) (*search.Index, *models.StoreDataset, error) {
	ds, err := s.Repo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.searchMu.Lock()
	defer s.searchMu.Unlock()
	if s.index == nil {
		idx, err := search.Build(ds.Stores)
		if err != nil {
			return nil, nil, err
		}
		s.index = idx
	}
	return s.index, ds, nil
}

func (s *Server) now() models.Timestamp {
	if s.Now == nil {
		return models.NewTimestamp(time.Now())
	}
	return models.NewTimestamp(s.Now())
}
