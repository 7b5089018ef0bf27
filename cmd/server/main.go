package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/david/store-finder/internal/api"
	"github.com/david/store-finder/internal/dataset"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	dataFile := os.Getenv("STORE_DATA_FILE")
	if dataFile == "" {
		dataFile = "../data/stores.json"
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	repo := dataset.NewRepository(dataFile)
	srv := api.NewServer(repo, api.Options{AllowedOrigins: origins})

	go func() {
		log.Printf("Server starting on port %s (snapshot %s)...", port, dataFile)
		if err := srv.Start(port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}
