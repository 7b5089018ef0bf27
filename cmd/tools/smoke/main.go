package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type storesResponse struct {
	Stores []struct {
		PlaceID string `json:"placeId"`
		Name    string `json:"name"`
	} `json:"stores"`
	Total       int    `json:"total"`
	GeneratedAt string `json:"generatedAt"`
}

func main() {
	base := strings.TrimRight(os.Getenv("STORE_API_URL"), "/")
	if base == "" {
		base = "http://localhost:4000"
	}
	query := ""
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(base + "/health")
	if err != nil {
		fmt.Printf("Error checking health: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	fmt.Printf("Health: %s\n", resp.Status)
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}

	target := base + "/stores"
	if query != "" {
		target += "?q=" + url.QueryEscape(query)
	}
	resp, err = client.Get(target)
	if err != nil {
		fmt.Printf("Error listing stores: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("Stores: %s\n", resp.Status)
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}

	var body storesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Total: %d (as of %s)\n", body.Total, body.GeneratedAt)
	for _, s := range body.Stores {
		fmt.Printf("  %s  %s\n", s.PlaceID, s.Name)
	}
}
