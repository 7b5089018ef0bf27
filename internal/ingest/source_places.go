package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	textSearchEndpoint = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	detailsEndpoint    = "https://maps.googleapis.com/maps/api/place/details/json"

	// The Places service rejects a next_page_token used before it has activated.
	defaultPageTokenDelay = 2 * time.Second
)

// detailFields is the field mask sent with every details request.
var detailFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"adr_address",
	"geometry/location",
	"types",
	"formatted_phone_number",
	"international_phone_number",
	"opening_hours/weekday_text",
	"current_opening_hours/weekday_text",
	"website",
	"delivery",
	"takeout",
	"wheelchair_accessible_entrance",
	"rating",
	"user_ratings_total",
	"url",
	"business_status",
}

// PlacesClient talks to the Google Places text search and details endpoints.
type PlacesClient struct {
	Client         *http.Client
	APIKey         string
	TextSearchURL  string
	DetailsURL     string
	RegionCode     string
	Center         LatLng
	RadiusMeters   int
	PageTokenDelay time.Duration
}

func NewPlacesClient(apiKey string, cfg *HarvestConfig) *PlacesClient {
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	delay := defaultPageTokenDelay
	if cfg.Fetch.PageTokenDelayMS > 0 {
		delay = time.Duration(cfg.Fetch.PageTokenDelayMS) * time.Millisecond
	}

	return &PlacesClient{
		Client: &http.Client{
			Timeout: timeout,
		},
		APIKey:         apiKey,
		TextSearchURL:  textSearchEndpoint,
		DetailsURL:     detailsEndpoint,
		RegionCode:     cfg.RegionCode,
		Center:         cfg.Center,
		RadiusMeters:   cfg.RadiusMeters,
		PageTokenDelay: delay,
	}
}

// TextSearch fetches a single page of results for query.
func (c *PlacesClient) TextSearch(ctx context.Context, query, pageToken string) (*TextSearchResponse, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("query", query)
	if c.RegionCode != "" {
		params.Set("region", c.RegionCode)
	}
	params.Set("location", fmt.Sprintf("%s,%s", formatCoord(c.Center.Lat), formatCoord(c.Center.Lng)))
	params.Set("radius", strconv.Itoa(c.RadiusMeters))
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var payload TextSearchResponse
	if err := c.getJSON(ctx, "Google Places text search", c.TextSearchURL, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchAll follows next_page_token until the source stops returning one.
// ZERO_RESULTS ends the query without error; INVALID_REQUEST pages are tolerated.
func (c *PlacesClient) SearchAll(ctx context.Context, query string) ([]PlaceSummary, error) {
	var accumulated []PlaceSummary
	pageToken := ""

	for {
		payload, err := c.TextSearch(ctx, query, pageToken)
		if err != nil {
			return nil, err
		}

		if payload.Status == StatusZeroResults {
			return accumulated, nil
		}
		if payload.Status != StatusOK && payload.Status != StatusInvalidRequest {
			return nil, &StatusError{
				Endpoint: "Google Places text search",
				Status:   payload.Status,
				Message:  payload.ErrorMessage,
			}
		}

		accumulated = append(accumulated, payload.Results...)

		pageToken = payload.NextPageToken
		if pageToken == "" {
			return accumulated, nil
		}

		log.Printf("[Places] %q: %d results so far, waiting for next page", query, len(accumulated))
		if err := sleepContext(ctx, c.PageTokenDelay); err != nil {
			return nil, err
		}
	}
}

// Details fetches the full record for one place. A non-OK status is returned
// as *StatusError, a non-2xx response as *TransportError.
func (c *PlacesClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("fields", strings.Join(detailFields, ","))
	params.Set("place_id", placeID)

	var payload DetailsResponse
	if err := c.getJSON(ctx, "Google Place details", c.DetailsURL, params, &payload); err != nil {
		return nil, err
	}

	if payload.Status != StatusOK || payload.Result == nil {
		return nil, &StatusError{
			Endpoint: "Google Place details",
			Status:   payload.Status,
			Message:  payload.ErrorMessage,
		}
	}
	return payload.Result, nil
}

func (c *PlacesClient) getJSON(ctx context.Context, endpoint, baseURL string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
