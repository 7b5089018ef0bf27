package ingest

import (
	"errors"
	"fmt"
	"time"
)

// Source statuses returned in the body of every Places response.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusInvalidRequest = "INVALID_REQUEST"
)

var (
	ErrMissingAPIKey   = errors.New("GOOGLE_MAPS_API_KEY environment variable is required")
	ErrInvalidRegistry = errors.New("invalid harvest registry")
)

// TransportError is a non-2xx HTTP response from the Places service.
// It always aborts a harvest run.
type TransportError struct {
	Endpoint   string
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed with status %d", e.Endpoint, e.StatusCode)
}

// StatusError is a non-OK business status carried in a 2xx response body.
type StatusError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s error: %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s error: %s %s", e.Endpoint, e.Status, e.Message)
}

// PlaceSummary is one text search hit.
type PlaceSummary struct {
	PlaceID        string `json:"place_id"`
	Name           string `json:"name"`
	BusinessStatus string `json:"business_status,omitempty"`
}

type TextSearchResponse struct {
	Results       []PlaceSummary `json:"results"`
	Status        string         `json:"status"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

type weekdayText struct {
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// PlaceDetails mirrors the fields requested from the details endpoint.
type PlaceDetails struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	AdrAddress       string `json:"adr_address,omitempty"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Types                        []string     `json:"types,omitempty"`
	FormattedPhoneNumber         string       `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber     string       `json:"international_phone_number,omitempty"`
	OpeningHours                 *weekdayText `json:"opening_hours,omitempty"`
	CurrentOpeningHours          *weekdayText `json:"current_opening_hours,omitempty"`
	Website                      string       `json:"website,omitempty"`
	Delivery                     *bool        `json:"delivery,omitempty"`
	Takeout                      *bool        `json:"takeout,omitempty"`
	WheelchairAccessibleEntrance *bool        `json:"wheelchair_accessible_entrance,omitempty"`
	Rating                       *float64     `json:"rating,omitempty"`
	UserRatingsTotal             *int         `json:"user_ratings_total,omitempty"`
	URL                          string       `json:"url,omitempty"`
	BusinessStatus               string       `json:"business_status,omitempty"`
}

type DetailsResponse struct {
	Result       *PlaceDetails `json:"result,omitempty"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// Stats holds metrics about a harvest run.
type Stats struct {
	RunID      string
	Queries    int
	Candidates int // text search hits across all queries, before dedupe
	Unique     int
	Saved      int
	Skipped    int
	Duration   time.Duration
}
