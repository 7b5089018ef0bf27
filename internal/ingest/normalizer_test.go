package ingest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/david/store-finder/internal/models"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestFromDetails(t *testing.T) {
	synced := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	var d PlaceDetails
	d.PlaceID = "abc123"
	d.Name = " Ajax Grocers "
	d.FormattedAddress = "1 Main St, Red Deer, AB T4N 1A1, Canada"
	d.AdrAddress = `<span class="street-address">1 Main St</span>, <span class="locality">Red Deer</span>, <span class="region">AB</span>`
	d.Geometry.Location.Lat = 52.27
	d.Geometry.Location.Lng = -113.81
	d.Types = []string{"supermarket", "food", "point_of_interest"}
	d.FormattedPhoneNumber = "(403) 555-0100"
	d.Website = "https://ajax.example.com"
	d.Rating = floatPtr(4.5)
	d.UserRatingsTotal = intPtr(120)
	d.Delivery = boolPtr(false)
	d.OpeningHours = &weekdayText{WeekdayText: []string{"Monday: 8:00 AM – 9:00 PM"}}
	d.URL = "https://maps.google.com/?cid=1"
	d.BusinessStatus = "OPERATIONAL"

	got := FromDetails(d, synced)

	want := models.Store{
		PlaceID:          "abc123",
		Name:             "Ajax Grocers",
		FormattedAddress: "1 Main St, Red Deer, AB T4N 1A1, Canada",
		Locality:         "Red Deer",
		Location:         models.Location{Lat: 52.27, Lng: -113.81},
		GoogleMapsURI:    "https://maps.google.com/?cid=1",
		BusinessStatus:   "OPERATIONAL",
		PhoneNumber:      "(403) 555-0100",
		Website:          "https://ajax.example.com",
		Types:            []string{"supermarket", "food", "point_of_interest"},
		Categories:       []string{"FOOD_SPECIALTY", "SUPERMARKET"},
		Rating:           floatPtr(4.5),
		UserRatingsTotal: intPtr(120),
		OpeningHours:     &models.StoreHours{WeekdayText: []string{"Monday: 8:00 AM – 9:00 PM"}},
		Delivery:         boolPtr(false),
		LastSyncedAt:     models.NewTimestamp(synced),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromDetails mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDetailsDefaults(t *testing.T) {
	var d PlaceDetails
	d.PlaceID = "xyz"
	d.Name = "Zeta Mart"

	got := FromDetails(d, time.Unix(0, 0))

	if got.Types == nil || len(got.Types) != 0 {
		t.Errorf("expected empty non-nil types, got %#v", got.Types)
	}
	if diff := cmp.Diff([]string{"UNCLASSIFIED"}, got.Categories); diff != "" {
		t.Errorf("categories mismatch:\n%s", diff)
	}
	wantURI := "https://www.google.com/maps/search/?api=1&query=Zeta%20Mart&query_place_id=xyz"
	if got.GoogleMapsURI != wantURI {
		t.Errorf("expected fallback uri %s, got %s", wantURI, got.GoogleMapsURI)
	}
	if got.OpeningHours != nil {
		t.Errorf("expected no opening hours, got %+v", got.OpeningHours)
	}
	if got.Rating != nil || got.Delivery != nil {
		t.Errorf("expected absent optionals to stay nil")
	}
}

func TestMapsSearchURI(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		placeID string
		want    string
	}{
		{"Plain", "Costco", "p1", "https://www.google.com/maps/search/?api=1&query=Costco&query_place_id=p1"},
		{"Spaces", "Save On Foods", "p2", "https://www.google.com/maps/search/?api=1&query=Save%20On%20Foods&query_place_id=p2"},
		{"Reserved characters", "Sobeys & Co/Deli", "p3", "https://www.google.com/maps/search/?api=1&query=Sobeys%20%26%20Co%2FDeli&query_place_id=p3"},
		{"Component-safe punctuation", "Joe's Market (Deli)!*", "p4", "https://www.google.com/maps/search/?api=1&query=Joe's%20Market%20(Deli)!*&query_place_id=p4"},
		{"Plus and tilde", "A+B ~Foods", "p5", "https://www.google.com/maps/search/?api=1&query=A%2BB%20~Foods&query_place_id=p5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapsSearchURI(tt.store, tt.placeID); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestExtractLocality(t *testing.T) {
	tests := []struct {
		name string
		adr  string
		want string
	}{
		{"Empty", "", ""},
		{"No locality span", `<span class="street-address">5 Gaetz Ave</span>`, ""},
		{"Locality present", `<span class="street-address">5 Gaetz Ave</span>, <span class="locality">Sylvan Lake</span>, <span class="region">AB</span>`, "Sylvan Lake"},
		{"Entities decoded", `<span class="locality">Fort &amp; Town</span>`, "Fort & Town"},
		{"Script content dropped", `<span class="locality">Penhold<script>alert(1)</script></span>`, "Penhold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractLocality(tt.adr); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFromDetailsPassesHoursThrough(t *testing.T) {
	weekday := []string{"Monday: 8:00\u202fAM\u2009\u2013\u200910:00\u202fPM", "", "Tuesday:  Closed "}
	current := []string{"Monday: 9:00\u202fAM\u2009\u2013\u20095:00\u202fPM"}

	var d PlaceDetails
	d.PlaceID = "hours"
	d.Name = "Night Owl Foods"
	d.OpeningHours = &weekdayText{WeekdayText: weekday}
	d.CurrentOpeningHours = &weekdayText{WeekdayText: current}

	got := FromDetails(d, time.Unix(0, 0))
	if got.OpeningHours == nil {
		t.Fatal("expected opening hours")
	}
	if diff := cmp.Diff(weekday, got.OpeningHours.WeekdayText); diff != "" {
		t.Errorf("weekday text changed (-source +stored):\n%s", diff)
	}
	if diff := cmp.Diff(current, got.OpeningHours.CurrentOpeningHours); diff != "" {
		t.Errorf("current opening hours changed (-source +stored):\n%s", diff)
	}
	if got.OpeningHours.WeekdayText[0] != "Monday: 8:00\u202fAM\u2009\u2013\u200910:00\u202fPM" {
		t.Errorf("expected narrow spacing kept byte for byte, got %q", got.OpeningHours.WeekdayText[0])
	}

	weekday[0] = "mutated"
	if got.OpeningHours.WeekdayText[0] == "mutated" {
		t.Error("stored hours must not alias the source slice")
	}
}

func TestFromDetailsKeepsDisplayText(t *testing.T) {
	tests := []struct {
		name        string
		placeName   string
		address     string
		wantName    string
		wantAddress string
	}{
		{"Angle bracket in name", "Fresh<Mart", "1 Main St", "Fresh<Mart", "1 Main St"},
		{"Bracketed word", "Tom & Jerry <Grocery> Ltd", "2 <Unit B> Ross St", "Tom & Jerry <Grocery> Ltd", "2 <Unit B> Ross St"},
		{"Inner spacing kept", "Bob's  Market", "3  Oak St", "Bob's  Market", "3  Oak St"},
		{"Outer space trimmed", "  Sunrise Bakery\n", " 4 Gaetz Ave ", "Sunrise Bakery", "4 Gaetz Ave"},
		{"Invalid UTF-8 dropped", "bad\xffbyte", "5 Elm St", "badbyte", "5 Elm St"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d PlaceDetails
			d.PlaceID = "p"
			d.Name = tt.placeName
			d.FormattedAddress = tt.address

			got := FromDetails(d, time.Unix(0, 0))
			if got.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got.Name)
			}
			if got.FormattedAddress != tt.wantAddress {
				t.Errorf("expected address %q, got %q", tt.wantAddress, got.FormattedAddress)
			}
		})
	}
}
