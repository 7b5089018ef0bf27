package ingest

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/david/store-finder/internal/models"
)

// FromDetails converts a Places details record into a directory Store.
func FromDetails(d PlaceDetails, syncedAt time.Time) models.Store {
	types := d.Types
	if types == nil {
		types = []string{}
	}

	store := models.Store{
		PlaceID:          d.PlaceID,
		Name:             cleanDisplay(d.Name),
		FormattedAddress: cleanDisplay(d.FormattedAddress),
		Locality:         ExtractLocality(d.AdrAddress),
		Location: models.Location{
			Lat: d.Geometry.Location.Lat,
			Lng: d.Geometry.Location.Lng,
		},
		GoogleMapsURI:                strings.TrimSpace(d.URL),
		BusinessStatus:               d.BusinessStatus,
		PhoneNumber:                  strings.TrimSpace(d.FormattedPhoneNumber),
		InternationalPhoneNumber:     strings.TrimSpace(d.InternationalPhoneNumber),
		Website:                      strings.TrimSpace(d.Website),
		Types:                        types,
		Categories:                   NormalizeCategories(types),
		Rating:                       d.Rating,
		UserRatingsTotal:             d.UserRatingsTotal,
		Delivery:                     d.Delivery,
		Takeout:                      d.Takeout,
		WheelchairAccessibleEntrance: d.WheelchairAccessibleEntrance,
		LastSyncedAt:                 models.NewTimestamp(syncedAt),
	}

	if store.GoogleMapsURI == "" {
		store.GoogleMapsURI = MapsSearchURI(d.Name, d.PlaceID)
	}

	var hours models.StoreHours
	if d.OpeningHours != nil {
		hours.WeekdayText = copyList(d.OpeningHours.WeekdayText)
	}
	if d.CurrentOpeningHours != nil {
		hours.CurrentOpeningHours = copyList(d.CurrentOpeningHours.WeekdayText)
	}
	if hours.WeekdayText != nil || hours.CurrentOpeningHours != nil {
		store.OpeningHours = &hours
	}

	return store
}

// componentUnescaper turns url.QueryEscape output into encodeURIComponent form.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// MapsSearchURI builds a Google Maps link for places the source returned without one.
func MapsSearchURI(name, placeID string) string {
	query := componentUnescaper.Replace(url.QueryEscape(name))
	return "https://www.google.com/maps/search/?api=1&query=" + query + "&query_place_id=" + placeID
}

// ExtractLocality pulls the town out of an adr_address microformat fragment,
// e.g. `<span class="locality">Red Deer</span>`.
func ExtractLocality(adrAddress string) string {
	if strings.TrimSpace(adrAddress) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(adrPolicy.Sanitize(adrAddress)))
	if err != nil {
		return ""
	}
	return normalizeSpace(doc.Find(".locality").First().Text())
}
