package api

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/david/store-finder/internal/models"
)

const maxQueryParamLength = 200

// queryParam returns the single value of name. ok is false when the parameter
// is repeated or longer than maxQueryParamLength.
func queryParam(values url.Values, name string) (value string, ok bool) {
	vals := values[name]
	switch len(vals) {
	case 0:
		return "", true
	case 1:
		if utf8.RuneCountInString(vals[0]) > maxQueryParamLength {
			return "", false
		}
		return vals[0], true
	default:
		return "", false
	}
}

// FilterStores applies the free-text and category filters. Both are optional
// and combined with AND. The result is never nil.
func FilterStores(stores []models.Store, q, category string) []models.Store {
	needle := strings.ToLower(strings.TrimSpace(q))
	category = strings.ToLower(strings.TrimSpace(category))

	out := make([]models.Store, 0, len(stores))
	for _, s := range stores {
		if needle != "" && !strings.Contains(searchText(s), needle) {
			continue
		}
		if category != "" && !s.HasCategory(category) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func searchText(s models.Store) string {
	return strings.ToLower(s.Name + " " + s.FormattedAddress + " " + strings.Join(s.Categories, " "))
}
