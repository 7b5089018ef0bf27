package ingest

import "sort"

// CategoryUnclassified is emitted when none of a place's types map to a category.
const CategoryUnclassified = "UNCLASSIFIED"

// categoryMappings maps raw Places types onto the directory's category vocabulary.
// Keys are matched exactly (case-sensitive).
var categoryMappings = map[string]string{
	"grocery_or_supermarket": "SUPERMARKET",
	"supermarket":            "SUPERMARKET",
	"department_store":       "WAREHOUSE",
	"shopping_mall":          "WAREHOUSE",
	"wholesale_store":        "WAREHOUSE",
	"convenience_store":      "CONVENIENCE",
	"bakery":                 "BAKERY",
	"butcher_shop":           "BUTCHER",
	"meal_takeaway":          "PREPARED_FOOD",
	"meal_delivery":          "PREPARED_FOOD",
	"pharmacy":               "PHARMACY_GROCERY",
	"drugstore":              "PHARMACY_GROCERY",
	"health_food_store":      "HEALTH_FOOD",
	"liquor_store":           "LIQUOR",
	"store":                  "GENERAL_RETAIL",
	"food":                   "FOOD_SPECIALTY",
}

// NormalizeCategories returns the sorted, deduplicated categories for a set of
// raw types. The result is never empty.
func NormalizeCategories(types []string) []string {
	seen := make(map[string]struct{}, len(types))
	categories := make([]string, 0, len(types))
	for _, t := range types {
		mapped, ok := categoryMappings[t]
		if !ok {
			continue
		}
		if _, dup := seen[mapped]; dup {
			continue
		}
		seen[mapped] = struct{}{}
		categories = append(categories, mapped)
	}

	if len(categories) == 0 {
		return []string{CategoryUnclassified}
	}

	sort.Strings(categories)
	return categories
}

// KnownCategories lists every category NormalizeCategories can produce.
func KnownCategories() []string {
	seen := map[string]struct{}{CategoryUnclassified: {}}
	out := []string{CategoryUnclassified}
	for _, c := range categoryMappings {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
