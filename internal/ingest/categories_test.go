package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeCategories(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  []string
	}{
		{
			name:  "Supermarket aliases collapse",
			types: []string{"supermarket", "grocery_or_supermarket", "food", "point_of_interest", "establishment"},
			want:  []string{"FOOD_SPECIALTY", "SUPERMARKET"},
		},
		{
			name:  "Duplicate mapping with unknown tag",
			types: []string{"grocery_or_supermarket", "supermarket", "unknown_tag"},
			want:  []string{"SUPERMARKET"},
		},
		{
			name:  "Totally unknown",
			types: []string{"totally_unknown"},
			want:  []string{"UNCLASSIFIED"},
		},
		{
			name:  "Only unmapped types",
			types: []string{"point_of_interest", "establishment"},
			want:  []string{"UNCLASSIFIED"},
		},
		{
			name:  "Empty input",
			types: []string{},
			want:  []string{"UNCLASSIFIED"},
		},
		{
			name:  "Nil input",
			types: nil,
			want:  []string{"UNCLASSIFIED"},
		},
		{
			name:  "Warehouse sources",
			types: []string{"wholesale_store", "shopping_mall", "department_store"},
			want:  []string{"WAREHOUSE"},
		},
		{
			name:  "Matching is case-sensitive",
			types: []string{"Bakery", "BUTCHER_SHOP"},
			want:  []string{"UNCLASSIFIED"},
		},
		{
			name:  "Mixed retail",
			types: []string{"store", "pharmacy", "liquor_store", "butcher_shop", "bakery", "meal_takeaway", "health_food_store", "convenience_store"},
			want:  []string{"BAKERY", "BUTCHER", "CONVENIENCE", "GENERAL_RETAIL", "HEALTH_FOOD", "LIQUOR", "PHARMACY_GROCERY", "PREPARED_FOOD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategories(tt.types)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeCategories(%v) mismatch (-want +got):\n%s", tt.types, diff)
			}
		})
	}
}

func TestNormalizeCategoriesIsPure(t *testing.T) {
	types := []string{"supermarket", "bakery", "supermarket"}
	first := NormalizeCategories(types)
	second := NormalizeCategories(types)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated calls differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"supermarket", "bakery", "supermarket"}, types); diff != "" {
		t.Errorf("input was modified:\n%s", diff)
	}
}

func TestKnownCategories(t *testing.T) {
	want := []string{
		"BAKERY", "BUTCHER", "CONVENIENCE", "FOOD_SPECIALTY", "GENERAL_RETAIL", "HEALTH_FOOD",
		"LIQUOR", "PHARMACY_GROCERY", "PREPARED_FOOD", "SUPERMARKET", "UNCLASSIFIED", "WAREHOUSE",
	}
	if diff := cmp.Diff(want, KnownCategories()); diff != "" {
		t.Errorf("KnownCategories mismatch (-want +got):\n%s", diff)
	}
}
