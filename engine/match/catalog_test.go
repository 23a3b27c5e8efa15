package match

import (
	"testing"

	indexx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/index"
)

func demoCatalog() []indexx.CatalogItem {
	return []indexx.CatalogItem{
		{ID: "mug-001", Name: "Classic Mug", Price: 800, Category: "Mug", Color: "white"},
		{ID: "mug-002", Name: "Travel Mug", Price: 1500, Category: "Mug", Color: "black"},
		{ID: "tee-001", Name: "Logo Tee", Price: 1200, Category: "T-Shirt", Color: "black", Tags: []string{"cotton", "casual"}},
		{ID: "hood-001", Name: "Zip Hoodie", Price: 3200, Category: "Hoodie", Color: "grey"},
	}
}

func TestFilterCatalogByCategoryAndPrice(t *testing.T) {
	t.Parallel()

	got := FilterCatalog(demoCatalog(), Filter{Category: "mug", MaxPrice: 1000})
	if len(got) != 1 {
		t.Fatalf("match count = %d, want 1", len(got))
	}
	if got[0].ID != "mug-001" {
		t.Fatalf("match = %q, want mug-001", got[0].ID)
	}
}

func TestFilterCatalogNormalizesCategorySpelling(t *testing.T) {
	t.Parallel()

	for _, query := range []string{"t shirt", "T-Shirt", "tshirt"} {
		got := FilterCatalog(demoCatalog(), Filter{Category: query})
		if len(got) != 1 || got[0].ID != "tee-001" {
			t.Fatalf("Filter{Category: %q} = %v, want tee-001", query, got)
		}
	}
}

func TestFilterCatalogColorIsExactCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := FilterCatalog(demoCatalog(), Filter{Color: "BLACK"})
	if len(got) != 2 {
		t.Fatalf("match count = %d, want 2", len(got))
	}
	if got[0].ID != "mug-002" || got[1].ID != "tee-001" {
		t.Fatalf("matches out of catalog order: %v", got)
	}
}

func TestFilterCatalogEmptyFilterKeepsEverything(t *testing.T) {
	t.Parallel()

	items := demoCatalog()
	got := FilterCatalog(items, Filter{})
	if len(got) != len(items) {
		t.Fatalf("match count = %d, want %d", len(got), len(items))
	}
}

func TestSearchCatalogMatchesNameCategoryAndTags(t *testing.T) {
	t.Parallel()

	if got := SearchCatalog(demoCatalog(), "travel"); len(got) != 1 || got[0].ID != "mug-002" {
		t.Fatalf("SearchCatalog(travel) = %v, want mug-002", got)
	}
	if got := SearchCatalog(demoCatalog(), "cotton"); len(got) != 1 || got[0].ID != "tee-001" {
		t.Fatalf("SearchCatalog(cotton) = %v, want tee-001", got)
	}
	if got := SearchCatalog(demoCatalog(), "  "); got != nil {
		t.Fatalf("SearchCatalog(blank) = %v, want nil", got)
	}
}
