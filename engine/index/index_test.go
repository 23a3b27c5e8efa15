package index

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

func TestCatalogLookups(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]CatalogItem{
		{ID: "mug-001", Name: "Classic Mug", Price: 800, Category: "Mug"},
		{ID: "tee-001", Name: "Logo Tee", Price: 1200, Category: "T-Shirt"},
	})

	item, err := catalog.ByID("mug-001")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if item.Name != "Classic Mug" {
		t.Fatalf("ByID() name = %q, want Classic Mug", item.Name)
	}

	item, err = catalog.ByName("logo tee")
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	if item.ID != "tee-001" {
		t.Fatalf("ByName() id = %q, want tee-001", item.ID)
	}

	if _, err := catalog.ByID("missing"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("ByID(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := catalog.ByName("missing"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("ByName(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDecodeCatalog(t *testing.T) {
	t.Parallel()

	raw := `[{"id":"mug-001","name":"Classic Mug","price":800,"category":"Mug"}]`
	catalog, err := DecodeCatalog(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeCatalog() error = %v", err)
	}
	if len(catalog.Items()) != 1 {
		t.Fatalf("Items() len = %d, want 1", len(catalog.Items()))
	}
}

func TestFAQSetPreservesOrder(t *testing.T) {
	t.Parallel()

	faq := NewFAQSet([]FAQEntry{
		{Question: "first", Answer: "a"},
		{Question: "second", Answer: "b"},
	})
	entries := faq.Entries()
	if len(entries) != 2 || entries[0].Question != "first" {
		t.Fatalf("Entries() = %v, want load order preserved", entries)
	}
}

func TestConceptLibraryLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	lib := NewConceptLibrary([]Concept{
		{ID: "Photosynthesis", Title: "Photosynthesis", Summary: "Plants convert sunlight into glucose."},
	})

	concept, err := lib.ByID("  photosynthesis ")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if concept.Title != "Photosynthesis" {
		t.Fatalf("ByID() title = %q", concept.Title)
	}

	if _, err := lib.ByID("gravity"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("ByID(gravity) error = %v, want ErrNotFound", err)
	}

	ids := lib.IDs()
	if len(ids) != 1 || ids[0] != "Photosynthesis" {
		t.Fatalf("IDs() = %v", ids)
	}
}

func TestNilCollectionsAreEmpty(t *testing.T) {
	t.Parallel()

	var catalog *Catalog
	if catalog.Items() != nil {
		t.Fatal("nil catalog returned items")
	}
	if _, err := catalog.ByID("x"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("nil catalog ByID error = %v, want ErrNotFound", err)
	}

	var faq *FAQSet
	if faq.Entries() != nil {
		t.Fatal("nil faq returned entries")
	}
}
