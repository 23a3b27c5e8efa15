// Package match holds the pure matching algorithms shared by the workflows:
// catalog filtering, FAQ keyword ranking, and concept-explanation scoring.
// Scoring and tie-break rules here are behaviorally significant; change them
// only with the tests.
package match

import (
	"strings"

	indexx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/index"
)

// RenderLimit caps how many catalog matches are rendered in free text. The
// match set itself is never truncated.
const RenderLimit = 10

// Filter narrows a catalog scan. Zero values mean "no constraint".
type Filter struct {
	Category string
	MaxPrice float64
	Color    string
}

func (f Filter) Empty() bool {
	return f.Category == "" && f.MaxPrice <= 0 && f.Color == ""
}

// FilterCatalog keeps every item that satisfies all given constraints:
// category as a normalized substring match, price at or below MaxPrice, color
// as a case-insensitive exact match. Catalog order is preserved.
func FilterCatalog(items []indexx.CatalogItem, f Filter) []indexx.CatalogItem {
	filtered := items
	if f.Category != "" {
		want := normalizeCategory(f.Category)
		filtered = keep(filtered, func(item indexx.CatalogItem) bool {
			return strings.Contains(normalizeCategory(item.Category), want)
		})
	}
	if f.MaxPrice > 0 {
		filtered = keep(filtered, func(item indexx.CatalogItem) bool {
			return item.Price <= f.MaxPrice
		})
	}
	if f.Color != "" {
		filtered = keep(filtered, func(item indexx.CatalogItem) bool {
			return strings.EqualFold(item.Color, f.Color)
		})
	}
	return filtered
}

// SearchCatalog is the free-text variant: an item matches when the query is a
// case-insensitive substring of its name, category, or any tag.
func SearchCatalog(items []indexx.CatalogItem, query string) []indexx.CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return keep(items, func(item indexx.CatalogItem) bool {
		if strings.Contains(strings.ToLower(item.Name), q) {
			return true
		}
		if strings.Contains(strings.ToLower(item.Category), q) {
			return true
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

// normalizeCategory lowers the text and strips spaces and hyphens from both
// sides of the comparison, so "t shirt" matches "T-Shirt".
func normalizeCategory(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

func keep(items []indexx.CatalogItem, pred func(indexx.CatalogItem) bool) []indexx.CatalogItem {
	var out []indexx.CatalogItem
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
