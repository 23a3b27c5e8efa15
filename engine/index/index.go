// Package index loads the read-only reference collections the workflows query:
// the product catalog, the FAQ set, and the concept library. Records are
// immutable once loaded; the engine never writes here.
package index

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

type CatalogItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Category    string   `json:"category"`
	Color       string   `json:"color,omitempty"`
	Size        string   `json:"size,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Concept struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Question string `json:"question,omitempty"`
}

/* -------------------------------- Catalog -------------------------------- */

type Catalog struct {
	items []CatalogItem
	byID  map[string]int
}

func NewCatalog(items []CatalogItem) *Catalog {
	c := &Catalog{
		items: items,
		byID:  make(map[string]int, len(items)),
	}
	for i, item := range items {
		c.byID[item.ID] = i
	}
	return c
}

func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return DecodeCatalog(f)
}

func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var items []CatalogItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(items), nil
}

// Items returns the catalog in load order for full-scan filtering. An empty
// filter result is an empty slice, never an error.
func (c *Catalog) Items() []CatalogItem {
	if c == nil {
		return nil
	}
	return c.items
}

func (c *Catalog) ByID(id string) (CatalogItem, error) {
	if c != nil {
		if i, ok := c.byID[id]; ok {
			return c.items[i], nil
		}
	}
	return CatalogItem{}, fmt.Errorf("%w: product id=%s", contractx.ErrNotFound, id)
}

// ByName is a case-insensitive exact-name lookup.
func (c *Catalog) ByName(name string) (CatalogItem, error) {
	if c != nil {
		for _, item := range c.items {
			if strings.EqualFold(item.Name, name) {
				return item, nil
			}
		}
	}
	return CatalogItem{}, fmt.Errorf("%w: product name=%s", contractx.ErrNotFound, name)
}

/* ---------------------------------- FAQ ---------------------------------- */

type FAQSet struct {
	entries []FAQEntry
}

func NewFAQSet(entries []FAQEntry) *FAQSet {
	return &FAQSet{entries: entries}
}

func LoadFAQSet(path string) (*FAQSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open faq: %w", err)
	}
	defer f.Close()

	var entries []FAQEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode faq: %w", err)
	}
	return NewFAQSet(entries), nil
}

// Entries returns the FAQ in first-seen order; the matcher's tie-break depends
// on this ordering.
func (f *FAQSet) Entries() []FAQEntry {
	if f == nil {
		return nil
	}
	return f.entries
}

/* -------------------------------- Concepts -------------------------------- */

type ConceptLibrary struct {
	concepts []Concept
	byID     map[string]int
}

func NewConceptLibrary(concepts []Concept) *ConceptLibrary {
	l := &ConceptLibrary{
		concepts: concepts,
		byID:     make(map[string]int, len(concepts)),
	}
	for i, c := range concepts {
		l.byID[strings.ToLower(c.ID)] = i
	}
	return l
}

func LoadConceptLibrary(path string) (*ConceptLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open concepts: %w", err)
	}
	defer f.Close()

	var concepts []Concept
	if err := json.NewDecoder(f).Decode(&concepts); err != nil {
		return nil, fmt.Errorf("decode concepts: %w", err)
	}
	return NewConceptLibrary(concepts), nil
}

func (l *ConceptLibrary) ByID(id string) (Concept, error) {
	if l != nil {
		if i, ok := l.byID[strings.ToLower(strings.TrimSpace(id))]; ok {
			return l.concepts[i], nil
		}
	}
	return Concept{}, fmt.Errorf("%w: concept id=%s", contractx.ErrNotFound, id)
}

// IDs lists the known concept ids, used for "available concepts" replies.
func (l *ConceptLibrary) IDs() []string {
	if l == nil {
		return nil
	}
	ids := make([]string, 0, len(l.concepts))
	for _, c := range l.concepts {
		ids = append(ids, c.ID)
	}
	return ids
}
