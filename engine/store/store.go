// Package store persists finalized records. A store is a keyed collection per
// record family with whole-collection semantics: read entirely, mutate,
// write back entirely. Committing a finalized record is the only path in the
// engine that touches durable state.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

// Record is one finalized record. On the wire it is a single flat JSON object:
// the Data fields plus "id" and "timestamp".
type Record struct {
	ID        string
	Timestamp time.Time
	Data      map[string]any
}

func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Data)+2)
	for k, v := range r.Data {
		flat[k] = v
	}
	if r.ID != "" {
		flat["id"] = r.ID
	}
	if !r.Timestamp.IsZero() {
		flat["timestamp"] = r.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(flat)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	if v, ok := flat["id"].(string); ok {
		r.ID = v
		delete(flat, "id")
	}
	if v, ok := flat["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			r.Timestamp = ts
			delete(flat, "timestamp")
		}
	}
	r.Data = flat
	return nil
}

// Store is the persistence contract used by the dispatcher. A missing family
// reads as an empty collection, not an error.
type Store interface {
	ReadAll(ctx context.Context, family contractx.Family) ([]Record, error)
	WriteAll(ctx context.Context, family contractx.Family, records []Record) error
}

// Append adds one record to a family with read-modify-write semantics.
func Append(ctx context.Context, s Store, family contractx.Family, rec Record) error {
	records, err := s.ReadAll(ctx, family)
	if err != nil {
		return err
	}
	return s.WriteAll(ctx, family, append(records, rec))
}

// Merge patches the record matching id and writes the collection back. Only
// the matching record is touched; concurrent sessions working on different
// records in the same store are tolerated.
func Merge(ctx context.Context, s Store, family contractx.Family, id string, patch map[string]any) error {
	records, err := s.ReadAll(ctx, family)
	if err != nil {
		return err
	}
	found := false
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if records[i].Data == nil {
			records[i].Data = make(map[string]any, len(patch))
		}
		for k, v := range patch {
			records[i].Data[k] = v
		}
		found = true
	}
	if !found {
		return fmt.Errorf("%w: record id=%s family=%s", contractx.ErrNotFound, id, family)
	}
	return s.WriteAll(ctx, family, records)
}

// FindByID scans a collection for a record id.
func FindByID(records []Record, id string) (Record, bool) {
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}
