package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

func TestRecordMarshalIsFlat(t *testing.T) {
	t.Parallel()

	rec := Record{
		ID:        "ORD-AB12CD34",
		Timestamp: time.Date(2025, 11, 6, 9, 30, 0, 0, time.UTC),
		Data: map[string]any{
			"buyer":  "Priya",
			"status": "CONFIRMED",
		},
	}

	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if flat["id"] != "ORD-AB12CD34" {
		t.Fatalf("id = %v, want ORD-AB12CD34", flat["id"])
	}
	if flat["timestamp"] != "2025-11-06T09:30:00Z" {
		t.Fatalf("timestamp = %v, want RFC3339 UTC", flat["timestamp"])
	}
	if flat["buyer"] != "Priya" {
		t.Fatalf("buyer = %v, want Priya", flat["buyer"])
	}
	if _, nested := flat["data"]; nested {
		t.Fatal("record marshaled with a nested data object")
	}
}

func TestRecordUnmarshalLiftsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	raw := `{"id":"FD-1001","timestamp":"2025-11-06T09:30:00Z","userName":"Rohan Sharma","status":"pending"}`

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rec.ID != "FD-1001" {
		t.Fatalf("ID = %q, want FD-1001", rec.ID)
	}
	if rec.Timestamp.IsZero() {
		t.Fatal("timestamp not lifted")
	}
	if _, ok := rec.Data["id"]; ok {
		t.Fatal("id left inside Data")
	}
	if rec.Data["userName"] != "Rohan Sharma" {
		t.Fatalf("userName = %v, want Rohan Sharma", rec.Data["userName"])
	}
}

// memStore is an in-memory Store for helper tests.
type memStore struct {
	collections map[contractx.Family][]Record
}

func newMemStore() *memStore {
	return &memStore{collections: make(map[contractx.Family][]Record)}
}

func (m *memStore) ReadAll(_ context.Context, family contractx.Family) ([]Record, error) {
	return append([]Record(nil), m.collections[family]...), nil
}

func (m *memStore) WriteAll(_ context.Context, family contractx.Family, records []Record) error {
	m.collections[family] = append([]Record(nil), records...)
	return nil
}

func TestAppendGrowsCollection(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	ctx := context.Background()

	if err := Append(ctx, st, contractx.FamilyCoffee, Record{ID: "ORD-1"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := Append(ctx, st, contractx.FamilyCoffee, Record{ID: "ORD-2"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	records, _ := st.ReadAll(ctx, contractx.FamilyCoffee)
	if len(records) != 2 || records[1].ID != "ORD-2" {
		t.Fatalf("collection = %v, want two ordered records", records)
	}
}

func TestMergePatchesOnlyMatchingRecord(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	ctx := context.Background()
	st.collections[contractx.FamilyFraud] = []Record{
		{ID: "FD-1001", Data: map[string]any{"status": "pending"}},
		{ID: "FD-1002", Data: map[string]any{"status": "pending"}},
	}

	err := Merge(ctx, st, contractx.FamilyFraud, "FD-1001", map[string]any{"status": "confirmed_safe"})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	records, _ := st.ReadAll(ctx, contractx.FamilyFraud)
	if records[0].Data["status"] != "confirmed_safe" {
		t.Fatalf("patched status = %v, want confirmed_safe", records[0].Data["status"])
	}
	if records[1].Data["status"] != "pending" {
		t.Fatalf("untouched record mutated: %v", records[1].Data)
	}
}

func TestMergeUnknownIDIsNotFound(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	err := Merge(context.Background(), st, contractx.FamilyFraud, "FD-9999", map[string]any{"status": "x"})
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("Merge() error = %v, want ErrNotFound", err)
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	records := []Record{{ID: "a"}, {ID: "b"}}
	if rec, ok := FindByID(records, "b"); !ok || rec.ID != "b" {
		t.Fatalf("FindByID(b) = %v, %v", rec, ok)
	}
	if _, ok := FindByID(records, "z"); ok {
		t.Fatal("FindByID(z) reported a match")
	}
}
