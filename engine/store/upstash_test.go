package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

func TestUpstashStoreReadAllUsesPrefixedKey(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		payload, _ := json.Marshal([]Record{{ID: "ORD-1", Data: map[string]any{"status": "confirmed"}}})
		encoded, _ := json.Marshal(string(payload))
		fmt.Fprintf(w, `{"result":%s}`, encoded)
	}))
	t.Cleanup(server.Close)

	st, err := NewUpstashStore(
		UpstashConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}

	records, err := st.ReadAll(context.Background(), contractx.FamilyCoffee)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "ORD-1" {
		t.Fatalf("ReadAll() = %v, want the decoded record", records)
	}

	if len(gotCommand) != 2 || gotCommand[0] != "GET" {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
	if gotCommand[1] != "workflow:records:coffee" {
		t.Fatalf("command key = %v, want workflow:records:coffee", gotCommand[1])
	}
}

func TestUpstashStoreReadAllEmptyKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	}))
	t.Cleanup(server.Close)

	st, err := NewUpstashStore(
		UpstashConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}

	records, err := st.ReadAll(context.Background(), contractx.FamilyLead)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if records != nil {
		t.Fatalf("ReadAll() = %v, want nil", records)
	}
}

func TestUpstashStoreWriteAllSendsSet(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}))
	t.Cleanup(server.Close)

	st, err := NewUpstashStore(
		UpstashConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithKeyPrefix("custom:"),
	)
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}

	err = st.WriteAll(context.Background(), contractx.FamilyFraud, []Record{{ID: "FD-1001"}})
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	if len(gotCommand) != 3 || gotCommand[0] != "SET" {
		t.Fatalf("unexpected command: %#v", gotCommand)
	}
	if gotCommand[1] != "custom:fraud" {
		t.Fatalf("command key = %v, want custom:fraud", gotCommand[1])
	}
	payload, ok := gotCommand[2].(string)
	if !ok {
		t.Fatalf("payload is %T, want string", gotCommand[2])
	}
	var roundTrip []Record
	if err := json.Unmarshal([]byte(payload), &roundTrip); err != nil {
		t.Fatalf("payload not a record array: %v", err)
	}
	if len(roundTrip) != 1 || roundTrip[0].ID != "FD-1001" {
		t.Fatalf("payload = %v, want the written record", roundTrip)
	}
}

func TestUpstashStoreSurfacesRedisErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGPASS invalid token"}`)
	}))
	t.Cleanup(server.Close)

	st, err := NewUpstashStore(
		UpstashConfig{URL: server.URL, Token: "bad"},
		WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}

	_, err = st.ReadAll(context.Background(), contractx.FamilyRetail)
	if !errors.Is(err, contractx.ErrPersistence) {
		t.Fatalf("ReadAll() error = %v, want ErrPersistence", err)
	}
}

func TestNewUpstashStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashStore(UpstashConfig{URL: "", Token: "t"}); err == nil {
		t.Fatal("missing url accepted")
	}
	if _, err := NewUpstashStore(UpstashConfig{URL: "https://example.upstash.io", Token: ""}); err == nil {
		t.Fatal("missing token accepted")
	}
}
