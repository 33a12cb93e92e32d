package relays

import (
	"testing"
	"time"

	"wg-relay-webui/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestStoreEmptyLoad(t *testing.T) {
	store := newTestStore(t)
	list, fetchedAt, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(list) != 0 || !fetchedAt.IsZero() {
		t.Fatalf("expected empty cache, got %d relays at %v", len(list), fetchedAt)
	}
}

func TestStoreSaveReplacesSnapshot(t *testing.T) {
	store := newTestStore(t)
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	first := []Relay{
		{Code: "se-mma-wg-001", Hostname: "se-mma-wg-001-wireguard", PublicKey: "pk1", IPv4Addr: "198.51.100.10", Port: 51820, Country: "Sweden", City: "Malmo"},
		{Code: "de-fra-wg-001", Hostname: "de-fra-wg-001-wireguard", PublicKey: "pk2", IPv4Addr: "198.51.100.11", Port: 51820, Country: "Germany", City: "Frankfurt"},
	}
	if err := store.Save(first, stamp); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	list, fetchedAt, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(list) != 2 || !fetchedAt.Equal(stamp) {
		t.Fatalf("unexpected snapshot: %d relays at %v", len(list), fetchedAt)
	}
	if list[0].Code != "de-fra-wg-001" {
		t.Fatalf("expected sorted load order, got %+v", list)
	}

	later := stamp.Add(time.Hour)
	second := []Relay{
		{Code: "no-osl-wg-001", Hostname: "no-osl-wg-001-wireguard", PublicKey: "pk3", IPv4Addr: "198.51.100.12", Port: 51820, Country: "Norway", City: "Oslo"},
	}
	if err := store.Save(second, later); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	list, fetchedAt, err = store.Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(list) != 1 || list[0].Code != "no-osl-wg-001" || !fetchedAt.Equal(later) {
		t.Fatalf("snapshot not replaced: %d relays at %v", len(list), fetchedAt)
	}
}
