package persistence

import (
	"bytes"
	"testing"

	"github.com/wfunc/guessjam/models"
)

func TestMemoryStore_SnapshotLifecycle(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.LoadSnapshot("m1"); err != ErrSnapshotNotFound {
		t.Fatalf("Expected ErrSnapshotNotFound, got %v", err)
	}

	blob := []byte(`{"phase":"guessing"}`)
	if err := store.SaveSnapshot("m1", blob); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := store.LoadSnapshot("m1")
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if !bytes.Equal(loaded, blob) {
		t.Errorf("Loaded blob mismatch: %q", loaded)
	}

	// The store must hold its own copy.
	blob[0] = 'X'
	loaded, _ = store.LoadSnapshot("m1")
	if loaded[0] == 'X' {
		t.Error("Store must not alias the caller's buffer")
	}

	if err := store.ClearSnapshot("m1"); err != nil {
		t.Fatalf("ClearSnapshot failed: %v", err)
	}
	if _, err := store.LoadSnapshot("m1"); err != ErrSnapshotNotFound {
		t.Fatalf("Expected ErrSnapshotNotFound after clear, got %v", err)
	}
}

func TestMemoryStore_MatchRecords(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveMatchRecord(&models.MatchRecord{MatchID: "m1", WinnerID: "t1"}); err != nil {
		t.Fatalf("SaveMatchRecord failed: %v", err)
	}
	records := store.MatchRecords()
	if len(records) != 1 || records[0].MatchID != "m1" {
		t.Fatalf("Unexpected records: %+v", records)
	}
}
