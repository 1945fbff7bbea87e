package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), ManifestFile))
	if err != nil {
		t.Fatalf("Failed to open manifest: %v", err)
	}
	t.Cleanup(func() { m.Close() })

	if err := m.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	return m
}

func TestOpenAndInitialize(t *testing.T) {
	m := openTestManifest(t)

	initialized, err := m.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Manifest should be initialized")
	}
}

func TestIterations(t *testing.T) {
	m := openTestManifest(t)

	iterations := uint32(480000)
	if err := m.SetIterations(iterations); err != nil {
		t.Fatalf("Failed to set iterations: %v", err)
	}

	got, err := m.GetIterations()
	if err != nil {
		t.Fatalf("Failed to get iterations: %v", err)
	}
	if got != iterations {
		t.Errorf("Iterations mismatch: got %d, want %d", got, iterations)
	}
}

func TestLockedFlag(t *testing.T) {
	m := openTestManifest(t)

	// Absent flag means unlocked
	locked, err := m.GetLocked()
	if err != nil {
		t.Fatalf("Failed to get locked flag: %v", err)
	}
	if locked {
		t.Error("Fresh manifest should not be locked")
	}

	if err := m.SetLocked(true); err != nil {
		t.Fatalf("Failed to set locked flag: %v", err)
	}
	if locked, _ = m.GetLocked(); !locked {
		t.Error("Locked flag should persist")
	}

	if err := m.SetLocked(false); err != nil {
		t.Fatalf("Failed to clear locked flag: %v", err)
	}
	if locked, _ = m.GetLocked(); locked {
		t.Error("Locked flag should be cleared")
	}
}

func TestStorageID(t *testing.T) {
	m := openTestManifest(t)

	// Not set yet
	if _, err := m.GetStorageID(); err == nil {
		t.Error("GetStorageID should fail before creation")
	}

	id1, err := m.GetOrCreateStorageID()
	if err != nil {
		t.Fatalf("Failed to create storage ID: %v", err)
	}
	if id1 == "" {
		t.Fatal("Storage ID should not be empty")
	}

	// Stable across calls
	id2, err := m.GetOrCreateStorageID()
	if err != nil {
		t.Fatalf("Failed to get storage ID: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Storage ID should be stable: %s vs %s", id1, id2)
	}
}

func TestEntries(t *testing.T) {
	m := openTestManifest(t)

	entry := Entry{
		Key:      "api-token",
		Blob:     "a1b2c3.dat",
		Size:     128,
		Modified: time.Now(),
	}
	if err := m.PutEntry(entry); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	got, err := m.GetEntry("api-token")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got == nil || got.Blob != entry.Blob || got.Size != entry.Size {
		t.Errorf("Entry mismatch: got %+v", got)
	}

	// Missing entry returns nil, no error
	missing, err := m.GetEntry("absent")
	if err != nil {
		t.Fatalf("GetEntry for absent key failed: %v", err)
	}
	if missing != nil {
		t.Error("Absent key should return nil entry")
	}

	// Replace
	entry.Blob = "d4e5f6.dat"
	if err := m.PutEntry(entry); err != nil {
		t.Fatalf("Failed to replace entry: %v", err)
	}
	entries, err := m.Entries()
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Blob != "d4e5f6.dat" {
		t.Errorf("Expected 1 replaced entry, got %+v", entries)
	}

	// Remove
	if err := m.RemoveEntry("api-token"); err != nil {
		t.Fatalf("Failed to remove entry: %v", err)
	}
	entries, _ = m.Entries()
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries after remove, got %d", len(entries))
	}
}

func TestClearEntries(t *testing.T) {
	m := openTestManifest(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := m.PutEntry(Entry{Key: key, Blob: key + ".dat"}); err != nil {
			t.Fatalf("Failed to put entry: %v", err)
		}
	}

	if err := m.ClearEntries(); err != nil {
		t.Fatalf("Failed to clear entries: %v", err)
	}
	entries, err := m.Entries()
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", len(entries))
	}
}
