package index

import (
	"errors"
	"strings"
	"testing"

	"github.com/illarion/fastmem/internal/value"
)

func TestSaveLoadIdempotence(t *testing.T) {
	ix, guard, v := newTestIndex(t, "test123")

	if err := ix.Set("a", value.Int(42)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := ix.Set("b", value.String("hello")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := ix.Save("backup"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Fresh index over the same storage root
	fresh := New(guard, v)
	if err := fresh.Load("backup"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for key, want := range map[string]value.Value{
		"a": value.Int(42),
		"b": value.String("hello"),
	} {
		got, err := fresh.Get(key, value.Null())
		if err != nil {
			t.Fatalf("Get(%s) after load failed: %v", key, err)
		}
		if !value.Equal(got, want) {
			t.Errorf("Get(%s) after load not equal to original", key)
		}
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	ix, _, _ := newTestIndex(t, "test123")

	err := ix.Load("nothing")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `"nothing"`) {
		t.Errorf("Error should name the snapshot: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ix, _, _ := newTestIndex(t, "test123")

	if err := ix.Set("a", value.Int(1)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := ix.Save("s"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := ix.Set("b", value.Int(2)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := ix.Save("s"); err != nil {
		t.Fatalf("Second Save failed: %v", err)
	}

	state, err := ix.ReadState("s")
	if err != nil {
		t.Fatalf("ReadState failed: %v", err)
	}
	if len(state.Entries) != 2 {
		t.Errorf("Overwritten snapshot should hold 2 entries, got %d", len(state.Entries))
	}
}

func TestLoadReplacesState(t *testing.T) {
	ix, _, _ := newTestIndex(t, "test123")

	if err := ix.Set("old", value.Int(1)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := ix.Save("before"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := ix.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := ix.Set("new", value.Int(2)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := ix.Load("before"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	keys := ix.Keys()
	if len(keys) != 1 || keys[0] != "old" {
		t.Errorf("Load should fully replace the mapping, got keys %v", keys)
	}
}

func TestLoadStaleSnapshotSurfacesOnGet(t *testing.T) {
	ix, _, _ := newTestIndex(t, "test123")

	if err := ix.Set("a", value.Int(1)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := ix.Save("stale"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Blob is gone after delete, but the snapshot still references it
	if _, err := ix.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Load succeeds without validating blobs
	if err := ix.Load("stale"); err != nil {
		t.Fatalf("Load of stale snapshot should succeed: %v", err)
	}

	// The stale reference surfaces on Get
	if _, err := ix.Get("a", value.Null()); !errors.Is(err, ErrReadFailure) {
		t.Errorf("Expected ErrReadFailure on stale blob, got %v", err)
	}
}

func TestSnapshotNameValidation(t *testing.T) {
	ix, _, _ := newTestIndex(t, "test123")

	for _, name := range []string{"", "../escape", "a/b", `a\b`} {
		if err := ix.Save(name); err == nil {
			t.Errorf("Save(%q) should reject the name", name)
		}
		if err := ix.Load(name); err == nil {
			t.Errorf("Load(%q) should reject the name", name)
		}
	}
}

func TestDiffStates(t *testing.T) {
	a := State{Entries: map[string]string{"a": "1.dat", "b": "2.dat"}}
	b := State{Entries: map[string]string{"a": "1.dat", "c": "3.dat"}}

	diff := DiffStates("before", "after", a, b)
	if diff == "" {
		t.Fatal("Different states should produce a diff")
	}
	if !strings.Contains(diff, "--- before") || !strings.Contains(diff, "+++ after") {
		t.Errorf("Diff should carry labels:\n%s", diff)
	}

	if diff := DiffStates("x", "y", a, a); diff != "" {
		t.Errorf("Identical states should produce no diff, got:\n%s", diff)
	}
}

func TestRenderStateSorted(t *testing.T) {
	s := State{Entries: map[string]string{"b": "2.dat", "a": "1.dat"}, Locked: true}
	got := RenderState(s)
	want := "a -> 1.dat\nb -> 2.dat\nlocked: true\n"
	if got != want {
		t.Errorf("RenderState mismatch:\ngot  %q\nwant %q", got, want)
	}
}
