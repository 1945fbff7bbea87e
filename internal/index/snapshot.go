package index

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/illarion/fastmem/internal/storage"
)

// SnapshotSuffix is the file suffix for persisted index states.
const SnapshotSuffix = ".state"

// State is the persisted mirror of in-memory index state: the key to
// blob mapping plus the lock flag. It is written as plaintext JSON,
// independent of blob encryption.
type State struct {
	Entries map[string]string `json:"entries"`
	Locked  bool              `json:"locked"`
}

// State returns a copy of the current in-memory state.
func (ix *Index) State() State {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.stateLocked()
}

func (ix *Index) stateLocked() State {
	entries := make(map[string]string, len(ix.entries))
	for k, v := range ix.entries {
		entries[k] = v
	}
	return State{Entries: entries, Locked: ix.locked}
}

// Save serializes the mapping and lock flag to <root>/<name>.state,
// overwriting any existing snapshot of the same name.
func (ix *Index) Save(name string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.locked {
		return ErrLocked
	}

	file, err := snapshotFile(ix, name)
	if err != nil {
		return err
	}

	data, err := json.Marshal(ix.stateLocked())
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	if err := ix.guard.WriteFileAtomic(file, data, FilePermSecure); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Load replaces the in-memory mapping and lock flag with a snapshot's
// contents. Referenced blob files are not validated: a stale snapshot
// can point at deleted blobs, which surfaces later as a read failure on
// Get. Fails with ErrSnapshotNotFound when no snapshot has that name.
func (ix *Index) Load(name string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.locked {
		return ErrLocked
	}

	state, err := ix.readStateLocked(name)
	if err != nil {
		return err
	}

	ix.entries = state.Entries
	ix.locked = state.Locked

	ix.rebuildManifest()
	return nil
}

// ReadState reads a snapshot without touching the in-memory state.
func (ix *Index) ReadState(name string) (State, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.readStateLocked(name)
}

func (ix *Index) readStateLocked(name string) (State, error) {
	file, err := snapshotFile(ix, name)
	if err != nil {
		return State{}, err
	}

	data, err := ix.guard.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
		}
		return State{}, fmt.Errorf("failed to read state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to parse state %q: %w", name, err)
	}
	if state.Entries == nil {
		state.Entries = make(map[string]string)
	}
	return state, nil
}

// snapshotFile validates the snapshot name and returns its file name.
// The bare name is validated too: an empty name would otherwise pass as
// the valid file name ".state".
func snapshotFile(ix *Index, name string) (string, error) {
	if err := ix.guard.ValidateName(name); err != nil {
		return "", fmt.Errorf("invalid snapshot name %q: %w", name, err)
	}
	file := name + SnapshotSuffix
	if err := ix.guard.ValidateName(file); err != nil {
		return "", fmt.Errorf("invalid snapshot name %q: %w", name, err)
	}
	return file, nil
}

// rebuildManifest re-derives manifest bookkeeping from the current
// mapping after a Load, best-effort.
func (ix *Index) rebuildManifest() {
	if ix.manifest == nil {
		return
	}
	ix.manifest.ClearEntries()
	now := time.Now()
	for key, blob := range ix.entries {
		var size int64
		if info, err := ix.guard.Stat(blob); err == nil {
			size = info.Size()
		}
		ix.manifest.PutEntry(storage.Entry{Key: key, Blob: blob, Size: size, Modified: now})
	}
	ix.manifest.UpdateModified()
}
