package index

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/illarion/fastmem/internal/security"
	"github.com/illarion/fastmem/internal/storage"
	"github.com/illarion/fastmem/internal/value"
	"github.com/illarion/fastmem/internal/vault"
)

const (
	BlobIDSize     = 16     // Random bytes per blob identifier
	BlobSuffix     = ".dat" // Blob file suffix
	FilePermSecure = 0600
)

var (
	ErrLocked           = errors.New("memory is locked")
	ErrReadFailure      = errors.New("failed to read key")
	ErrSnapshotNotFound = errors.New("no saved state found")
)

// Index maps logical keys to blob files holding individually encrypted
// values. All operations are safe for concurrent use: the mutex is held
// across the full encrypt+write sequence, so two Sets on the same key
// cannot interleave their mapping update and file write.
//
// The index exclusively owns the in-memory mapping and the lock flag. It
// holds a reference to the Vault it was constructed with but does not
// manage its lifecycle.
type Index struct {
	mu       sync.Mutex
	guard    *security.RootGuard
	vault    *vault.Vault
	manifest *storage.Manifest // optional bookkeeping, best-effort
	entries  map[string]string // key -> blob file name
	locked   bool
}

// New creates an empty, unlocked Index over the given storage root.
func New(guard *security.RootGuard, v *vault.Vault) *Index {
	return &Index{
		guard:   guard,
		vault:   v,
		entries: make(map[string]string),
	}
}

// AttachManifest attaches a manifest for best-effort bookkeeping. The
// in-memory mapping stays authoritative; manifest failures never fail
// an index operation.
func (ix *Index) AttachManifest(m *storage.Manifest) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.manifest = m
}

// Set encrypts the value into a fresh blob file and points key at it.
// The new blob is written before the mapping changes, so a failed write
// leaves both the mapping and the previous blob untouched. On success
// the replaced blob is deleted best-effort.
func (ix *Index) Set(key string, val value.Value) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.locked {
		return ErrLocked
	}

	text, err := val.Encode()
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	token, err := ix.vault.Encrypt([]byte(text))
	if err != nil {
		return err
	}

	blob, err := newBlobID()
	if err != nil {
		return err
	}

	if err := ix.guard.WriteFileAtomic(blob, []byte(token), FilePermSecure); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	old, existed := ix.entries[key]
	ix.entries[key] = blob

	if existed {
		// Best effort; a leftover blob is orphaned, not corrupting
		ix.guard.Remove(old)
	}

	ix.recordSet(key, blob, int64(len(token)))
	return nil
}

// Get returns the value for key, or def without error when key is
// absent. Read, decrypt, and decode failures surface as ErrReadFailure
// naming the key, wrapping the cause; they are never converted to def.
// Get is not blocked by the index lock flag.
func (ix *Index) Get(key string, def value.Value) (value.Value, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	blob, ok := ix.entries[key]
	if !ok {
		return def, nil
	}

	token, err := ix.guard.ReadFile(blob)
	if err != nil {
		return value.Value{}, readFailure(key, err)
	}

	plaintext, err := ix.vault.Decrypt(string(token))
	if err != nil {
		// The cause is wrapped with %w, so errors.Is still finds
		// vault.ErrLocked through the wrap and callers can prompt
		return value.Value{}, readFailure(key, err)
	}

	val, err := value.Decode(string(plaintext))
	if err != nil {
		return value.Value{}, readFailure(key, err)
	}

	return val, nil
}

// Delete removes key from the mapping, then attempts to delete its blob
// file. An absent key returns false without error. The mapping removal
// wins even when the file deletion fails: the index is authoritative,
// disk cleanup is best-effort, and a failed file removal also reports
// false.
func (ix *Index) Delete(key string) (bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.locked {
		return false, ErrLocked
	}

	blob, ok := ix.entries[key]
	if !ok {
		return false, nil
	}

	delete(ix.entries, key)
	ix.recordDelete(key)

	if err := ix.guard.Remove(blob); err != nil {
		return false, nil
	}
	return true, nil
}

// Clear deletes every referenced blob file best-effort, ignoring
// individual failures, then empties the mapping unconditionally.
func (ix *Index) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.locked {
		return ErrLocked
	}

	for _, blob := range ix.entries {
		ix.guard.Remove(blob)
	}
	ix.entries = make(map[string]string)

	if ix.manifest != nil {
		ix.manifest.ClearEntries()
		ix.manifest.UpdateModified()
	}
	return nil
}

// Lock sets the lock flag. Set, Delete, Clear, Save and Load reject
// with ErrLocked while it is set; Get is unaffected.
func (ix *Index) Lock() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.locked = true
}

// Unlock clears the lock flag.
func (ix *Index) Unlock() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.locked = false
}

// Locked reports the lock flag.
func (ix *Index) Locked() bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.locked
}

// Len returns the number of live keys.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.entries)
}

// Keys returns all live keys, sorted.
func (ix *Index) Keys() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	keys := make([]string, 0, len(ix.entries))
	for k := range ix.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newBlobID() (string, error) {
	b, err := vault.GenerateRandom(BlobIDSize)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b) + BlobSuffix, nil
}

func readFailure(key string, err error) error {
	return fmt.Errorf("%w %q: %w", ErrReadFailure, key, err)
}

// recordSet updates manifest bookkeeping for a stored key, best-effort
func (ix *Index) recordSet(key, blob string, size int64) {
	if ix.manifest == nil {
		return
	}
	ix.manifest.PutEntry(storage.Entry{
		Key:      key,
		Blob:     blob,
		Size:     size,
		Modified: time.Now(),
	})
	ix.manifest.UpdateModified()
}

// recordDelete updates manifest bookkeeping for a removed key, best-effort
func (ix *Index) recordDelete(key string) {
	if ix.manifest == nil {
		return
	}
	ix.manifest.RemoveEntry(key)
	ix.manifest.UpdateModified()
}
