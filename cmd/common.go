package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/fastmem/internal/index"
	"github.com/illarion/fastmem/internal/keyring"
	"github.com/illarion/fastmem/internal/security"
	"github.com/illarion/fastmem/internal/storage"
	"github.com/illarion/fastmem/internal/vault"
)

// DefaultState is the snapshot the CLI loads and saves around mutations
// so the index survives across invocations.
const DefaultState = "default"

// Store bundles the collaborators for one opened storage root.
type Store struct {
	Root     string
	Guard    *security.RootGuard
	Vault    *vault.Vault
	Manifest *storage.Manifest
	Index    *index.Index
}

// OpenStore opens an existing storage root: guard, vault (still locked),
// manifest, and the index restored from the default snapshot and the
// persisted lock flag.
func OpenStore(path string) (*Store, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("no storage found at %s (run 'fastmem init' first)", path)
	}

	guard, err := security.Open(root)
	if err != nil {
		return nil, err
	}

	manifest, err := storage.Open(filepath.Join(root, storage.ManifestFile))
	if err != nil {
		guard.Close()
		return nil, err
	}

	v := vault.New(root)
	ix := index.New(guard, v)
	ix.AttachManifest(manifest)

	// Restore the index from the default snapshot; a fresh storage has
	// none yet
	if err := ix.Load(DefaultState); err != nil && !errors.Is(err, index.ErrSnapshotNotFound) {
		manifest.Close()
		guard.Close()
		return nil, err
	}

	// The lock flag persists in the manifest, not in snapshots
	if locked, _ := manifest.GetLocked(); locked {
		ix.Lock()
	}

	return &Store{
		Root:     root,
		Guard:    guard,
		Vault:    v,
		Manifest: manifest,
		Index:    ix,
	}, nil
}

// Close releases the store's resources and clears key material.
func (s *Store) Close() {
	s.Vault.Destroy()
	s.Manifest.Close()
	s.Guard.Close()
}

// Persist writes the index back to the default snapshot.
func (s *Store) Persist() error {
	return s.Index.Save(DefaultState)
}

// WithUnlock runs op, and when it reports that no key is held, obtains
// the password (environment, keyring, then prompt) and retries once.
func (s *Store) WithUnlock(op func() error) error {
	err := op()
	if !errors.Is(err, vault.ErrLocked) {
		return err
	}

	password, err := GetPassword(s, "Enter password: ")
	if err != nil {
		return err
	}
	defer vault.ClearBytes(password)

	if _, err := s.Vault.Unlock(password); err != nil {
		return err
	}
	return op()
}

// GetPassword retrieves the password from the FASTMEM_PASSWORD
// environment variable, the OS keyring, or a terminal prompt, in that
// order. The caller is responsible for calling vault.ClearBytes on the
// returned password.
func GetPassword(s *Store, prompt string) ([]byte, error) {
	if password := GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if storageID, err := s.Manifest.GetStorageID(); err == nil {
		if cached, err := keyring.GetPassword(storageID); err == nil {
			return []byte(cached), nil
		}
	}

	password, err := ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// HandleError prints a consistent message for known error kinds and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: no password set for this storage\n")
		fmt.Fprintf(os.Stderr, "Run 'fastmem init' to create it\n")
	case errors.Is(err, index.ErrReadFailure):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, vault.ErrAuthFailed):
		fmt.Fprintf(os.Stderr, "Error: authentication failed (wrong password or corrupted data)\n")
	case errors.Is(err, index.ErrLocked):
		fmt.Fprintf(os.Stderr, "Error: memory is locked\n")
		fmt.Fprintf(os.Stderr, "Run 'fastmem unlock' first\n")
	case errors.Is(err, vault.ErrLocked):
		fmt.Fprintf(os.Stderr, "Error: storage is locked\n")
	case errors.Is(err, index.ErrSnapshotNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// OpenStoreOrExit is like OpenStore but exits on error
func OpenStoreOrExit(path string) *Store {
	store, err := OpenStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return store
}
