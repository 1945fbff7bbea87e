package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/illarion/fastmem/internal/vault"
)

// Status shows the state of a storage without requiring a password.
// With a key, only that key's bookkeeping record is shown.
func Status(path, key string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	if key != "" {
		statusKey(store, key)
		return
	}

	fmt.Printf("Storage: %s\n", store.Root)

	if _, err := os.Stat(filepath.Join(store.Root, vault.SaltFile)); err != nil {
		fmt.Println("Password: not set")
	} else {
		fmt.Println("Password: set")
	}

	iterations, err := store.Manifest.GetIterations()
	if err == nil {
		fmt.Printf("Encryption: AES-256-GCM, PBKDF2 %d iterations\n", iterations)
	}

	if store.Index.Locked() {
		fmt.Println("Lock: locked")
	} else {
		fmt.Println("Lock: unlocked")
	}

	if modified, err := store.Manifest.GetModified(); err == nil {
		fmt.Printf("Modified: %s\n", modified.Format(time.RFC3339))
	}

	entries, err := store.Manifest.Entries()
	if err != nil || len(entries) == 0 {
		fmt.Println("Keys: (none)")
		return
	}

	var totalSize int64
	fmt.Printf("Keys: %d\n", len(entries))
	for _, entry := range entries {
		fmt.Printf("  %s (%d bytes)\n", entry.Key, entry.Size)
		totalSize += entry.Size
	}
	fmt.Printf("Total size: %d bytes\n", totalSize)
}

func statusKey(store *Store, key string) {
	entry, err := store.Manifest.GetEntry(key)
	if err != nil {
		HandleError(err)
	}
	if entry == nil {
		fmt.Fprintf(os.Stderr, "Key '%s' not found\n", key)
		os.Exit(1)
	}

	fmt.Printf("Key: %s\n", entry.Key)
	fmt.Printf("Blob: %s\n", entry.Blob)
	fmt.Printf("Size: %d bytes\n", entry.Size)
	fmt.Printf("Modified: %s\n", entry.Modified.Format(time.RFC3339))
}
