package cmd

import (
	"fmt"
)

// Lock sets the storage's lock flag: set, rm, clear, save and load are
// rejected until unlocked. Reads keep working.
func Lock(path string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	store.Index.Lock()

	// Save is blocked while locked, so the flag persists via the
	// manifest instead of a snapshot
	if err := store.Manifest.SetLocked(true); err != nil {
		HandleError(err)
	}

	fmt.Println("Memory locked")
}

// Unlock clears the storage's lock flag
func Unlock(path string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	store.Index.Unlock()

	if err := store.Manifest.SetLocked(false); err != nil {
		HandleError(err)
	}

	fmt.Println("Memory unlocked")
}
