package cmd

import (
	"fmt"
)

// Save writes the current index state to a named snapshot
func Save(path, name string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	if err := store.Index.Save(name); err != nil {
		HandleError(err)
	}

	fmt.Printf("Saved state '%s'\n", name)
}

// Load replaces the index state with a named snapshot's contents
func Load(path, name string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	if err := store.Index.Load(name); err != nil {
		HandleError(err)
	}

	// The loaded state becomes the live one across invocations. A
	// snapshot carrying the lock flag blocks Save itself, so only the
	// flag is persisted in that case.
	if store.Index.Locked() {
		if err := store.Manifest.SetLocked(true); err != nil {
			HandleError(err)
		}
	} else if err := store.Persist(); err != nil {
		HandleError(err)
	}

	fmt.Printf("Loaded state '%s' (%d keys)\n", name, store.Index.Len())
}
