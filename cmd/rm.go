package cmd

import (
	"fmt"
	"os"
)

// Remove deletes a key from the storage
func Remove(path, key string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	deleted, err := store.Index.Delete(key)
	if err != nil {
		HandleError(err)
	}

	if err := store.Persist(); err != nil {
		HandleError(err)
	}

	if !deleted {
		fmt.Fprintf(os.Stderr, "Key '%s' not found\n", key)
		os.Exit(1)
	}
	fmt.Printf("Deleted key: %s\n", key)
}
