package cmd

import (
	"fmt"

	"github.com/illarion/fastmem/internal/value"
)

// Set stores a value under a key. The raw argument is parsed as JSON;
// anything that is not valid JSON is stored as a plain string.
func Set(path, key, raw string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	val, err := value.Parse(raw)
	if err != nil {
		val = value.String(raw)
	}

	err = store.WithUnlock(func() error {
		return store.Index.Set(key, val)
	})
	if err != nil {
		HandleError(err)
	}

	if err := store.Persist(); err != nil {
		HandleError(err)
	}

	text, _ := val.Encode()
	fmt.Printf("Set %s = %s\n", key, text)
}
