package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/fastmem/internal/value"
)

// Get prints the value stored under a key. When the key is absent and a
// default was given, the default is printed instead; without a default,
// an absent key is reported on stderr with a non-zero exit.
func Get(path, key string, defRaw string, hasDefault bool) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	def := value.Null()
	if hasDefault {
		parsed, err := value.Parse(defRaw)
		if err != nil {
			parsed = value.String(defRaw)
		}
		def = parsed
	}

	var result value.Value
	err := store.WithUnlock(func() error {
		var getErr error
		result, getErr = store.Index.Get(key, def)
		return getErr
	})
	if err != nil {
		HandleError(err)
	}

	if result.IsNull() && !hasDefault {
		fmt.Fprintf(os.Stderr, "Key '%s' not found\n", key)
		os.Exit(1)
	}

	text, err := result.Encode()
	if err != nil {
		HandleError(err)
	}
	fmt.Println(text)
}
