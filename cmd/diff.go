package cmd

import (
	"fmt"

	"github.com/illarion/fastmem/internal/index"
)

// Diff compares two saved states, or a saved state against the live
// index when only one name is given
func Diff(path, nameA, nameB string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	stateA, err := store.Index.ReadState(nameA)
	if err != nil {
		HandleError(err)
	}

	var stateB index.State
	labelB := nameB
	if nameB == "" {
		stateB = store.Index.State()
		labelB = "(current)"
	} else {
		stateB, err = store.Index.ReadState(nameB)
		if err != nil {
			HandleError(err)
		}
	}

	diff := index.DiffStates(nameA, labelB, stateA, stateB)
	if diff == "" {
		fmt.Println("No changes detected")
		return
	}
	fmt.Print(diff)
}
