package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Clear removes every value from the storage
func Clear(path string, yes bool) {
	if !yes && !confirm("Are you sure you want to clear all data? [y/N]: ") {
		return
	}

	store := OpenStoreOrExit(path)
	defer store.Close()

	if err := store.Index.Clear(); err != nil {
		HandleError(err)
	}

	if err := store.Persist(); err != nil {
		HandleError(err)
	}

	fmt.Println("Cleared all data")
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
