package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderState renders a state as one line per key for diffing, keys
// sorted, with the lock flag last.
func RenderState(s State) string {
	keys := make([]string, 0, len(s.Entries))
	for k := range s.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s -> %s\n", k, s.Entries[k])
	}
	fmt.Fprintf(&b, "locked: %v\n", s.Locked)
	return b.String()
}

// DiffStates generates a unified diff between two states using the
// go-diff library. Returns the diff output, or empty string if the
// states are identical.
func DiffStates(labelA, labelB string, a, b State) string {
	textA, textB := RenderState(a), RenderState(b)
	if textA == textB {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	ca, cb, lineArray := dmp.DiffLinesToChars(textA, textB)
	diffs := dmp.DiffMain(ca, cb, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(textA, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", labelA))
	result.WriteString(fmt.Sprintf("+++ %s\n", labelB))
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
