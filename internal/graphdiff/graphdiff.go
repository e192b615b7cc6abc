/*
Package graphdiff renders human-readable diffs for debugging: a unified line diff between two
textual graph serializations (typically two GFA dumps), built on go-difflib, and a
character-level diff of two short sequences, built on go-diff's diffmatchpatch.
*/
package graphdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Unified returns a unified diff between `from` and `to`, labeled fromName/toName, or the empty
// string if the two are identical.
func Unified(fromName, toName, from, to string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("graphdiff: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}

// SequenceDiff returns a compact character-level diff of two short strings, typically the two
// overlap regions an invariant-violation assertion found mismatched (e.g. a junction-repair or
// merge-time overlap check). Built on diffmatchpatch, the same character-diff library present in
// the teacher's dependency tree.
func SequenceDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffPrettyText(diffs)
}
