package polyasm

import (
	"fmt"
	"sort"
)

// PathRegistry holds named ordered sequences of signed segment ids, the input assembler's
// scaffold paths. Paths are annotations, not required for graph correctness.
type PathRegistry struct {
	Paths map[string][]int
}

// NewPathRegistry returns an empty path registry.
func NewPathRegistry() *PathRegistry {
	return &PathRegistry{Paths: make(map[string][]int)}
}

// Names returns path names in sorted order, for deterministic iteration.
func (pr *PathRegistry) Names() []string {
	names := make([]string, 0, len(pr.Paths))
	for name := range pr.Paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeleteReferencing removes any path whose id list intersects ±ids.
func (pr *PathRegistry) DeleteReferencing(ids map[uint32]bool) {
	for name, nums := range pr.Paths {
		for _, n := range nums {
			if ids[uint32(absInt(n))] {
				delete(pr.Paths, name)
				break
			}
		}
	}
}

// findSubsequence returns the index at which needle occurs as a contiguous subsequence of
// haystack, or -1.
func findSubsequence(haystack, needle []int) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, v := range needle {
			if haystack[i+j] != v {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// replaceAllSubsequences replaces every non-overlapping occurrence of `from` in `path` with `to`.
func replaceAllSubsequences(path, from, to []int) []int {
	if len(from) == 0 {
		return path
	}
	var out []int
	i := 0
	for i < len(path) {
		if idx := findSubsequence(path[i:], from); idx == 0 {
			out = append(out, to...)
			i += len(from)
		} else {
			out = append(out, path[i])
			i++
		}
	}
	return out
}

func flipped(path []int) []int {
	out := make([]int, len(path))
	for i, v := range path {
		out[len(path)-1-i] = -v
	}
	return out
}

// ReplaceInAllPaths replaces every contiguous occurrence of `from` (and its strand-flipped
// reverse) with `to` (and -to reversed), across every registered path. Matches §4.1 step 4 of
// merge_simple_path.
func (pr *PathRegistry) ReplaceInAllPaths(from []int, toID int) {
	to := []int{toID}
	flippedFrom := flipped(from)
	flippedTo := []int{-toID}
	for name, nums := range pr.Paths {
		nums = replaceAllSubsequences(nums, from, to)
		nums = replaceAllSubsequences(nums, flippedFrom, flippedTo)
		pr.Paths[name] = nums
	}
}

// SplitOnRemoved splits any path still containing a reference to one of the ids in `removed`
// (signed, both strands) into maximal fragments that avoid those ids, renaming fragments with
// `_1`, `_2`, .... Fragments of length < 2 are dropped, matching spec.md §4.1's merge/split rule.
func (pr *PathRegistry) SplitOnRemoved(removed map[int]bool) {
	newPaths := make(map[string][]int)
	for _, name := range pr.Names() {
		nums := pr.Paths[name]
		var fragments [][]int
		var current []int
		for _, n := range nums {
			if removed[n] {
				if len(current) > 0 {
					fragments = append(fragments, current)
					current = nil
				}
				continue
			}
			current = append(current, n)
		}
		if len(current) > 0 {
			fragments = append(fragments, current)
		}
		if len(fragments) == 1 && len(fragments[0]) == len(nums) {
			// Nothing was removed from this path.
			newPaths[name] = fragments[0]
			continue
		}
		for i, frag := range fragments {
			if len(frag) < 2 {
				continue
			}
			newPaths[fmt.Sprintf("%s_%d", name, i+1)] = frag
		}
	}
	pr.Paths = newPaths
}

// InsertBetween rewrites every path that traverses a -> b directly into a -> mid -> b (and its
// strand twin -b -> -mid -> -a), used by multi-way junction repair.
func (pr *PathRegistry) InsertBetween(a, b, mid int) {
	for name, nums := range pr.Paths {
		nums = insertNumInList(nums, a, b, mid)
		nums = insertNumInList(nums, -b, -a, -mid)
		pr.Paths[name] = nums
	}
}

func insertNumInList(nums []int, a, b, mid int) []int {
	var out []int
	for i := 0; i < len(nums); i++ {
		out = append(out, nums[i])
		if i+1 < len(nums) && nums[i] == a && nums[i+1] == b {
			out = append(out, mid)
		}
	}
	return out
}
