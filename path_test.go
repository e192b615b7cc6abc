package polyasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathRegistryNamesSorted(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["zebra"] = []int{1}
	pr.Paths["apple"] = []int{2}
	assert.Equal(t, []string{"apple", "zebra"}, pr.Names())
}

func TestDeleteReferencing(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["keep"] = []int{1, 2, 3}
	pr.Paths["drop"] = []int{-4, 5}
	pr.DeleteReferencing(map[uint32]bool{4: true})

	assert.Contains(t, pr.Paths, "keep")
	assert.NotContains(t, pr.Paths, "drop")
}

func TestReplaceInAllPaths(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["p"] = []int{1, 2, 3, 4}
	pr.ReplaceInAllPaths([]int{2, 3}, 99)
	assert.Equal(t, []int{1, 99, 4}, pr.Paths["p"])
}

func TestReplaceInAllPathsMatchesFlippedStrand(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["p"] = []int{1, -3, -2, 4}
	pr.ReplaceInAllPaths([]int{2, 3}, 99)
	assert.Equal(t, []int{1, -99, 4}, pr.Paths["p"])
}

func TestSplitOnRemovedKeepsUntouchedPath(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["p"] = []int{1, 2, 3}
	pr.SplitOnRemoved(map[int]bool{5: true})
	assert.Equal(t, []int{1, 2, 3}, pr.Paths["p"])
}

func TestSplitOnRemovedDropsShortFragments(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["p"] = []int{1, 2, 3}
	pr.SplitOnRemoved(map[int]bool{2: true})
	// Splitting around the middle element leaves two length-1 fragments, both dropped.
	assert.NotContains(t, pr.Paths, "p")
	assert.NotContains(t, pr.Paths, "p_1")
}

func TestSplitOnRemovedNamesSurvivingFragments(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["p"] = []int{1, 2, 3, 99, 4, 5}
	pr.SplitOnRemoved(map[int]bool{99: true})
	assert.Equal(t, []int{1, 2, 3}, pr.Paths["p_1"])
	assert.Equal(t, []int{4, 5}, pr.Paths["p_2"])
}

func TestInsertBetween(t *testing.T) {
	pr := NewPathRegistry()
	pr.Paths["p"] = []int{1, 2, 5}
	pr.InsertBetween(1, 2, 7)
	assert.Equal(t, []int{1, 7, 2, 5}, pr.Paths["p"])
}
