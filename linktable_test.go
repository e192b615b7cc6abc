package polyasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddLinkInsertsTwin(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)

	assert.ElementsMatch(t, []int{2}, lt.Forward[1])
	assert.ElementsMatch(t, []int{1}, lt.Reverse[2])
	assert.ElementsMatch(t, []int{-1}, lt.Forward[-2], "reverse-complement twin must also be recorded")
	assert.ElementsMatch(t, []int{-2}, lt.Reverse[-1])
}

func TestAddLinkIsIdempotent(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)
	lt.AddLink(1, 2)
	assert.Len(t, lt.Forward[1], 1)
}

func TestRemoveLinkRemovesTwin(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)
	lt.RemoveLink(1, 2)

	assert.Empty(t, lt.Forward[1])
	assert.Empty(t, lt.Reverse[2])
	assert.Empty(t, lt.Forward[-2])
	assert.Empty(t, lt.Reverse[-1])
}

func TestDeadEndCount(t *testing.T) {
	lt := NewLinkTable()
	assert.Equal(t, 2, lt.DeadEndCount(1), "an isolated segment end is dead on both sides")

	lt.AddLink(1, 2)
	assert.Equal(t, 1, lt.DeadEndCount(1), "segment 1 now has an outgoing link but no incoming one")
	assert.Equal(t, 1, lt.DeadEndCount(2))
}

func TestConnectedSegmentsIsStrandAgnosticAndSorted(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)
	lt.AddLink(-1, 3)

	assert.Equal(t, []uint32{2, 3}, lt.ConnectedSegments(1))
}

func TestLeadsExclusivelyTo(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)
	assert.True(t, lt.LeadsExclusivelyTo(1, 2))
	assert.False(t, lt.LeadsExclusivelyTo(1, 3))

	lt.AddLink(1, 3)
	assert.False(t, lt.LeadsExclusivelyTo(1, 2), "a now has two outgoing links")
}

func TestExclusiveInputsAndOutputs(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 3)
	lt.AddLink(2, 3)

	assert.Equal(t, []uint32{1, 2}, lt.ExclusiveInputs(3))
	assert.Equal(t, []uint32(nil), lt.ExclusiveOutputs(1), "3 is also entered from 2, so it is not exclusive to 1")
}

func TestAtMostOneLinkPerEnd(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)
	assert.True(t, lt.AtMostOneLinkPerEnd(1))

	lt.AddLink(1, 3)
	assert.False(t, lt.AtMostOneLinkPerEnd(1))
}

func TestExactlyOneLinkPerEnd(t *testing.T) {
	lt := NewLinkTable()
	lt.AddLink(1, 2)
	assert.False(t, lt.ExactlyOneLinkPerEnd(1), "segment 1 has no incoming link yet")

	lt.AddLink(0, 1)
	assert.True(t, lt.ExactlyOneLinkPerEnd(1))
}
