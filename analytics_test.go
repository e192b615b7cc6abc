package polyasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllPathsFindsInteriorPath(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 10, "AC"))
	g.AddSegment(NewSegment(2, 10, "ACGT"))
	g.AddSegment(NewSegment(3, 10, "AC"))
	g.Links.AddLink(1, 2)
	g.Links.AddLink(2, 3)

	paths := g.AllPaths(1, 3, 0, 4, 10, 0)
	assert.Equal(t, [][]int{{2}}, paths)
}

func TestAllPathsReturnsNilForUnknownStart(t *testing.T) {
	g := NewGraph(0)
	assert.Nil(t, g.AllPaths(1, 2, 0, 0, 10, 0))
}

func TestFindAllSimpleLoops(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 10, "AC"))
	g.AddSegment(NewSegment(2, 10, "AC"))
	g.AddSegment(NewSegment(3, 10, "AC"))
	g.AddSegment(NewSegment(4, 10, "AC"))
	g.Links.AddLink(1, 2)
	g.Links.AddLink(2, 3)
	g.Links.AddLink(3, 2)
	g.Links.AddLink(2, 4)

	loops := g.FindAllSimpleLoops()
	assert.Equal(t, []SimpleLoop{{Start: 1, End: 4, Middle: 3, Repeat: 2}}, loops)
}

func TestTotalLinkCountCountsTwinOnce(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 10, "AC"))
	g.AddSegment(NewSegment(2, 10, "AC"))
	g.Links.AddLink(1, 2)
	assert.Equal(t, 1, g.TotalLinkCount())
}

func TestCompletedCircularComponents(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 10, "AC"))
	g.Links.AddLink(1, 1)

	circles := g.CompletedCircularComponents()
	assert.Equal(t, [][]uint32{{1}}, circles)
}

func lengthGraph() *Graph {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 1, "A"))
	g.AddSegment(NewSegment(2, 1, "AC"))
	g.AddSegment(NewSegment(3, 1, "ACG"))
	g.AddSegment(NewSegment(4, 1, "ACGT"))
	return g
}

func TestContigStats(t *testing.T) {
	g := lengthGraph()
	n50, shortest, q1, median, q3, longest := g.ContigStats()
	assert.Equal(t, 3, n50)
	assert.Equal(t, 1, shortest)
	assert.Equal(t, 2, q1)
	assert.Equal(t, 3, median)
	assert.Equal(t, 3, q3)
	assert.Equal(t, 4, longest)
}

func TestGetNSegmentLength(t *testing.T) {
	g := lengthGraph()
	assert.Equal(t, 3, g.GetNSegmentLength(50))
}
