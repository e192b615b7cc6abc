package polyasm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TimothyStiles/polyasm/random"
)

func TestScaleCopyDepths(t *testing.T) {
	scaled, errVal := ScaleCopyDepths(10, []float64{3, 7})
	assert.Equal(t, []float64{7, 3}, scaled, "scaled depths are returned largest first")
	assert.Equal(t, 0.0, errVal)
}

func TestScaleCopyDepthsZeroSourceSum(t *testing.T) {
	scaled, errVal := ScaleCopyDepths(10, []float64{0, 0})
	assert.Equal(t, []float64{0, 0}, scaled)
	assert.True(t, errVal > 0, "scaling a zero-sum source to a non-zero target is a full-magnitude error")
}

func TestRemoveSegmentDepthDropsClosestCopy(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 10, "ACGT"))
	g.CopyDepths[1] = []float64{3, 7}

	g.RemoveSegmentDepth(1, 6.5)

	assert.Equal(t, 3.5, g.Segments[1].Depth)
	assert.Equal(t, []float64{3}, g.CopyDepths[1], "the 7 was closer to 6.5 than the 3 was")
}

func TestRemoveSegmentDepthFloorsAtZero(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 5, "ACGT"))
	g.RemoveSegmentDepth(1, 10)
	assert.Equal(t, 0.0, g.Segments[1].Depth)
}

func TestSingleCopySegments(t *testing.T) {
	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 1, "A"))
	g.AddSegment(NewSegment(2, 1, "A"))
	g.CopyDepths[1] = []float64{1.0}
	g.CopyDepths[2] = []float64{1.0, 2.0}

	single := g.SingleCopySegments()
	assert.Len(t, single, 1)
	assert.Equal(t, uint32(1), single[0].Number)
}

func TestAssignSingleCopyDepthPicksLongestEligibleSegment(t *testing.T) {
	// assignSingleCopyDepth is the fallback that seeds the longest copy-less segment with exactly
	// one link per end and at least minSingleCopyLength bases once propagation stalls (§4.3).
	// Called directly here, before any seeding, it must pick the 1200bp segment over the 200bp one.
	longSeq, err := random.DNASequence(1200, 1)
	assert.NoError(t, err)
	shortSeq, err := random.DNASequence(200, 2)
	assert.NoError(t, err)

	g := NewGraph(0)
	g.AddSegment(NewSegment(1, 40, longSeq))
	g.AddSegment(NewSegment(2, 40, shortSeq))
	g.AddSegment(NewSegment(3, 40, "A"))
	g.Links.AddLink(3, 1)
	g.Links.AddLink(1, 3)
	g.Links.AddLink(3, 2)
	g.Links.AddLink(2, 3)

	assert.Equal(t, 1, g.assignSingleCopyDepth(minSingleCopyLength))
	assert.Equal(t, []float64{40}, g.CopyDepths[1], "the 1200bp segment is chosen over the 200bp one")
	assert.NotContains(t, g.CopyDepths, uint32(2))
}

func TestInferCopyDepthsSeedsUnbranchedChain(t *testing.T) {
	g := threeSegmentChain(5)
	g.InferCopyDepths()

	for _, n := range []uint32{1, 2, 3} {
		assert.Equal(t, []float64{10}, g.CopyDepths[n])
	}
	assert.Len(t, g.SingleCopySegments(), 3)
}
