package polyasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", ReverseComplement("ACGT"))
	assert.Equal(t, "", ReverseComplement(""))
	assert.Equal(t, "nacgt", ReverseComplement("acgtn"))
}

func TestReverseComplementPreservesIUPACAndGapSymbols(t *testing.T) {
	assert.Equal(t, "?-.BVDH", ReverseComplement("DHBV.-?"))
}

func TestReverseComplementUnknownByteBecomesN(t *testing.T) {
	assert.Equal(t, "N", ReverseComplement("X"))
}

func TestNewSegmentFillsReverseSequence(t *testing.T) {
	seg := NewSegment(1, 12.5, "ACGT")
	assert.Equal(t, "ACGT", seg.ForwardSequence)
	assert.Equal(t, "ACGT", seg.ReverseSequence)
	assert.Equal(t, 4, seg.Length())
}

func TestSegmentLengthNoOverlap(t *testing.T) {
	seg := NewSegment(1, 1, "ACGTACGT")
	assert.Equal(t, 5, seg.LengthNoOverlap(3))
}

func TestSegmentSequenceForSign(t *testing.T) {
	seg := NewSegment(1, 1, "AACG")
	assert.Equal(t, "AACG", seg.SequenceForSign(true))
	assert.Equal(t, "CGTT", seg.SequenceForSign(false))
}

func TestSegmentDivideDepth(t *testing.T) {
	seg := NewSegment(1, 10, "ACGT")
	seg.DivideDepth(2)
	assert.Equal(t, 5.0, seg.Depth)
	seg.DivideDepth(0)
	assert.Equal(t, 5.0, seg.Depth, "dividing by zero must be a no-op")
}

func TestSegmentIsHomopolymer(t *testing.T) {
	assert.True(t, NewSegment(1, 1, "aaaaAAAA").IsHomopolymer())
	assert.False(t, NewSegment(1, 1, "AACGT").IsHomopolymer())
}

func TestSegTypeLabel(t *testing.T) {
	seg := NewSegment(1, 1, "ACGT")
	assert.Equal(t, "", seg.SegTypeLabel())
	seg.BridgeOrigin = &BridgeOrigin{Kind: LoopUnrollingBridgeKind}
	assert.Equal(t, "loop_unrolling_bridge", seg.SegTypeLabel())
}

func TestCopyNumberColour(t *testing.T) {
	assert.Equal(t, "black", CopyNumberColour(nil))
	assert.Equal(t, "forestgreen", CopyNumberColour([]float64{1}))
	assert.Equal(t, "gold", CopyNumberColour([]float64{1, 1}))
	assert.Equal(t, "darkorange", CopyNumberColour([]float64{1, 1, 1}))
	assert.Equal(t, "red", CopyNumberColour([]float64{1, 1, 1, 1}))
}

func TestBridgeColour(t *testing.T) {
	seg := NewSegment(1, 1, "ACGT")
	assert.Equal(t, "forestgreen", seg.BridgeColour(true))
	assert.Equal(t, "grey", seg.BridgeColour(false))
	seg.BridgeOrigin = &BridgeOrigin{Kind: ContigBridgeKind}
	assert.Equal(t, "pink", seg.BridgeColour(false))
}

func TestDepthString(t *testing.T) {
	assert.Equal(t, "", DepthString(nil))
	assert.Equal(t, "1.500, 2.250", DepthString([]float64{1.5, 2.25}))
}

func TestSequenceAlphabetAcceptsExtendedIUPAC(t *testing.T) {
	assert.Equal(t, -1, SequenceAlphabet.Check("ACGTRYSWKMBDHVNacgtn.-?"))
}

func TestSequenceAlphabetRejectsInvalidRune(t *testing.T) {
	assert.Equal(t, 4, SequenceAlphabet.Check("ACGTZ"))
}
