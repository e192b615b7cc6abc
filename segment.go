/*
Package polyasm implements the core of a hybrid genome-assembly post-processor: a directed,
double-stranded sequence graph together with the algorithms that clean it, infer per-segment copy
numbers from read depth, and collapse ambiguity by applying externally supplied bridges.
*/
package polyasm

import (
	"fmt"
	"strings"

	"github.com/TimothyStiles/polyasm/alphabet"
	"github.com/TimothyStiles/polyasm/checks"
)

// SequenceAlphabet is the extended DNA alphabet every segment sequence is validated against on
// load: the four canonical bases, the IUPAC ambiguity codes, and the gap/unknown symbols, in
// both cases (§3.1). Loaders call SequenceAlphabet.Check on every parsed sequence and report the
// first offending rune's position as a malformed-input error.
var SequenceAlphabet = alphabet.DNA.Extend([]string{
	"R", "Y", "S", "W", "K", "M", "B", "D", "H", "V", "N", ".", "-", "?",
	"a", "c", "g", "t", "r", "y", "s", "w", "k", "m", "b", "d", "h", "v", "n",
})

// BridgeKind tags which kind of external bridge created a segment.
type BridgeKind int

const (
	// NoBridge marks a segment that was not created by bridging.
	NoBridge BridgeKind = iota
	// ContigBridgeKind marks a segment created from a contig bridge.
	ContigBridgeKind
	// LoopUnrollingBridgeKind marks a segment created from a loop-unrolling bridge.
	LoopUnrollingBridgeKind
	// LongReadBridgeKind marks a segment created from a long-read bridge.
	LongReadBridgeKind
)

func (k BridgeKind) String() string {
	switch k {
	case ContigBridgeKind:
		return "contig"
	case LoopUnrollingBridgeKind:
		return "loop_unrolling"
	case LongReadBridgeKind:
		return "long_read"
	default:
		return ""
	}
}

// BridgeOrigin records which bridge produced a segment and the interior path it represents.
type BridgeOrigin struct {
	Kind     BridgeKind
	Path     []int
	Quality  float64
}

// complementBase maps a base in the extended alphabet "A C G T R Y S W K M B D H V N . - ?" to its
// complement, preserving case. Anything not in the map (there should be nothing, on valid input)
// complements to 'N', matching the reference implementation's find-on-miss fallback.
var complementBase = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
	'a': 't', 't': 'a', 'g': 'c', 'c': 'g',
	'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
	'r': 'y', 'y': 'r', 's': 's', 'w': 'w', 'k': 'm', 'm': 'k',
	'B': 'V', 'D': 'H', 'H': 'D', 'V': 'B',
	'b': 'v', 'd': 'h', 'h': 'd', 'v': 'b',
	'N': 'N', 'n': 'n',
	'.': '.', '-': '-', '?': '?',
}

// ReverseComplement returns the reverse complement of a sequence over the graph's extended
// DNA alphabet. A byte with no entry in the complement map becomes 'N'.
func ReverseComplement(sequence string) string {
	n := len(sequence)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c, ok := complementBase[sequence[i]]
		if !ok {
			c = 'N'
		}
		out[n-1-i] = c
	}
	return string(out)
}

// Segment is a length of double-stranded DNA with forward and reverse-complement sequences kept
// in sync, a scalar depth, and optional bridge provenance.
type Segment struct {
	Number          uint32
	Depth           float64
	ForwardSequence string
	ReverseSequence string
	BridgeOrigin    *BridgeOrigin
}

// NewSegment builds a Segment from a forward sequence, filling in the reverse complement.
func NewSegment(number uint32, depth float64, forwardSequence string) *Segment {
	return &Segment{
		Number:          number,
		Depth:           depth,
		ForwardSequence: forwardSequence,
		ReverseSequence: ReverseComplement(forwardSequence),
	}
}

// Length returns the segment's sequence length in bases.
func (s *Segment) Length() int {
	return len(s.ForwardSequence)
}

// LengthNoOverlap returns the segment's length minus the graph-wide overlap constant.
func (s *Segment) LengthNoOverlap(overlap int) int {
	return s.Length() - overlap
}

// SequenceForSign returns the forward sequence for a positive signed id, the reverse complement
// for a negative one.
func (s *Segment) SequenceForSign(positive bool) string {
	if positive {
		return s.ForwardSequence
	}
	return s.ReverseSequence
}

// DivideDepth divides the segment's depth by divisor, a no-op if divisor is zero.
func (s *Segment) DivideDepth(divisor float64) {
	if divisor == 0 {
		return
	}
	s.Depth /= divisor
}

// IsHomopolymer reports whether the segment's forward sequence is a single repeated base,
// case-insensitively.
func (s *Segment) IsHomopolymer() bool {
	return checks.IsHomopolymer(s.ForwardSequence)
}

// SegTypeLabel returns a short label describing how this segment came to exist, for GFA LB tags.
func (s *Segment) SegTypeLabel() string {
	if s.BridgeOrigin == nil {
		return ""
	}
	return s.BridgeOrigin.Kind.String() + "_bridge"
}

// CopyNumberColour returns the GFA CL colour for a segment given its assigned copy depths, per
// the 1=green, 2=gold, 3=orange, 4+=red convention.
func CopyNumberColour(copyDepths []float64) string {
	switch n := len(copyDepths); {
	case n == 0:
		return "black"
	case n == 1:
		return "forestgreen"
	case n == 2:
		return "gold"
	case n == 3:
		return "darkorange"
	default:
		return "red"
	}
}

// BridgeColour returns the GFA CL colour for bridge-type coloring: green for single-copy, grey
// for non-bridge, pink for bridge-originated.
func (s *Segment) BridgeColour(singleCopy bool) string {
	switch {
	case singleCopy:
		return "forestgreen"
	case s.BridgeOrigin == nil:
		return "grey"
	default:
		return "pink"
	}
}

// DepthString formats a copy-depth vector the way GFA LB tags expect: "d1, d2, ...".
func DepthString(copyDepths []float64) string {
	if len(copyDepths) == 0 {
		return ""
	}
	parts := make([]string, len(copyDepths))
	for i, d := range copyDepths {
		parts[i] = formatDepth(d)
	}
	return strings.Join(parts, ", ")
}

func formatDepth(d float64) string {
	return fmt.Sprintf("%.3f", d)
}
