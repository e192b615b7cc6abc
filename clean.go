package polyasm

import (
	"fmt"
	"sort"

	"github.com/TimothyStiles/polyasm/internal/graphdiff"
)

// WeightedMedianDepth returns the by-base median depth over segmentNums, or over every live
// segment if segmentNums is nil. Segments are walked in depth order, accumulating length until
// half the total is reached (§4.2 get_median_read_depth).
func (g *Graph) WeightedMedianDepth(segmentNums []uint32) float64 {
	var segs []*Segment
	if segmentNums == nil {
		for _, n := range g.SortedSegmentNumbers() {
			segs = append(segs, g.Segments[n])
		}
	} else {
		for _, n := range segmentNums {
			if seg, ok := g.Segments[n]; ok {
				segs = append(segs, seg)
			}
		}
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Depth < segs[j].Depth })

	var totalLength int
	for _, seg := range segs {
		totalLength += seg.LengthNoOverlap(g.Overlap)
	}
	halfwayLength := totalLength / 2

	var lengthSoFar int
	for _, seg := range segs {
		lengthSoFar += seg.LengthNoOverlap(g.Overlap)
		if lengthSoFar >= halfwayLength {
			return seg.Depth
		}
	}
	return 0.0
}

// NormaliseReadDepths divides every segment's depth by the graph's median depth, so the median
// segment ends up at depth 1.0 (§4.2 normalise_read_depths).
func (g *Graph) NormaliseReadDepths() {
	median := g.WeightedMedianDepth(nil)
	for _, seg := range g.Segments {
		seg.DivideDepth(median)
	}
}

func allSegmentsBelowDepth(segs []*Segment, cutoff float64) bool {
	for _, seg := range segs {
		if seg.Depth >= cutoff {
			return false
		}
	}
	return true
}

// DeadEndChangeIfDeleted returns the change in total graph dead-end count that deleting segNum
// (an unsigned id) would cause: positive means more dead ends, negative means fewer (§4.2
// dead_end_change_if_deleted).
func (g *Graph) DeadEndChangeIfDeleted(segNum int) int {
	potential := 0
	for _, down := range g.Links.Forward[segNum] {
		if len(g.Links.Reverse[down]) == 1 {
			potential++
		}
	}
	for _, up := range g.Links.Reverse[segNum] {
		if len(g.Links.Forward[up]) == 1 {
			potential++
		}
	}
	return potential - g.Links.DeadEndCount(segNum)
}

// DeadEndChangeIfPathDeleted is the path form of DeadEndChangeIfDeleted, for a simple unbranching
// path [start,...,end]. It implements the corrected rule (compare the downstream/upstream
// neighbour *counts* to zero) rather than the reference implementation's bug of comparing those
// lists directly to the integer 0, which is always false for a non-empty list.
func (g *Graph) DeadEndChangeIfPathDeleted(pathSegments []int) int {
	start, end := pathSegments[0], pathSegments[len(pathSegments)-1]

	potential := 0
	downstream := g.Links.Forward[end]
	for _, down := range downstream {
		if len(g.Links.Reverse[down]) == 1 {
			potential++
		}
	}
	upstream := g.Links.Reverse[start]
	for _, up := range upstream {
		if len(g.Links.Forward[up]) == 1 {
			potential++
		}
	}

	deadEnds := 0
	if len(downstream) == 0 {
		deadEnds++
	}
	if len(upstream) == 0 {
		deadEnds++
	}
	return potential - deadEnds
}

// FilterByReadDepth removes segments whose depth is below relativeDepthCutoff times either the
// whole-graph median or their own connected component's median, provided at least one of three
// conditions holds: the segment already has a dead end, its whole component is below the
// whole-graph cutoff, or deleting it would not increase dead ends (§4.2 filter_by_read_depth).
func (g *Graph) FilterByReadDepth(relativeDepthCutoff float64) {
	var toRemove []uint32
	wholeGraphCutoff := g.WeightedMedianDepth(nil) * relativeDepthCutoff
	components := g.GetConnectedComponents()
	for _, component := range components {
		var componentSegs []*Segment
		for _, n := range component {
			componentSegs = append(componentSegs, g.Segments[n])
		}
		componentCutoff := g.WeightedMedianDepth(component) * relativeDepthCutoff
		for _, n := range component {
			seg := g.Segments[n]
			if seg.Depth < wholeGraphCutoff || seg.Depth < componentCutoff {
				if g.Links.DeadEndCount(int(n)) > 0 ||
					allSegmentsBelowDepth(componentSegs, wholeGraphCutoff) ||
					g.DeadEndChangeIfDeleted(int(n)) <= 0 {
					toRemove = append(toRemove, n)
				}
			}
		}
	}
	g.RemoveSegments(toRemove)
}

func toUpperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func allSegmentsAreOneBase(segs []*Segment) bool {
	var nonEmpty []*Segment
	for _, seg := range segs {
		if seg.Length() > 0 {
			nonEmpty = append(nonEmpty, seg)
		}
	}
	if len(nonEmpty) == 0 {
		return false
	}
	base := toUpperByte(nonEmpty[0].ForwardSequence[0])
	for _, seg := range nonEmpty {
		if !seg.IsHomopolymer() {
			return false
		}
		forwardBase := toUpperByte(seg.ForwardSequence[0])
		reverseBase := toUpperByte(seg.ReverseSequence[0])
		if forwardBase != base && reverseBase != base {
			return false
		}
	}
	return true
}

// FilterHomopolymerLoops removes any connected component consisting entirely of homopolymer
// segments sharing the same base, the small one-base artefacts SPAdes graphs sometimes produce
// (§4.2 filter_homopolymer_loops).
func (g *Graph) FilterHomopolymerLoops() {
	var toRemove []uint32
	for _, component := range g.GetConnectedComponents() {
		var segs []*Segment
		for _, n := range component {
			segs = append(segs, g.Segments[n])
		}
		if allSegmentsAreOneBase(segs) {
			toRemove = append(toRemove, component...)
		}
	}
	g.RemoveSegments(toRemove)
}

// RemoveSmallComponents deletes any connected component shorter than minComponentSize, unless one
// of its segments carries bridge provenance (in which case it's more likely genuine and kept)
// (§4.4 remove_small_components).
func (g *Graph) RemoveSmallComponents(minComponentSize int) {
	var toRemove []uint32
	for _, component := range g.GetConnectedComponents() {
		length := 0
		hasBridge := false
		for _, n := range component {
			seg := g.Segments[n]
			length += seg.Length()
			if seg.BridgeOrigin != nil {
				hasBridge = true
			}
		}
		if length >= minComponentSize || hasBridge {
			continue
		}
		toRemove = append(toRemove, component...)
	}
	g.RemoveSegments(toRemove)
}

// RemoveSmallDeadEnds repeatedly removes segments shorter than minDeadEndSize whose removal would
// strictly decrease the total dead-end count, one at a time, until none remain (§4.4
// remove_small_dead_ends).
func (g *Graph) RemoveSmallDeadEnds(minDeadEndSize int) {
	for {
		removedAny := false
		for _, n := range g.SortedSegmentNumbers() {
			seg := g.Segments[n]
			if seg.Length() >= minDeadEndSize {
				continue
			}
			if g.DeadEndChangeIfDeleted(int(n)) < 0 {
				g.RemoveSegments([]uint32{n})
				removedAny = true
				break
			}
		}
		if !removedAny {
			break
		}
	}
}

// MergeAllPossible repeatedly finds a simple unbranching path and merges it, in a consistent
// (sorted) order, until no mergeable path remains, then renumbers segments so id 1 is the
// longest (§4.2 merge_all_possible).
func (g *Graph) MergeAllPossible() error {
	for {
		mergedAny := false
		for _, num := range g.SortedSegmentNumbers() {
			if _, ok := g.Segments[num]; !ok {
				continue
			}
			path := g.SimplePath(int(num))
			if len(path) <= 1 {
				continue
			}
			if _, err := g.MergeSimplePath(path); err != nil {
				return err
			}
			mergedAny = true
			break
		}
		if !mergedAny {
			break
		}
	}
	g.RenumberSegments()
	return nil
}

// RepairMultiWayJunctions finds multi-way junctions (two or more segments that each lead into
// exactly the same set of two or more downstream segments, each of which is entered only from
// that first set) and replaces the junction with a synthetic,
// overlap-length bridge segment, so copy-depth propagation sees a simple two-way split on each
// side instead of an ambiguous tangle (§4.3). Example: A->B,C and D->B,C becomes A->E, D->E,
// E->B, E->C.
func (g *Graph) RepairMultiWayJunctions() error {
	for {
		repaired, err := g.repairOneMultiWayJunction()
		if err != nil {
			return err
		}
		if !repaired {
			return nil
		}
	}
}

func (g *Graph) repairOneMultiWayJunction() (bool, error) {
	var segNums []int
	for _, n := range g.SortedSegmentNumbers() {
		segNums = append(segNums, int(n))
	}
	for _, n := range g.SortedSegmentNumbers() {
		segNums = append(segNums, -int(n))
	}

	for _, segNum := range segNums {
		endingSegs := dedupeInts(g.Links.Forward[segNum])
		if len(endingSegs) < 2 {
			continue
		}

		startingSet := map[int]bool{}
		for _, e := range endingSegs {
			for _, s := range g.Links.Reverse[e] {
				startingSet[s] = true
			}
		}
		if len(startingSet) < 2 {
			continue
		}
		var startingSegs []int
		for s := range startingSet {
			startingSegs = append(startingSegs, s)
		}
		sort.Ints(startingSegs)

		endingSet := map[int]bool{}
		for _, e := range endingSegs {
			endingSet[e] = true
		}
		complete := true
		for _, s := range startingSegs {
			outs := map[int]bool{}
			for _, e := range g.Links.Forward[s] {
				outs[e] = true
			}
			complete = complete && sameIntSet(outs, endingSet)
		}
		for _, e := range endingSegs {
			complete = complete && len(dedupeInts(g.Links.Reverse[e])) == len(startingSet)
		}
		if !complete {
			continue
		}

		bridgeSeq := g.SeqFromSignedSegNum(endingSegs[0])[:g.Overlap]
		for _, s := range startingSegs {
			seq := g.SeqFromSignedSegNum(s)
			suffix := seq[len(seq)-g.Overlap:]
			if suffix != bridgeSeq {
				diff := graphdiff.SequenceDiff(suffix, bridgeSeq)
				return false, invariantViolationError(fmt.Sprintf("multi-way junction overlap mismatch on starting segment %d: %s", s, diff))
			}
		}
		for _, e := range endingSegs {
			prefix := g.SeqFromSignedSegNum(e)[:g.Overlap]
			if prefix != bridgeSeq {
				diff := graphdiff.SequenceDiff(prefix, bridgeSeq)
				return false, invariantViolationError(fmt.Sprintf("multi-way junction overlap mismatch on ending segment %d: %s", e, diff))
			}
		}

		bridgeNum := g.NextAvailableSegmentNumber()
		var startDepthSum, endDepthSum float64
		for _, s := range startingSegs {
			startDepthSum += g.Segments[uint32(absInt(s))].Depth
		}
		for _, e := range endingSegs {
			endDepthSum += g.Segments[uint32(absInt(e))].Depth
		}
		bridgeDepth := (startDepthSum + endDepthSum) / 2.0
		bridgeSeg := NewSegment(bridgeNum, bridgeDepth, bridgeSeq)
		g.AddSegment(bridgeSeg)

		for _, s := range startingSegs {
			g.Links.Forward[s] = []int{int(bridgeNum)}
			g.Links.Reverse[-s] = []int{-int(bridgeNum)}
		}
		for _, e := range endingSegs {
			g.Links.Reverse[e] = []int{int(bridgeNum)}
			g.Links.Forward[-e] = []int{-int(bridgeNum)}
		}
		g.Links.Forward[int(bridgeNum)] = append([]int(nil), endingSegs...)
		g.Links.Reverse[int(bridgeNum)] = append([]int(nil), startingSegs...)
		negEnding := make([]int, len(endingSegs))
		for i, e := range endingSegs {
			negEnding[i] = -e
		}
		negStarting := make([]int, len(startingSegs))
		for i, s := range startingSegs {
			negStarting[i] = -s
		}
		g.Links.Reverse[-int(bridgeNum)] = negEnding
		g.Links.Forward[-int(bridgeNum)] = negStarting

		for _, start := range startingSegs {
			for _, end := range endingSegs {
				g.Paths.InsertBetween(start, end, int(bridgeNum))
			}
		}
		return true, nil
	}
	return false, nil
}

func dedupeInts(xs []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

func sameIntSet(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Clean runs the standard graph-repair sequence: multi-way junction repair, depth-based
// filtering, homopolymer-loop removal, exhaustive simple-path merging, and depth normalisation
// (§4.2 clean).
func (g *Graph) Clean(readDepthFilter float64) error {
	if err := g.RepairMultiWayJunctions(); err != nil {
		return err
	}
	g.FilterByReadDepth(readDepthFilter)
	g.FilterHomopolymerLoops()
	if err := g.MergeAllPossible(); err != nil {
		return err
	}
	g.NormaliseReadDepths()
	return nil
}
