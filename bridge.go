package polyasm

import "sort"

// Bridge is a single span of sequence, built by an external long-read or contig-based bridging
// step, that connects two segments and is meant to replace the graph's own (ambiguous) path
// between them (§4.4).
type Bridge struct {
	Kind           BridgeKind
	StartSegment   int
	EndSegment     int
	BridgeSequence string
	GraphPath      []int
	Depth          float64
	Quality        float64
}

// PieceFinder decides how much of a bridge can actually be applied to the current graph state: a
// bridge may be appliable whole, in several disjoint pieces, or not at all, depending on which of
// its interior segments have already been consumed by a higher-quality bridge. This is an
// external hook (§4.4, "applicable_pieces") — the bridge-construction step that would normally
// supply a domain-specific implementation is out of scope here (spec.md §1), so DefaultPieceFinder
// is a conservative stand-in.
type PieceFinder interface {
	ApplicablePieces(bridge *Bridge, singleCopyNums map[uint32]bool, rightBridged, leftBridged map[uint32]bool, usedInBridges map[uint32]bool) [][]int
}

// DefaultPieceFinder applies a bridge in its entirety if none of its interior segments have
// already been used by another bridge and neither endpoint's relevant side is already bridged;
// otherwise it reports the bridge as unusable. It does not attempt the reference implementation's
// finer-grained partial-piece splitting, since that splitting logic lived in the bridge-
// construction module this spec treats as an external input.
type DefaultPieceFinder struct{}

// ApplicablePieces implements PieceFinder.
func (DefaultPieceFinder) ApplicablePieces(bridge *Bridge, singleCopyNums map[uint32]bool, rightBridged, leftBridged map[uint32]bool, usedInBridges map[uint32]bool) [][]int {
	if bridge.StartSegment > 0 {
		if rightBridged[uint32(bridge.StartSegment)] {
			return nil
		}
	} else if leftBridged[uint32(-bridge.StartSegment)] {
		return nil
	}
	if bridge.EndSegment > 0 {
		if leftBridged[uint32(bridge.EndSegment)] {
			return nil
		}
	} else if rightBridged[uint32(-bridge.EndSegment)] {
		return nil
	}
	for _, n := range bridge.GraphPath {
		if usedInBridges[uint32(absInt(n))] {
			return nil
		}
	}
	whole := make([]int, 0, len(bridge.GraphPath)+2)
	whole = append(whole, bridge.StartSegment)
	whole = append(whole, bridge.GraphPath...)
	whole = append(whole, bridge.EndSegment)
	return [][]int{whole}
}

func addToBridgedSets(start, end int, rightBridged, leftBridged map[uint32]bool) {
	if start > 0 {
		rightBridged[uint32(start)] = true
	} else {
		leftBridged[uint32(-start)] = true
	}
	if end > 0 {
		leftBridged[uint32(end)] = true
	} else {
		rightBridged[uint32(-end)] = true
	}
}

// ApplyBridge replaces the path from start to end with a single new segment carrying the given
// sequence: it strips the old links between start/end and their neighbours on the bridged side,
// allocates a fresh segment, links it in, and subtracts the bridge's depth from every segment on
// the interior graph path (§4.4 apply_bridge).
func (g *Graph) ApplyBridge(bridge *Bridge, start, end int, sequence string, graphPath []int) *Segment {
	for _, link := range append([]int(nil), g.Links.Forward[start]...) {
		g.Links.RemoveLink(start, link)
	}
	for _, link := range append([]int(nil), g.Links.Reverse[end]...) {
		g.Links.RemoveLink(link, end)
	}

	newNum := g.NextAvailableSegmentNumber()
	newSeg := NewSegment(newNum, bridge.Depth, sequence)
	newSeg.BridgeOrigin = &BridgeOrigin{Kind: bridge.Kind, Path: append([]int(nil), graphPath...), Quality: bridge.Quality}
	g.AddSegment(newSeg)

	g.Links.AddLink(start, int(newNum))
	g.Links.AddLink(int(newNum), end)

	for _, seg := range graphPath {
		g.RemoveSegmentDepth(seg, bridge.Depth)
	}

	return newSeg
}

func (g *Graph) applyEntireBridge(bridge *Bridge, rightBridged, leftBridged map[uint32]bool, usedInBridges map[uint32]bool, singleCopyNums map[uint32]bool) *Segment {
	newSeg := g.ApplyBridge(bridge, bridge.StartSegment, bridge.EndSegment, bridge.BridgeSequence, bridge.GraphPath)
	for _, n := range bridge.GraphPath {
		delete(singleCopyNums, uint32(absInt(n)))
	}
	addToBridgedSets(bridge.StartSegment, bridge.EndSegment, rightBridged, leftBridged)
	for _, n := range bridge.GraphPath {
		usedInBridges[uint32(absInt(n))] = true
	}
	return newSeg
}

func (g *Graph) applyBridgeInPieces(bridge *Bridge, pieces [][]int, rightBridged, leftBridged map[uint32]bool, usedInBridges map[uint32]bool, singleCopyNums map[uint32]bool) ([]*Segment, error) {
	var newSegs []*Segment
	for _, piece := range pieces {
		pieceStart := piece[0]
		pieceMiddle := piece[1 : len(piece)-1]
		pieceEnd := piece[len(piece)-1]
		pieceSeq, err := g.PathSequence(pieceMiddle)
		if err != nil {
			return nil, err
		}
		newSeg := g.ApplyBridge(bridge, pieceStart, pieceEnd, pieceSeq, pieceMiddle)
		newSegs = append(newSegs, newSeg)
		for _, n := range pieceMiddle {
			delete(singleCopyNums, uint32(absInt(n)))
		}
		addToBridgedSets(pieceStart, pieceEnd, rightBridged, leftBridged)
		for _, n := range pieceMiddle {
			usedInBridges[uint32(absInt(n))] = true
		}
	}
	return newSegs, nil
}

// ApplyBridges applies the given bridges to the graph in descending quality order, using finder
// to determine which part (if any) of each bridge can still be applied given bridges already
// placed, rejecting any bridge below minBridgeQual, then sweeping up the interior segments that
// bridges consumed: deleting them outright where it is safe to do so, and finally deleting whole
// connected components that ended up entirely consumed by bridges (§4.4 apply_bridges).
func (g *Graph) ApplyBridges(bridges []*Bridge, finder PieceFinder, minBridgeQual float64, singleCopySegments []*Segment) ([]*Segment, error) {
	rightBridged := make(map[uint32]bool)
	leftBridged := make(map[uint32]bool)
	usedInBridges := make(map[uint32]bool)
	singleCopyNums := make(map[uint32]bool, len(singleCopySegments))
	for _, seg := range singleCopySegments {
		singleCopyNums[seg.Number] = true
	}

	sorted := append([]*Bridge(nil), bridges...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Quality > sorted[j].Quality })

	var bridgeSegs []*Segment
	for _, bridge := range sorted {
		pieces := finder.ApplicablePieces(bridge, singleCopyNums, rightBridged, leftBridged, usedInBridges)
		if len(pieces) == 0 {
			continue
		}
		if bridge.Quality < minBridgeQual {
			continue
		}

		wholePath := make([]int, 0, len(bridge.GraphPath)+2)
		wholePath = append(wholePath, bridge.StartSegment)
		wholePath = append(wholePath, bridge.GraphPath...)
		wholePath = append(wholePath, bridge.EndSegment)

		if len(pieces) == 1 && intSliceEqual(pieces[0], wholePath) {
			newSeg := g.applyEntireBridge(bridge, rightBridged, leftBridged, usedInBridges, singleCopyNums)
			bridgeSegs = append(bridgeSegs, newSeg)
		} else {
			newSegs, err := g.applyBridgeInPieces(bridge, pieces, rightBridged, leftBridged, usedInBridges, singleCopyNums)
			if err != nil {
				return nil, err
			}
			bridgeSegs = append(bridgeSegs, newSegs...)
		}
	}

	g.removeLeftoverBridgedSegments(usedInBridges)
	g.removeFullyBridgedComponents(usedInBridges)

	return bridgeSegs, nil
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// removeLeftoverBridgedSegments deletes segments consumed by bridges wherever doing so is safe:
// immediately if the segment already has a dead end or deleting it would not add one, and
// otherwise only if its whole maximal simple path is entirely bridge-consumed and removing that
// whole path would not add a dead end (§4.4 apply_bridges cleanup loop).
func (g *Graph) removeLeftoverBridgedSegments(usedInBridges map[uint32]bool) {
	for {
		removedAny := false
		var candidates []uint32
		for n := range usedInBridges {
			candidates = append(candidates, n)
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

		for _, segNum := range candidates {
			if _, ok := g.Segments[segNum]; !ok {
				continue
			}
			if g.Links.DeadEndCount(int(segNum)) > 0 {
				g.RemoveSegments([]uint32{segNum})
				removedAny = true
				break
			}
			if g.DeadEndChangeIfDeleted(int(segNum)) <= 0 {
				g.RemoveSegments([]uint32{segNum})
				removedAny = true
				break
			}
			path := g.SimplePath(int(segNum))
			if len(path) > 1 && allInUsedSet(path, usedInBridges) && g.DeadEndChangeIfPathDeleted(path) <= 0 {
				unsigned := make([]uint32, len(path))
				for i, n := range path {
					unsigned[i] = uint32(absInt(n))
				}
				g.RemoveSegments(unsigned)
				removedAny = true
				break
			}
		}
		if !removedAny {
			return
		}
	}
}

func allInUsedSet(path []int, usedInBridges map[uint32]bool) bool {
	for _, n := range path {
		if !usedInBridges[uint32(absInt(n))] {
			return false
		}
	}
	return true
}

// removeFullyBridgedComponents deletes any connected component every one of whose segments has
// already been consumed by a bridge.
func (g *Graph) removeFullyBridgedComponents(usedInBridges map[uint32]bool) {
	var toRemove []uint32
	for _, component := range g.GetConnectedComponents() {
		allUsed := true
		for _, n := range component {
			if !usedInBridges[n] {
				allUsed = false
				break
			}
		}
		if allUsed {
			toRemove = append(toRemove, component...)
		}
	}
	g.RemoveSegments(toRemove)
}
