package polyasm

import (
	"fmt"
	"sort"

	"github.com/TimothyStiles/polyasm/internal/graphdiff"
	"lukechampine.com/blake3"
)

// Graph is the bidirected, double-stranded sequence graph: a segment map, a link table, a
// copy-depth map, and a path registry, all owned by the graph object (§3, §5).
type Graph struct {
	Overlap    int
	Segments   map[uint32]*Segment
	Links      *LinkTable
	CopyDepths map[uint32][]float64
	Paths      *PathRegistry
}

// NewGraph returns an empty graph with the given graph-wide overlap constant.
func NewGraph(overlap int) *Graph {
	return &Graph{
		Overlap:    overlap,
		Segments:   make(map[uint32]*Segment),
		Links:      NewLinkTable(),
		CopyDepths: make(map[uint32][]float64),
		Paths:      NewPathRegistry(),
	}
}

// SortedSegmentNumbers returns every live segment's unsigned id in ascending order, the
// deterministic iteration order required by §5.
func (g *Graph) SortedSegmentNumbers() []uint32 {
	nums := make([]uint32, 0, len(g.Segments))
	for n := range g.Segments {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}

// SeqFromSignedSegNum returns the forward or reverse sequence of a segment depending on sign.
// Assumes the segment is present.
func (g *Graph) SeqFromSignedSegNum(signedNum int) string {
	seg := g.Segments[uint32(absInt(signedNum))]
	return seg.SequenceForSign(signedNum > 0)
}

// AddSegment inserts a segment into the graph, keyed by its Number.
func (g *Graph) AddSegment(seg *Segment) {
	g.Segments[seg.Number] = seg
}

// NextAvailableSegmentNumber returns the largest existing unsigned id plus one, or 1 if the
// graph is empty.
func (g *Graph) NextAvailableSegmentNumber() uint32 {
	var max uint32
	for n := range g.Segments {
		if n > max {
			max = n
		}
	}
	return max + 1
}

// RemoveSegments deletes the listed unsigned ids from the segment map and copy-depth map,
// rewrites both adjacency maps to drop any entry referencing ±s, and drops any path that
// references one of them (§4.1).
func (g *Graph) RemoveSegments(nums []uint32) {
	if len(nums) == 0 {
		return
	}
	toRemove := make(map[uint32]bool, len(nums))
	for _, n := range nums {
		toRemove[n] = true
	}
	for n := range toRemove {
		delete(g.Segments, n)
		delete(g.CopyDepths, n)
	}

	removeRefs := func(m map[int][]int) {
		for k := range m {
			if toRemove[uint32(absInt(k))] {
				delete(m, k)
				continue
			}
			filtered := m[k][:0]
			for _, v := range m[k] {
				if !toRemove[uint32(absInt(v))] {
					filtered = append(filtered, v)
				}
			}
			m[k] = filtered
		}
	}
	removeRefs(g.Links.Forward)
	removeRefs(g.Links.Reverse)

	g.Paths.DeleteReferencing(toRemove)
}

// GetConnectedComponents returns the unsigned segment ids grouped by connected component of the
// undirected projection, via BFS, with deterministic (sorted) start order (§4.1).
func (g *Graph) GetConnectedComponents() [][]uint32 {
	visited := make(map[uint32]bool)
	var components [][]uint32
	for _, start := range g.SortedSegmentNumbers() {
		if visited[start] {
			continue
		}
		var component []uint32
		queue := []uint32{start}
		visited[start] = true
		for len(queue) > 0 {
			w := queue[0]
			queue = queue[1:]
			component = append(component, w)
			for _, k := range g.Links.ConnectedSegments(int(w)) {
				if !visited[k] {
					visited[k] = true
					queue = append(queue, k)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// SimplePath computes the maximal unbranched chain containing the signed id s: it extends
// forward while the tip has a single successor whose sole predecessor is the tip (and that
// successor isn't already in the chain, in either strand), and symmetrically backward (§4.1).
func (g *Graph) SimplePath(s int) []int {
	path := []int{s}
	inChain := map[int]bool{s: true, -s: true}

	// Extend forward.
	for {
		tip := path[len(path)-1]
		succs := g.Links.Forward[tip]
		if len(succs) != 1 {
			break
		}
		next := succs[0]
		if inChain[next] || inChain[-next] {
			break
		}
		if !g.Links.LeadsExclusivelyFrom(next, tip) {
			break
		}
		path = append(path, next)
		inChain[next] = true
		inChain[-next] = true
	}
	// Extend backward.
	for {
		head := path[0]
		preds := g.Links.Reverse[head]
		if len(preds) != 1 {
			break
		}
		prev := preds[0]
		if inChain[prev] || inChain[-prev] {
			break
		}
		if !g.Links.LeadsExclusivelyTo(prev, head) {
			break
		}
		path = append([]int{prev}, path...)
		inChain[prev] = true
		inChain[-prev] = true
	}
	return path
}

// PathSequence concatenates the strand-appropriate sequences of a (non-circular) signed path,
// stripping the leading overlap from every segment after the first, and asserts the stripped
// prefix matches the existing suffix (§4.1 step 2).
func (g *Graph) PathSequence(path []int) (string, error) {
	if len(path) == 0 {
		return "", nil
	}
	seq := g.SeqFromSignedSegNum(path[0])
	for i := 1; i < len(path); i++ {
		next := g.SeqFromSignedSegNum(path[i])
		if g.Overlap > 0 {
			if len(seq) < g.Overlap || len(next) < g.Overlap ||
				seq[len(seq)-g.Overlap:] != next[:g.Overlap] {
				suffix, prefix := lastN(seq, g.Overlap), firstN(next, g.Overlap)
				diff := graphdiff.SequenceDiff(suffix, prefix)
				return "", invariantViolationError(fmt.Sprintf("path overlap mismatch at segment %d: %s", path[i], diff))
			}
			seq += next[g.Overlap:]
		} else {
			seq += next
		}
	}
	return seq, nil
}

// PathLength returns the total base length spanned by a signed path, subtracting one overlap
// per joint.
func (g *Graph) PathLength(path []int) int {
	total := 0
	for _, n := range path {
		seg, ok := g.Segments[uint32(absInt(n))]
		if !ok {
			return 0
		}
		total += seg.Length()
	}
	total -= (len(path) - 1) * g.Overlap
	return total
}

// lastN returns the last n bytes of s, or s itself if shorter.
func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// firstN returns the first n bytes of s, or s itself if shorter.
func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func weightedMean(values, weights []float64) float64 {
	var sumW float64
	for _, w := range weights {
		sumW += w
	}
	if sumW <= 0 {
		return 1.0
	}
	var sum float64
	for i, v := range values {
		sum += v * weights[i]
	}
	return sum / sumW
}

// MergeSimplePath merges the path P = [s1,...,sk] into a single new segment (§4.1):
//  1. computes a weighted-mean depth,
//  2. builds the merged forward sequence,
//  3. rewires external predecessors/successors onto a freshly allocated id,
//  4. rewrites (or splits) any path referencing P.
//
// Merging a path of length 1 is a no-op and returns the existing id unchanged.
func (g *Graph) MergeSimplePath(path []int) (uint32, error) {
	if len(path) <= 1 {
		if len(path) == 1 {
			return uint32(absInt(path[0])), nil
		}
		return 0, nil
	}
	start, end := path[0], path[len(path)-1]

	depths := make([]float64, len(path))
	lengths := make([]float64, len(path))
	for i, n := range path {
		seg := g.Segments[uint32(absInt(n))]
		depths[i] = seg.Depth
		lengths[i] = float64(seg.Length() - g.Overlap)
	}
	meanDepth := weightedMean(depths, lengths)

	mergedSeq, err := g.PathSequence(path)
	if err != nil {
		return 0, err
	}

	newID := g.NextAvailableSegmentNumber()
	newSeg := NewSegment(newID, meanDepth, mergedSeq)

	outgoing := append([]int(nil), g.Links.Forward[end]...)
	incoming := append([]int(nil), g.Links.Reverse[start]...)
	outgoing = findReplaceOne(outgoing, start, int(newID))
	outgoing = findReplaceOne(outgoing, -end, -int(newID))
	incoming = findReplaceOne(incoming, end, int(newID))
	incoming = findReplaceOne(incoming, -start, -int(newID))

	removedNums := make([]uint32, len(path))
	for i, n := range path {
		removedNums[i] = uint32(absInt(n))
	}
	g.RemoveSegments(removedNums)

	g.AddSegment(newSeg)
	for _, link := range outgoing {
		g.Links.AddLink(int(newID), link)
	}
	for _, link := range incoming {
		g.Links.AddLink(link, int(newID))
	}

	g.Paths.ReplaceInAllPaths(path, int(newID))
	removedSigned := make(map[int]bool, len(path)*2)
	for _, n := range path {
		removedSigned[n] = true
		removedSigned[-n] = true
	}
	delete(removedSigned, int(newID))
	delete(removedSigned, -int(newID))
	g.Paths.SplitOnRemoved(removedSigned)

	return newID, nil
}

func findReplaceOne(list []int, from, to int) []int {
	out := make([]int, len(list))
	copy(out, list)
	for i, v := range out {
		if v == from {
			out[i] = to
			return out
		}
	}
	return out
}

// RenumberSegments renumbers segments so id 1 is the longest segment, 2 the next, etc. (strand
// twins follow), then rewrites the link table, copy-depth map, and path registry accordingly
// (§4.2 merge_all_possible's final step).
func (g *Graph) RenumberSegments() {
	ordered := g.SortedSegmentNumbers()
	sort.SliceStable(ordered, func(i, j int) bool {
		return g.Segments[ordered[i]].Length() > g.Segments[ordered[j]].Length()
	})
	changes := make(map[int]int, len(ordered)*2)
	for i, old := range ordered {
		newNum := i + 1
		changes[int(old)] = newNum
		changes[-int(old)] = -newNum
	}

	newSegments := make(map[uint32]*Segment, len(g.Segments))
	for num, seg := range g.Segments {
		newNum := uint32(changes[int(num)])
		seg.Number = newNum
		newSegments[newNum] = seg
	}
	g.Segments = newSegments

	remap := func(m map[int][]int) map[int][]int {
		out := make(map[int][]int, len(m))
		for k, v := range m {
			nv := make([]int, len(v))
			for i, x := range v {
				nv[i] = changes[x]
			}
			out[changes[k]] = nv
		}
		return out
	}
	g.Links.Forward = remap(g.Links.Forward)
	g.Links.Reverse = remap(g.Links.Reverse)

	newCopyDepths := make(map[uint32][]float64, len(g.CopyDepths))
	for num, cd := range g.CopyDepths {
		newCopyDepths[uint32(changes[int(num)])] = cd
	}
	g.CopyDepths = newCopyDepths

	for name, nums := range g.Paths.Paths {
		nn := make([]int, len(nums))
		for i, n := range nums {
			nn[i] = changes[n]
		}
		g.Paths.Paths[name] = nn
	}
}

// TotalLength returns the sum of all segment sequence lengths.
func (g *Graph) TotalLength() int {
	total := 0
	for _, seg := range g.Segments {
		total += seg.Length()
	}
	return total
}

// TotalLengthNoOverlaps returns the sum of all segment lengths, each minus the graph overlap.
func (g *Graph) TotalLengthNoOverlaps() int {
	total := 0
	for _, seg := range g.Segments {
		total += seg.LengthNoOverlap(g.Overlap)
	}
	return total
}

// TotalDeadEndCount returns the total number of dead ends across the whole graph.
func (g *Graph) TotalDeadEndCount() int {
	total := 0
	for n := range g.Segments {
		total += g.Links.DeadEndCount(int(n))
	}
	return total
}

// ContentHash returns a deterministic blake3 digest of a segment's double-stranded content: the
// lexicographically-minimal of its forward and reverse sequence, so that a segment and its
// strand twin hash identically. Grounded on the seqhash convention of canonicalizing
// double-stranded sequences before hashing (see DESIGN.md).
func (g *Graph) ContentHash(seg *Segment) string {
	canonical := seg.ForwardSequence
	if seg.ReverseSequence < canonical {
		canonical = seg.ReverseSequence
	}
	sum := blake3.Sum256([]byte(canonical))
	return fmt.Sprintf("%x", sum[:16])
}
