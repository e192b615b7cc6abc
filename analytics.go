package polyasm

import (
	"math/rand"
	"sort"
)

// maxWorkingPaths bounds the candidate-path working set in AllPaths; once exceeded, the set is
// randomly downsampled back to this size to keep highly tangled regions tractable (§4.5
// all_paths, max_working_paths).
const maxWorkingPaths = 10000

func weightedAverage(a, b float64, weightA, weightB float64) float64 {
	total := weightA + weightB
	if total == 0 {
		return (a + b) / 2
	}
	return (a*weightA + b*weightB) / total
}

// AllPaths returns every signed interior path connecting start to end whose length lies in
// [minLength, maxLength], sorted by closeness to targetLength, optionally trimmed to
// maxPathCount. The start and end segments themselves are not included in a returned path. To
// keep pathologically tangled regions tractable, a segment's repeat count within a candidate path
// is capped at twice its expected multiplicity (by copy-depth count, or by depth relative to the
// start/end segments), and the overall working set is randomly downsampled if it exceeds
// maxWorkingPaths (§4.5 all_paths).
func (g *Graph) AllPaths(start, end, minLength, targetLength, maxLength int, maxPathCount int) [][]int {
	if _, ok := g.Links.Forward[start]; !ok {
		return nil
	}

	startSeg := g.Segments[uint32(absInt(start))]
	endSeg := g.Segments[uint32(absInt(end))]
	startEndDepth := weightedAverage(
		startSeg.Depth, endSeg.Depth,
		float64(startSeg.LengthNoOverlap(g.Overlap)), float64(endSeg.LengthNoOverlap(g.Overlap)),
	)

	maxAllowedCounts := make(map[uint32]int)

	var workingPaths [][]int
	for _, s := range g.Links.Forward[start] {
		workingPaths = append(workingPaths, []int{s})
	}

	var finalPaths [][]int
	for len(workingPaths) > 0 {
		var newWorkingPaths [][]int
		for _, path := range workingPaths {
			lastSeg := path[len(path)-1]
			if lastSeg == end {
				candidate := path[:len(path)-1]
				if g.PathLength(candidate) >= minLength {
					finalPaths = append(finalPaths, candidate)
				}
				continue
			}
			if g.PathLength(path) > maxLength {
				continue
			}
			nexts, ok := g.Links.Forward[lastSeg]
			if !ok {
				continue
			}
			for _, next := range nexts {
				unsignedNext := uint32(absInt(next))
				maxAllowed, known := maxAllowedCounts[unsignedNext]
				if !known {
					countByCopies := 1
					if cd, ok := g.CopyDepths[unsignedNext]; ok {
						countByCopies = len(cd)
					}
					depth := g.Segments[unsignedNext].Depth
					countByDepth := 1
					if startEndDepth > 0 {
						if rounded := int(depth/startEndDepth + 0.5); rounded > countByDepth {
							countByDepth = rounded
						}
					}
					maxAllowed = 2 * maxInt(countByCopies, countByDepth)
					maxAllowedCounts[unsignedNext] = maxAllowed
				}
				countSoFar := countInPath(path, next) + countInPath(path, -next)
				if countSoFar < maxAllowed {
					extended := append(append([]int(nil), path...), next)
					newWorkingPaths = append(newWorkingPaths, extended)
				}
			}
		}
		workingPaths = newWorkingPaths
		if len(workingPaths) > maxWorkingPaths {
			workingPaths = randomSamplePaths(workingPaths, maxWorkingPaths)
		}
	}

	sort.SliceStable(finalPaths, func(i, j int) bool {
		return absInt(targetLength-g.PathLength(finalPaths[i])) < absInt(targetLength-g.PathLength(finalPaths[j]))
	})
	if maxPathCount > 0 && len(finalPaths) > maxPathCount {
		finalPaths = finalPaths[:maxPathCount]
	}
	return finalPaths
}

func countInPath(path []int, n int) int {
	count := 0
	for _, x := range path {
		if x == n {
			count++
		}
	}
	return count
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func randomSamplePaths(paths [][]int, n int) [][]int {
	indices := rand.Perm(len(paths))[:n]
	out := make([][]int, n)
	for i, idx := range indices {
		out[i] = paths[idx]
	}
	return out
}

// SimpleLoop is a four-way description of a loop: a single middle segment connected on both ends
// to the same repeat segment, which itself connects out to distinct start and end segments
// (§4.5 find_all_simple_loops).
type SimpleLoop struct {
	Start, End, Middle, Repeat int
}

// FindAllSimpleLoops finds every occurrence of the pattern start->repeat->middle->repeat->end in
// the graph.
func (g *Graph) FindAllSimpleLoops() []SimpleLoop {
	var loops []SimpleLoop
	for _, n := range g.SortedSegmentNumbers() {
		middle := int(n)
		fwd, okF := g.Links.Forward[middle]
		rev, okR := g.Links.Reverse[middle]
		if !okF || !okR || len(fwd) != 1 || len(rev) != 1 || fwd[0] != rev[0] {
			continue
		}
		repeat := fwd[0]

		repFwd := g.Links.Forward[repeat]
		repRev := g.Links.Reverse[repeat]
		if len(repFwd) != 2 || len(repRev) != 2 {
			continue
		}

		start := repRev[0]
		if absInt(start) == absInt(middle) {
			start = repRev[1]
		}
		if absInt(start) == absInt(middle) || absInt(start) == absInt(repeat) {
			continue
		}

		end := repFwd[0]
		if absInt(end) == absInt(middle) {
			end = repFwd[1]
		}
		if absInt(end) == absInt(middle) || absInt(end) == absInt(repeat) {
			continue
		}

		loops = append(loops, SimpleLoop{Start: start, End: end, Middle: middle, Repeat: repeat})
	}
	return loops
}

// CompletedCircularComponents returns the single-segment connected components that form a
// complete circle: a segment linked only to itself on both ends.
func (g *Graph) CompletedCircularComponents() [][]uint32 {
	var out [][]uint32
	for _, component := range g.GetConnectedComponents() {
		if len(component) != 1 {
			continue
		}
		n := int(component[0])
		if len(g.Links.Forward[n]) == 1 && g.Links.Forward[n][0] == n &&
			len(g.Links.Reverse[n]) == 1 && g.Links.Reverse[n][0] == n {
			out = append(out, component)
		}
	}
	return out
}

// TotalLinkCount returns the number of distinct forward links, counting a link and its
// reverse-complement twin once.
func (g *Graph) TotalLinkCount() int {
	type pair struct{ a, b int }
	seen := make(map[pair]bool)
	count := 0
	for start, ends := range g.Links.Forward {
		for _, end := range ends {
			if seen[pair{start, end}] || seen[pair{-end, -start}] {
				continue
			}
			seen[pair{start, end}] = true
			count++
		}
	}
	return count
}

// ContigStats returns (n50, shortest, firstQuartile, median, thirdQuartile, longest) over segment
// lengths (§4.5 get_contig_stats).
func (g *Graph) ContigStats() (n50, shortest, firstQuartile, median, thirdQuartile, longest int) {
	var lengths []int
	for _, seg := range g.Segments {
		lengths = append(lengths, seg.Length())
	}
	if len(lengths) == 0 {
		return 0, 0, 0, 0, 0, 0
	}
	sort.Ints(lengths)

	shortest = lengths[0]
	longest = lengths[len(lengths)-1]

	n := len(lengths)
	firstQuartile = int(valueFromFractionalIndex(lengths, float64(n-1)/4) + 0.5)
	median = int(valueFromFractionalIndex(lengths, float64(n-1)/2) + 0.5)
	thirdQuartile = int(valueFromFractionalIndex(lengths, float64(n-1)*3/4) + 0.5)

	var total int
	for _, l := range lengths {
		total += l
	}
	halfTotal := float64(total) / 2
	var soFar int
	for i := n - 1; i >= 0; i-- {
		soFar += lengths[i]
		if float64(soFar) >= halfTotal {
			n50 = lengths[i]
			break
		}
	}
	return
}

func valueFromFractionalIndex(lst []int, index float64) float64 {
	if len(lst) == 0 {
		return 0
	}
	if len(lst) == 1 {
		return float64(lst[0])
	}
	whole := int(index)
	if whole < 0 {
		return float64(lst[0])
	}
	if whole >= len(lst)-1 {
		return float64(lst[len(lst)-1])
	}
	fractional := index - float64(whole)
	return float64(lst[whole])*(1.0-fractional) + float64(lst[whole+1])*fractional
}

// GetNSegmentLength returns the length L such that segments of length >= L make up at least
// nPercent of the graph's total (overlap-stripped) length; nPercent = 50 gives the N50.
func (g *Graph) GetNSegmentLength(nPercent float64) int {
	totalLength := g.TotalLengthNoOverlaps()
	targetLength := float64(totalLength) * (nPercent / 100.0)

	var segs []*Segment
	for _, seg := range g.Segments {
		segs = append(segs, seg)
	}
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].LengthNoOverlap(g.Overlap) > segs[j].LengthNoOverlap(g.Overlap)
	})

	var lengthSoFar int
	for _, seg := range segs {
		segLength := seg.LengthNoOverlap(g.Overlap)
		lengthSoFar += segLength
		if float64(lengthSoFar) >= targetLength {
			return segLength
		}
	}
	return 0
}
