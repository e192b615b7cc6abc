package polyasm

import (
	"math"
	"sort"
)

const (
	initialTolerance        = 0.1
	propagationTolerance    = 0.2
	minHalfMedianForDiploid = 0.1
	minSingleCopyLength     = 1000
)

// getError returns the relative error of assigning source to target: e.g. source 1.6 against
// target 2.0 is an error of 0.2. A non-positive target is an infinite error (§4.3 get_error).
func getError(source, target float64) float64 {
	if target > 0.0 {
		d := source - target
		if d < 0 {
			d = -d
		}
		return d / target
	}
	return math.Inf(1)
}

// withinErrorMargin reports whether val1 lies within errorMargin (relative) of val2.
func withinErrorMargin(val1, val2, errorMargin float64) bool {
	return val1 >= val2*(1-errorMargin) && val1 <= val2*(1+errorMargin)
}

// baseCountInDepthRange returns the total segment length (bases) across segments whose depth
// falls within [minDepth, maxDepth] (§4.3 get_base_count_in_depth_range).
func (g *Graph) baseCountInDepthRange(minDepth, maxDepth float64) int {
	total := 0
	for _, seg := range g.Segments {
		if seg.Depth >= minDepth && seg.Depth <= maxDepth {
			total += seg.Length()
		}
	}
	return total
}

func (g *Graph) segmentsWithoutCopies() []*Segment {
	var out []*Segment
	for _, n := range g.SortedSegmentNumbers() {
		if _, ok := g.CopyDepths[n]; !ok {
			out = append(out, g.Segments[n])
		}
	}
	return out
}

func (g *Graph) segmentsWithTwoOrMoreCopies() []*Segment {
	var out []*Segment
	for _, n := range g.SortedSegmentNumbers() {
		if cd, ok := g.CopyDepths[n]; ok && len(cd) > 1 {
			out = append(out, g.Segments[n])
		}
	}
	return out
}

func (g *Graph) allHaveCopyDepths(nums []uint32) bool {
	for _, n := range nums {
		if _, ok := g.CopyDepths[n]; !ok {
			return false
		}
	}
	return true
}

// ScaleCopyDepths scales sourceDepths so their sum equals targetDepth, returning the scaled
// depths (largest first) and the scaling error (§4.3 scale_copy_depths).
func ScaleCopyDepths(targetDepth float64, sourceDepths []float64) ([]float64, float64) {
	var sum float64
	for _, d := range sourceDepths {
		sum += d
	}
	var scale float64
	if sum != 0 {
		scale = targetDepth / sum
	}
	scaled := make([]float64, len(sourceDepths))
	for i, d := range sourceDepths {
		scaled[i] = scale * d
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scaled)))
	return scaled, getError(sum, targetDepth)
}

func (g *Graph) scaleCopyDepthsFromSources(segmentNumber uint32, sourceNums []uint32) ([]float64, float64) {
	var sourceDepths []float64
	for _, n := range sourceNums {
		sourceDepths = append(sourceDepths, g.CopyDepths[n]...)
	}
	return ScaleCopyDepths(g.Segments[segmentNumber].Depth, sourceDepths)
}

// InferCopyDepths resets and assigns a copy-depth vector to every segment in the graph, following
// the seed/propagate/assign loop of §4.3: seed as single-copy every segment with at most one link
// per end whose depth is at or below the graph's single-copy depth plus initialTolerance
// (accounting for a diploid graph whose single-copy depth sits at half the median), then
// alternate merging inputs/outputs into a segment's depth and redistributing a segment's depth
// out to its exclusive neighbours, assigning new single-copy seeds from the longest remaining
// segment when propagation stalls, and finally propagating once more with the widest error
// tolerance (1.0).
func (g *Graph) InferCopyDepths() {
	g.CopyDepths = make(map[uint32][]float64)

	medianDepth := g.WeightedMedianDepth(nil)
	basesNearHalf := g.baseCountInDepthRange(medianDepth*0.4, medianDepth*0.6)
	basesNearDouble := g.baseCountInDepthRange(medianDepth*1.6, medianDepth*2.4)
	totalBases := g.TotalLength()

	var singleCopyDepth float64
	if totalBases > 0 {
		halfFrac := float64(basesNearHalf) / float64(totalBases)
		doubleFrac := float64(basesNearDouble) / float64(totalBases)
		if halfFrac > doubleFrac && halfFrac >= minHalfMedianForDiploid {
			singleCopyDepth = medianDepth / 2.0
		} else {
			singleCopyDepth = medianDepth
		}
	} else {
		singleCopyDepth = medianDepth
	}

	maxDepth := singleCopyDepth + initialTolerance
	for _, n := range g.SortedSegmentNumbers() {
		seg := g.Segments[n]
		if seg.Depth <= maxDepth && g.Links.AtMostOneLinkPerEnd(n) {
			g.CopyDepths[n] = []float64{seg.Depth}
		}
	}

	g.determineCopyDepthPart2(propagationTolerance)

	for {
		if g.assignSingleCopyDepth(minSingleCopyLength) == 0 {
			break
		}
		g.determineCopyDepthPart2(propagationTolerance)
	}

	g.determineCopyDepthPart2(1.0)
}

func (g *Graph) determineCopyDepthPart2(tolerance float64) {
	for g.mergeCopyDepths(tolerance) {
	}
	if g.redistributeCopyDepths(tolerance) {
		g.determineCopyDepthPart2(tolerance)
	}
}

// assignSingleCopyDepth assigns a single copy to the longest copy-less segment with exactly one
// link per end and at least minLength bases, returning 1 if an assignment was made (§4.3
// assign_single_copy_depth).
func (g *Graph) assignSingleCopyDepth(minLength int) int {
	segs := g.segmentsWithoutCopies()
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Length() > segs[j].Length() })
	for _, seg := range segs {
		if seg.Length() < minLength {
			continue
		}
		if g.Links.ExactlyOneLinkPerEnd(seg.Number) {
			g.CopyDepths[seg.Number] = []float64{seg.Depth}
			return 1
		}
	}
	return 0
}

// mergeCopyDepths finds the copy-less segment whose exclusive inputs (or exclusive outputs) all
// already carry copy depths, scales those depths to match the segment's own depth, and assigns
// the lowest-error such candidate if it is within errorMargin (§4.3 merge_copy_depths).
func (g *Graph) mergeCopyDepths(errorMargin float64) bool {
	segs := g.segmentsWithoutCopies()
	if len(segs) == 0 {
		return false
	}

	var bestNum uint32
	var bestDepths []float64
	lowestError := math.Inf(1)
	found := false

	for _, seg := range segs {
		num := seg.Number
		exIn := g.Links.ExclusiveInputs(num)
		exOut := g.Links.ExclusiveOutputs(num)

		if len(exIn) > 0 && g.allHaveCopyDepths(exIn) {
			depths, err := g.scaleCopyDepthsFromSources(num, exIn)
			if err < lowestError {
				lowestError = err
				bestNum = num
				bestDepths = depths
				found = true
			}
		}
		if len(exOut) > 0 && g.allHaveCopyDepths(exOut) {
			depths, err := g.scaleCopyDepthsFromSources(num, exOut)
			if err < lowestError {
				lowestError = err
				bestNum = num
				bestDepths = depths
				found = true
			}
		}
	}

	if found && lowestError < errorMargin {
		g.CopyDepths[bestNum] = bestDepths
		return true
	}
	return false
}

// redistributeCopyDepths finds a segment with two or more copy depths whose exclusive neighbours
// (inputs, or else outputs) do not all carry copy depths yet, and tries to split its copy-depth
// vector among them via shuffleIntoBins, respecting the copy counts of neighbours that already
// have them; if the lowest-error arrangement clears errorMargin, it is assigned to the
// neighbours still lacking copy depths (§4.3 redistribute_copy_depths).
func (g *Graph) redistributeCopyDepths(errorMargin float64) bool {
	segs := g.segmentsWithTwoOrMoreCopies()
	for _, seg := range segs {
		num := seg.Number
		connections := g.Links.ExclusiveInputs(num)
		if len(connections) == 0 || g.allHaveCopyDepths(connections) {
			connections = g.Links.ExclusiveOutputs(num)
		}
		if len(connections) == 0 || g.allHaveCopyDepths(connections) {
			continue
		}

		copyDepths := g.CopyDepths[num]
		targets := make([]int, len(connections))
		for i, c := range connections {
			if cd, ok := g.CopyDepths[c]; ok {
				targets[i] = len(cd)
			} else {
				targets[i] = 0
			}
		}
		arrangements := shuffleIntoBins(copyDepths, len(connections), targets)
		if len(arrangements) == 0 {
			continue
		}

		lowestError := math.Inf(1)
		var best [][]float64
		for _, arrangement := range arrangements {
			err := g.errorForSegmentsAndDepths(connections, arrangement)
			if err < lowestError {
				lowestError = err
				best = arrangement
			}
		}
		if lowestError < errorMargin {
			if g.assignCopyDepthsWhereNeeded(connections, best, errorMargin) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) errorForSegmentsAndDepths(nums []uint32, depths [][]float64) float64 {
	maxError := 0.0
	for i, n := range nums {
		segDepth := g.Segments[n].Depth
		var sum float64
		for _, d := range depths[i] {
			sum += d
		}
		if e := getError(sum, segDepth); e > maxError {
			maxError = e
		}
	}
	return maxError
}

func (g *Graph) assignCopyDepthsWhereNeeded(nums []uint32, newDepths [][]float64, errorMargin float64) bool {
	success := false
	for i, n := range nums {
		if _, ok := g.CopyDepths[n]; ok {
			continue
		}
		scaled, err := ScaleCopyDepths(g.Segments[n].Depth, newDepths[i])
		if err <= errorMargin {
			g.CopyDepths[n] = scaled
			success = true
		}
	}
	return success
}

// shuffleIntoBins places items into len(bins) bins in every arrangement where every bin gets at
// least one item and any bin with a non-zero target gets exactly that many. Each recursive branch
// works on its own independent copy of the bins slice — the reference Python used a single
// `[[]] * len(bins)` template shared (by reference) across every bin, so an append in one branch
// was visible in all the others; this port allocates a fresh slice-of-slices per branch instead
// (§4.3 shuffle_into_bins, spec.md §9).
func shuffleIntoBins(items []float64, numBins int, targets []int) [][][]float64 {
	return shuffleIntoBinsRecursive(items, make([][]float64, numBins), targets)
}

func shuffleIntoBinsRecursive(items []float64, bins [][]float64, targets []int) [][][]float64 {
	var arrangements [][][]float64

	if len(items) > 0 {
		for i := range bins {
			binsCopy := make([][]float64, len(bins))
			for j, b := range bins {
				binsCopy[j] = append([]float64(nil), b...)
			}
			binsCopy[i] = append(binsCopy[i], items[0])
			arrangements = append(arrangements, shuffleIntoBinsRecursive(items[1:], binsCopy, targets)...)
		}
		return arrangements
	}

	for _, b := range bins {
		if len(b) == 0 {
			return nil
		}
	}
	for i, target := range targets {
		if target != 0 && target != len(bins[i]) {
			return nil
		}
	}
	finalBins := make([][]float64, len(bins))
	copy(finalBins, bins)
	return [][][]float64{finalBins}
}

// RemoveSegmentDepth subtracts depthToRemove from the segment's own depth (floored at zero), and
// if the segment carries copy depths, drops whichever one is numerically closest to
// depthToRemove (§4.4 remove_segment_depth).
func (g *Graph) RemoveSegmentDepth(segNum int, depthToRemove float64) {
	num := uint32(absInt(segNum))
	seg, ok := g.Segments[num]
	if !ok {
		return
	}
	seg.Depth -= depthToRemove
	if seg.Depth < 0 {
		seg.Depth = 0
	}

	cd, ok := g.CopyDepths[num]
	if !ok || len(cd) == 0 {
		return
	}
	closestIdx := 0
	closestDist := absFloat(cd[0] - depthToRemove)
	for i, d := range cd[1:] {
		if dist := absFloat(d - depthToRemove); dist < closestDist {
			closestDist = dist
			closestIdx = i + 1
		}
	}
	g.CopyDepths[num] = append(cd[:closestIdx], cd[closestIdx+1:]...)
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// SingleCopySegments returns the segments whose assigned copy-depth vector has exactly one entry.
func (g *Graph) SingleCopySegments() []*Segment {
	var out []*Segment
	for _, n := range g.SortedSegmentNumbers() {
		if cd, ok := g.CopyDepths[n]; ok && len(cd) == 1 {
			out = append(out, g.Segments[n])
		}
	}
	return out
}
