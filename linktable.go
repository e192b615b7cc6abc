package polyasm

import "sort"

// LinkTable is two mirrored adjacency maps over signed segment ids encoding the bidirected-graph
// structure with reverse-complement symmetry: forward[a] holds the ids reachable from a in one
// step, reverse[b] holds the ids that reach b in one step.
type LinkTable struct {
	Forward map[int][]int
	Reverse map[int][]int
}

// NewLinkTable returns an empty link table.
func NewLinkTable() *LinkTable {
	return &LinkTable{
		Forward: make(map[int][]int),
		Reverse: make(map[int][]int),
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// AddLink inserts a->b and its twin (-b)->(-a) into both maps. Idempotent on duplicates.
func (lt *LinkTable) AddLink(a, b int) {
	if !containsInt(lt.Forward[a], b) {
		lt.Forward[a] = append(lt.Forward[a], b)
	}
	if !containsInt(lt.Reverse[b], a) {
		lt.Reverse[b] = append(lt.Reverse[b], a)
	}
	if !containsInt(lt.Reverse[-a], -b) {
		lt.Reverse[-a] = append(lt.Reverse[-a], -b)
	}
	if !containsInt(lt.Forward[-b], -a) {
		lt.Forward[-b] = append(lt.Forward[-b], -a)
	}
}

// RemoveLink removes a->b and its twin wherever they appear. No-op if absent.
func (lt *LinkTable) RemoveLink(a, b int) {
	if _, ok := lt.Forward[a]; ok {
		lt.Forward[a] = removeInt(lt.Forward[a], b)
	}
	if _, ok := lt.Forward[-b]; ok {
		lt.Forward[-b] = removeInt(lt.Forward[-b], -a)
	}
	if _, ok := lt.Reverse[b]; ok {
		lt.Reverse[b] = removeInt(lt.Reverse[b], a)
	}
	if _, ok := lt.Reverse[-a]; ok {
		lt.Reverse[-a] = removeInt(lt.Reverse[-a], -b)
	}
}

// DeadEndCount returns 1 if n has no outgoing links, plus 1 if it has no incoming links.
func (lt *LinkTable) DeadEndCount(n int) int {
	count := 0
	if len(lt.Forward[n]) == 0 {
		count++
	}
	if len(lt.Reverse[n]) == 0 {
		count++
	}
	return count
}

// ConnectedSegments returns the set of unsigned segment numbers directly connected to n, in
// either direction, strand-agnostic.
func (lt *LinkTable) ConnectedSegments(n int) []uint32 {
	seen := make(map[uint32]bool)
	for _, x := range lt.Forward[n] {
		seen[uint32(absInt(x))] = true
	}
	for _, x := range lt.Reverse[n] {
		seen[uint32(absInt(x))] = true
	}
	out := make([]uint32, 0, len(seen))
	for x := range seen {
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LeadsExclusivelyTo reports whether a's only outgoing link is to b.
func (lt *LinkTable) LeadsExclusivelyTo(a, b int) bool {
	links, ok := lt.Forward[a]
	if !ok || len(links) != 1 {
		return false
	}
	return links[0] == b
}

// LeadsExclusivelyFrom reports whether a's only incoming link is from b.
func (lt *LinkTable) LeadsExclusivelyFrom(a, b int) bool {
	links, ok := lt.Reverse[a]
	if !ok || len(links) != 1 {
		return false
	}
	return links[0] == b
}

// ExclusiveInputs returns the unsigned predecessors of +n all of whose sole successor is +n.
func (lt *LinkTable) ExclusiveInputs(n uint32) []uint32 {
	preds, ok := lt.Reverse[int(n)]
	if !ok {
		return nil
	}
	var out []uint32
	for _, p := range preds {
		if lt.LeadsExclusivelyTo(p, int(n)) {
			out = append(out, uint32(absInt(p)))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ExclusiveOutputs returns the unsigned successors of +n all of whose sole predecessor is +n.
func (lt *LinkTable) ExclusiveOutputs(n uint32) []uint32 {
	succs, ok := lt.Forward[int(n)]
	if !ok {
		return nil
	}
	var out []uint32
	for _, s := range succs {
		if lt.LeadsExclusivelyFrom(s, int(n)) {
			out = append(out, uint32(absInt(s)))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AtMostOneLinkPerEnd reports whether n has no more than one link on either end.
func (lt *LinkTable) AtMostOneLinkPerEnd(n uint32) bool {
	if links, ok := lt.Forward[int(n)]; ok && len(links) > 1 {
		return false
	}
	if links, ok := lt.Reverse[int(n)]; ok && len(links) > 1 {
		return false
	}
	return true
}

// ExactlyOneLinkPerEnd reports whether n has exactly one link on both ends. An end with no links
// at all (a dead end) fails this check.
func (lt *LinkTable) ExactlyOneLinkPerEnd(n uint32) bool {
	return len(lt.Forward[int(n)]) == 1 && len(lt.Reverse[int(n)]) == 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
