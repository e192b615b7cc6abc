/*
Package gfa implements loading and saving of the assembly graph in the GFA (Graphical Fragment
Assembly) format, the preferred on-disk representation for the engine (spec.md §6).

A GFA file is a sequence of tab-separated lines: an optional `H` header, `S` segment lines
carrying sequence and depth, `L` link lines carrying the graph-wide overlap, and `P` path lines
recording the input assembler's scaffold paths.
*/
package gfa

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/TimothyStiles/polyasm"
)

// ColorMode selects which CL:z: coloring convention Save emits.
type ColorMode int

const (
	// ColorNone omits the CL:z: tag entirely.
	ColorNone ColorMode = iota
	// ColorByCopyNumber buckets by assigned copy number: 1 green, 2 gold, 3 orange, 4+ red.
	ColorByCopyNumber
	// ColorByBridge colors green for single-copy, grey for non-bridge, pink for bridge-originated.
	ColorByBridge
)

// SaveOptions controls the optional tags Save emits alongside the required S/L/P lines.
type SaveOptions struct {
	// LabelCopyDepths, when true, emits an LB:z: tag: the "d1, d2, ..." copy-depth string for a
	// segment with assigned copy depths, falling back to the bridge-type label otherwise.
	LabelCopyDepths bool
	// Color selects the CL:z: coloring convention.
	Color ColorMode
	// ContentHash, when true, emits a CS:z: debug tag carrying Graph.ContentHash(seg).
	ContentHash bool
}

// Load reads a GFA stream's H/S/L/P lines into a new Graph. sourceName names the stream in
// malformed-input error messages (§7.1); it need not be an actual filesystem path. The graph-wide
// overlap is taken from the first L line's CIGAR, per spec.md §6. Link and path lines are
// resolved against the segment set only after the whole stream has been read, so S lines may
// appear in any order relative to L/P lines.
func Load(r io.Reader, sourceName string) (*polyasm.Graph, error) {
	g := polyasm.NewGraph(0)

	type pendingLink struct {
		a, b, overlap, line int
	}
	type pendingPath struct {
		name string
		ids  []int
		line int
	}
	var links []pendingLink
	var paths []pendingPath

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "H":
			continue
		case "S":
			seg, err := parseSegmentLine(fields, sourceName, lineNum)
			if err != nil {
				return nil, err
			}
			g.AddSegment(seg)
		case "L":
			a, b, overlap, err := parseLinkLine(fields, sourceName, lineNum)
			if err != nil {
				return nil, err
			}
			links = append(links, pendingLink{a, b, overlap, lineNum})
		case "P":
			name, ids, err := parsePathLine(fields, sourceName, lineNum)
			if err != nil {
				return nil, err
			}
			paths = append(paths, pendingPath{name, ids, lineNum})
		default:
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", sourceName, err)
	}

	overlapSet := false
	for _, link := range links {
		if _, ok := g.Segments[uint32(abs(link.a))]; !ok {
			return nil, missingSegmentError(sourceName, link.line, link.a)
		}
		if _, ok := g.Segments[uint32(abs(link.b))]; !ok {
			return nil, missingSegmentError(sourceName, link.line, link.b)
		}
		if !overlapSet {
			g.Overlap = link.overlap
			overlapSet = true
		}
		g.Links.AddLink(link.a, link.b)
	}

	for _, path := range paths {
		for _, id := range path.ids {
			if _, ok := g.Segments[uint32(abs(id))]; !ok {
				return nil, missingSegmentError(sourceName, path.line, id)
			}
		}
		g.Paths.Paths[path.name] = path.ids
	}

	return g, nil
}

func missingSegmentError(sourceName string, line, ref int) error {
	return polyasm.MissingSegmentError(sourceName, line, ref)
}

func malformed(sourceName string, line int, reason string) error {
	return polyasm.MalformedInputError(sourceName, line, reason)
}

func parseSegmentLine(fields []string, sourceName string, line int) (*polyasm.Segment, error) {
	if len(fields) < 3 {
		return nil, malformed(sourceName, line, "S line missing required fields")
	}
	number, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, malformed(sourceName, line, "non-integer segment id")
	}
	sequence := fields[2]
	if bad := polyasm.SequenceAlphabet.Check(sequence); bad >= 0 {
		return nil, malformed(sourceName, line, fmt.Sprintf("sequence contains an out-of-alphabet symbol at position %d", bad))
	}
	depth := 1.0
	for _, tag := range fields[3:] {
		if strings.HasPrefix(tag, "DP:f:") {
			depth, err = strconv.ParseFloat(strings.TrimPrefix(tag, "DP:f:"), 64)
			if err != nil {
				return nil, malformed(sourceName, line, "invalid DP:f: tag")
			}
		}
	}
	return polyasm.NewSegment(uint32(number), depth, sequence), nil
}

func parseSign(s string, sourceName string, line int) (bool, error) {
	switch s {
	case "+":
		return true, nil
	case "-":
		return false, nil
	default:
		return false, malformed(sourceName, line, "link sign must be '+' or '-'")
	}
}

func parseLinkLine(fields []string, sourceName string, line int) (a, b, overlap int, err error) {
	if len(fields) < 6 {
		return 0, 0, 0, malformed(sourceName, line, "L line missing required fields")
	}
	aNum, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, malformed(sourceName, line, "non-integer link endpoint")
	}
	aPositive, err := parseSign(fields[2], sourceName, line)
	if err != nil {
		return 0, 0, 0, err
	}
	bNum, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, 0, malformed(sourceName, line, "non-integer link endpoint")
	}
	bPositive, err := parseSign(fields[4], sourceName, line)
	if err != nil {
		return 0, 0, 0, err
	}
	overlap, err = parseCigarOverlap(fields[5])
	if err != nil {
		return 0, 0, 0, malformed(sourceName, line, "invalid CIGAR: expected <k>M")
	}
	a = aNum
	if !aPositive {
		a = -aNum
	}
	b = bNum
	if !bPositive {
		b = -bNum
	}
	return a, b, overlap, nil
}

func parseCigarOverlap(cigar string) (int, error) {
	cigar = strings.TrimSpace(cigar)
	if !strings.HasSuffix(cigar, "M") {
		return 0, fmt.Errorf("expected <k>M, got %q", cigar)
	}
	return strconv.Atoi(strings.TrimSuffix(cigar, "M"))
}

func parsePathLine(fields []string, sourceName string, line int) (string, []int, error) {
	if len(fields) < 3 {
		return "", nil, malformed(sourceName, line, "P line missing required fields")
	}
	name := fields[1]
	ids, err := parseSignedList(fields[2])
	if err != nil {
		return "", nil, malformed(sourceName, line, err.Error())
	}
	return name, ids, nil
}

// parseSignedList parses a comma-separated "<id>+,<id>-,..." token list into signed ids.
func parseSignedList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	tokens := strings.Split(s, ",")
	ids := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		sign := tok[len(tok)-1]
		var positive bool
		switch sign {
		case '+':
			positive = true
		case '-':
			positive = false
		default:
			return nil, fmt.Errorf("signed id %q missing trailing + or -", tok)
		}
		num, err := strconv.Atoi(tok[:len(tok)-1])
		if err != nil {
			return nil, fmt.Errorf("non-integer signed id %q", tok)
		}
		if positive {
			ids = append(ids, num)
		} else {
			ids = append(ids, -num)
		}
	}
	return ids, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) string {
	if x < 0 {
		return "-"
	}
	return "+"
}

// isPositiveLink implements the tie rule of spec.md §6: a->b is positive iff both signs are
// positive, or a == -b, or |a| > |b|; the case where both are negative is always skipped.
func isPositiveLink(a, b int) bool {
	if a < 0 && b < 0 {
		return false
	}
	if a > 0 && b > 0 {
		return true
	}
	if a == -b {
		return true
	}
	return abs(a) > abs(b)
}

func sortedKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ai, aj := abs(keys[i]), abs(keys[j])
		if ai != aj {
			return ai < aj
		}
		return keys[i] > keys[j]
	})
	return keys
}

// Save writes the graph's segments, links, and paths as a GFA stream, sorted by unsigned id for
// determinism (§5), emitting only the positive representative of each reverse-complement link
// pair (§6).
func Save(w io.Writer, g *polyasm.Graph, opts SaveOptions) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "H\tVN:Z:1.0"); err != nil {
		return err
	}

	for _, num := range g.SortedSegmentNumbers() {
		seg := g.Segments[num]
		line := fmt.Sprintf("S\t%d\t%s\tLN:i:%d\tDP:f:%.6f", seg.Number, seg.ForwardSequence, seg.Length(), seg.Depth)
		if opts.LabelCopyDepths {
			if cd := g.CopyDepths[num]; len(cd) > 0 {
				line += "\tLB:z:" + polyasm.DepthString(cd)
			} else if label := seg.SegTypeLabel(); label != "" {
				line += "\tLB:z:" + label
			}
		}
		switch opts.Color {
		case ColorByCopyNumber:
			line += "\tCL:z:" + polyasm.CopyNumberColour(g.CopyDepths[num])
		case ColorByBridge:
			line += "\tCL:z:" + seg.BridgeColour(len(g.CopyDepths[num]) == 1)
		}
		if opts.ContentHash {
			line += "\tCS:z:" + g.ContentHash(seg)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}

	for _, a := range sortedKeys(g.Links.Forward) {
		targets := append([]int(nil), g.Links.Forward[a]...)
		sort.Slice(targets, func(i, j int) bool { return abs(targets[i]) < abs(targets[j]) })
		for _, b := range targets {
			if !isPositiveLink(a, b) {
				continue
			}
			if _, err := fmt.Fprintf(bw, "L\t%d\t%s\t%d\t%s\t%dM\n", abs(a), sign(a), abs(b), sign(b), g.Overlap); err != nil {
				return err
			}
		}
	}

	for _, name := range g.Paths.Names() {
		ids := g.Paths.Paths[name]
		tokens := make([]string, len(ids))
		for i, n := range ids {
			tokens[i] = fmt.Sprintf("%d%s", abs(n), sign(n))
		}
		var cigars []string
		for i := 0; i+1 < len(ids); i++ {
			cigars = append(cigars, fmt.Sprintf("%dM", g.Overlap))
		}
		if _, err := fmt.Fprintf(bw, "P\t%s\t%s\t%s\n", name, strings.Join(tokens, ","), strings.Join(cigars, ",")); err != nil {
			return err
		}
	}

	return bw.Flush()
}
