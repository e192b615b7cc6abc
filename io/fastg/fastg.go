/*
Package fastg implements loading of the assembly graph in the FASTG format used by SPAdes
(spec.md §6).

Each record is a header line `>EDGE_<id>_length_<L>_cov_<depth>[']`, optionally followed by
`:<comma-separated neighbor headers>;`, then one or more sequence lines. A trailing apostrophe on
the edge or a neighbor denotes the reverse strand. FASTG carries no overlap field of its own, so
the caller supplies the assembler's k-mer overlap.
*/
package fastg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TimothyStiles/polyasm"
)

type header struct {
	id      int
	length  int
	depth   float64
	reverse bool
}

func (h header) signedID() int {
	if h.reverse {
		return -h.id
	}
	return h.id
}

func malformed(sourceName string, line int, reason string) error {
	return polyasm.MalformedInputError(sourceName, line, reason)
}

// parseEdgeToken parses one "EDGE_<id>_length_<L>_cov_<depth>[']" token (leading '>' and trailing
// ';' already stripped by the caller).
func parseEdgeToken(tok string) (header, error) {
	reverse := strings.HasSuffix(tok, "'")
	tok = strings.TrimSuffix(tok, "'")
	parts := strings.Split(tok, "_")
	if len(parts) < 6 || parts[0] != "EDGE" || parts[2] != "length" || parts[4] != "cov" {
		return header{}, fmt.Errorf("malformed FASTG edge header %q", tok)
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return header{}, fmt.Errorf("non-integer edge id in header %q", tok)
	}
	length, err := strconv.Atoi(parts[3])
	if err != nil {
		return header{}, fmt.Errorf("non-integer edge length in header %q", tok)
	}
	depth, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return header{}, fmt.Errorf("non-numeric coverage in header %q", tok)
	}
	return header{id: id, length: length, depth: depth, reverse: reverse}, nil
}

// parseHeaderLine parses a full ">EDGE_...:EDGE_...,EDGE_...;" header line (leading '>' still
// present) into the record's own header and its neighbor headers.
func parseHeaderLine(line string) (header, []header, error) {
	body := strings.TrimPrefix(line, ">")
	body = strings.TrimSuffix(body, ";")
	parts := strings.SplitN(body, ":", 2)
	self, err := parseEdgeToken(parts[0])
	if err != nil {
		return header{}, nil, err
	}
	var neighbors []header
	if len(parts) == 2 && parts[1] != "" {
		for _, tok := range strings.Split(parts[1], ",") {
			nb, err := parseEdgeToken(tok)
			if err != nil {
				return header{}, nil, err
			}
			neighbors = append(neighbors, nb)
		}
	}
	return self, neighbors, nil
}

type record struct {
	self      header
	neighbors []header
	sequence  strings.Builder
	line      int
}

// Load reads a FASTG stream into a new Graph with the given graph-wide overlap (FASTG does not
// encode k anywhere in the file itself). sourceName names the stream in malformed-input errors.
// Reverse-complement twin links are synthesized automatically by Graph's link table on insertion,
// matching spec.md §6's "must be synthesized if absent".
func Load(r io.Reader, overlap int, sourceName string) (*polyasm.Graph, error) {
	g := polyasm.NewGraph(overlap)

	var records []*record
	var current *record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			self, neighbors, err := parseHeaderLine(line)
			if err != nil {
				return nil, malformed(sourceName, lineNum, err.Error())
			}
			current = &record{self: self, neighbors: neighbors, line: lineNum}
			records = append(records, current)
			continue
		}
		if current == nil {
			return nil, malformed(sourceName, lineNum, "sequence data before any header")
		}
		current.sequence.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", sourceName, err)
	}

	forwardSeqs := make(map[int]string)
	lineForID := make(map[int]int)
	for _, rec := range records {
		if !rec.self.reverse {
			forwardSeqs[rec.self.id] = rec.sequence.String()
			lineForID[rec.self.id] = rec.line
		}
	}
	for _, rec := range records {
		if rec.self.reverse {
			if _, ok := forwardSeqs[rec.self.id]; !ok {
				forwardSeqs[rec.self.id] = polyasm.ReverseComplement(rec.sequence.String())
				lineForID[rec.self.id] = rec.line
			}
		}
	}
	for id, seq := range forwardSeqs {
		if bad := polyasm.SequenceAlphabet.Check(seq); bad >= 0 {
			return nil, malformed(sourceName, lineForID[id], fmt.Sprintf("segment %d sequence contains an out-of-alphabet symbol at position %d", id, bad))
		}
	}

	depths := make(map[int]float64)
	for _, rec := range records {
		depths[rec.self.id] = rec.self.depth
	}
	for id, seq := range forwardSeqs {
		g.AddSegment(polyasm.NewSegment(uint32(id), depths[id], seq))
	}

	for _, rec := range records {
		selfSigned := rec.self.signedID()
		if _, ok := g.Segments[uint32(rec.self.id)]; !ok {
			return nil, polyasm.MissingSegmentError(sourceName, rec.line, rec.self.id)
		}
		for _, nb := range rec.neighbors {
			if _, ok := g.Segments[uint32(nb.id)]; !ok {
				return nil, polyasm.MissingSegmentError(sourceName, rec.line, nb.id)
			}
			g.Links.AddLink(selfSigned, nb.signedID())
		}
	}

	return g, nil
}
