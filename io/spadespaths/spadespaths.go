/*
Package spadespaths implements loading of the SPAdes contigs.paths file into a Graph's path
registry (spec.md §6).

A paths file is a sequence of blocks: a header line `NODE_<num>_...` (optionally suffixed with an
apostrophe for the reverse-strand copy of that scaffold), followed by one or more lines of
comma-separated signed ids. Only the forward (non-apostrophe) copy of each block is kept; a
semicolon inside the id list separates disconnected fragments, each becoming its own suffixed
sub-path (`_1`, `_2`, ...); single-segment paths (or fragments) are discarded.
*/
package spadespaths

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TimothyStiles/polyasm"
)

func malformed(sourceName string, line int, reason string) error {
	return polyasm.MalformedInputError(sourceName, line, reason)
}

type block struct {
	name    string
	reverse bool
	body    strings.Builder
	line    int
}

// Load reads a SPAdes paths stream and registers its kept paths on g, keyed by the block's
// header name (suffixed with `_1`, `_2`, ... when a block's id list contains semicolon-separated
// fragments). sourceName names the stream in malformed-input and missing-segment errors.
func Load(r io.Reader, g *polyasm.Graph, sourceName string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var blocks []*block
	var current *block
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "NODE_") {
			reverse := strings.HasSuffix(line, "'")
			name := strings.TrimSuffix(line, "'")
			current = &block{name: name, reverse: reverse, line: lineNum}
			blocks = append(blocks, current)
			continue
		}
		if current == nil {
			return malformed(sourceName, lineNum, "path data before any NODE_ header")
		}
		current.body.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", sourceName, err)
	}

	for _, blk := range blocks {
		if blk.reverse {
			continue
		}
		fragments := strings.Split(blk.body.String(), ";")
		multi := len(fragments) > 1
		for i, fragment := range fragments {
			if fragment == "" {
				continue
			}
			ids, err := parseSignedList(fragment)
			if err != nil {
				return malformed(sourceName, blk.line, err.Error())
			}
			if len(ids) < 2 {
				continue
			}
			for _, id := range ids {
				if _, ok := g.Segments[uint32(abs(id))]; !ok {
					return polyasm.MissingSegmentError(sourceName, blk.line, id)
				}
			}
			name := blk.name
			if multi {
				name = fmt.Sprintf("%s_%d", blk.name, i+1)
			}
			g.Paths.Paths[name] = ids
		}
	}

	return nil
}

func parseSignedList(s string) ([]int, error) {
	tokens := strings.Split(s, ",")
	ids := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
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
