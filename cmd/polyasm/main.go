/*
polyasm is the command-line entry point for the assembly-graph engine: it loads a graph (GFA, or
FASTG plus a SPAdes paths file), cleans it, and infers per-segment copy depths; when a bridge
file is given, it applies those externally supplied bridges and cleans once more. The result is
written out as GFA and/or FASTA, as requested by flags.

Initial arg parsing and the command template follow the teacher's convention exactly: a single
&cli.App{} built from "github.com/urfave/cli/v2", with one flag per pipeline knob and no config
file or env var layer (commands.go/main.go in the teacher's own cmd/poly).
*/
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/TimothyStiles/polyasm"
	"github.com/TimothyStiles/polyasm/internal/graphdiff"
	"github.com/TimothyStiles/polyasm/io/fasta"
	"github.com/TimothyStiles/polyasm/io/fastg"
	"github.com/TimothyStiles/polyasm/io/gfa"
	"github.com/TimothyStiles/polyasm/io/spadespaths"
)

func main() {
	run(os.Args)
}

// run is separated from main for testability, matching the teacher's own main.go/run split.
func run(args []string) {
	if err := application().Run(args); err != nil {
		log.Fatal(err)
	}
}

func application() *cli.App {
	return &cli.App{
		Name:  "polyasm",
		Usage: "Clean, copy-number-resolve, and bridge an assembly graph.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in-gfa", Usage: "Load the graph from a GFA file."},
			&cli.StringFlag{Name: "in-fastg", Usage: "Load the graph from a FASTG file (pairs with --in-paths)."},
			&cli.StringFlag{Name: "in-paths", Usage: "Load a SPAdes contigs.paths file alongside --in-fastg."},
			&cli.IntFlag{Name: "kmer-overlap", Usage: "Graph-wide overlap (k), required with --in-fastg.", Value: 0},
			&cli.StringFlag{Name: "bridges", Usage: "Load a JSON array of bridges to apply after the first clean."},
			&cli.Float64Flag{Name: "min-bridge-qual", Usage: "Reject bridges below this quality.", Value: 0.5},
			&cli.Float64Flag{Name: "depth-cutoff", Usage: "Relative depth cutoff for the cleaning pass.", Value: 0.2},
			&cli.IntFlag{Name: "min-component-size", Usage: "Minimum surviving component size after bridging.", Value: 1000},
			&cli.StringFlag{Name: "out-gfa", Usage: "Write the resulting graph as GFA."},
			&cli.StringFlag{Name: "out-fasta", Usage: "Write the resulting graph's segments as FASTA."},
			&cli.BoolFlag{Name: "label-copy-depths", Usage: "Emit GFA LB:z: copy-depth labels."},
			&cli.BoolFlag{Name: "color-by-bridges", Usage: "Emit GFA CL:z: colors by bridge provenance instead of copy number."},
			&cli.StringFlag{Name: "diff-prev", Usage: "A previous GFA dump to diff the final output against, for debugging."},
		},
		Action: pipeline,
	}
}

func pipeline(c *cli.Context) error {
	g, err := loadGraph(c)
	if err != nil {
		return err
	}

	if err := g.Clean(c.Float64("depth-cutoff")); err != nil {
		return err
	}
	g.InferCopyDepths()

	if path := c.String("bridges"); path != "" {
		bridges, err := loadBridges(path)
		if err != nil {
			return err
		}
		if _, err := g.ApplyBridges(bridges, polyasm.DefaultPieceFinder{}, c.Float64("min-bridge-qual"), g.SingleCopySegments()); err != nil {
			return err
		}
		if err := g.Clean(c.Float64("depth-cutoff")); err != nil {
			return err
		}
		g.RemoveSmallComponents(c.Int("min-component-size"))
	}

	printStats(g)

	if out := c.String("out-gfa"); out != "" {
		if err := writeGFA(c, g, out); err != nil {
			return err
		}
	}
	if out := c.String("out-fasta"); out != "" {
		if err := writeFASTA(g, out); err != nil {
			return err
		}
	}
	return nil
}

func loadGraph(c *cli.Context) (*polyasm.Graph, error) {
	switch {
	case c.String("in-gfa") != "":
		f, err := os.Open(c.String("in-gfa"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return gfa.Load(f, c.String("in-gfa"))
	case c.String("in-fastg") != "":
		f, err := os.Open(c.String("in-fastg"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		g, err := fastg.Load(f, c.Int("kmer-overlap"), c.String("in-fastg"))
		if err != nil {
			return nil, err
		}
		if pathsFile := c.String("in-paths"); pathsFile != "" {
			pf, err := os.Open(pathsFile)
			if err != nil {
				return nil, err
			}
			defer pf.Close()
			if err := spadespaths.Load(pf, g, pathsFile); err != nil {
				return nil, err
			}
		}
		return g, nil
	default:
		return nil, fmt.Errorf("one of --in-gfa or --in-fastg is required")
	}
}

// bridgeFile is the on-disk JSON shape of an externally supplied bridge (spec.md §4.4): the
// bridge-construction logic that produces these is explicitly out of scope, so the engine only
// needs to parse its fixed shape.
type bridgeFile struct {
	Kind           string  `json:"kind"`
	StartSegment   int     `json:"start_segment"`
	EndSegment     int     `json:"end_segment"`
	GraphPath      []int   `json:"graph_path"`
	BridgeSequence string  `json:"bridge_sequence"`
	Depth          float64 `json:"depth"`
	Quality        float64 `json:"quality"`
}

func parseBridgeKind(s string) (polyasm.BridgeKind, error) {
	switch s {
	case "contig":
		return polyasm.ContigBridgeKind, nil
	case "loop_unrolling":
		return polyasm.LoopUnrollingBridgeKind, nil
	case "long_read":
		return polyasm.LongReadBridgeKind, nil
	default:
		return 0, fmt.Errorf("unknown bridge kind %q", s)
	}
}

func loadBridges(path string) ([]*polyasm.Bridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []bridgeFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	bridges := make([]*polyasm.Bridge, 0, len(raw))
	for i, rb := range raw {
		kind, err := parseBridgeKind(rb.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: bridge %d: %w", path, i, err)
		}
		bridges = append(bridges, &polyasm.Bridge{
			Kind:           kind,
			StartSegment:   rb.StartSegment,
			EndSegment:     rb.EndSegment,
			GraphPath:      rb.GraphPath,
			BridgeSequence: rb.BridgeSequence,
			Depth:          rb.Depth,
			Quality:        rb.Quality,
		})
	}
	return bridges, nil
}

func writeGFA(c *cli.Context, g *polyasm.Graph, out string) error {
	opts := gfa.SaveOptions{LabelCopyDepths: c.Bool("label-copy-depths")}
	if c.Bool("color-by-bridges") {
		opts.Color = gfa.ColorByBridge
	} else {
		opts.Color = gfa.ColorByCopyNumber
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gfa.Save(f, g, opts); err != nil {
		return err
	}

	if prev := c.String("diff-prev"); prev != "" {
		return reportDiff(prev, g, opts)
	}
	return nil
}

func reportDiff(prevPath string, g *polyasm.Graph, opts gfa.SaveOptions) error {
	prevBytes, err := os.ReadFile(prevPath)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gfa.Save(&buf, g, opts); err != nil {
		return err
	}
	diffText, err := graphdiff.Unified(prevPath, "current", string(prevBytes), buf.String())
	if err != nil {
		return err
	}
	if diffText != "" {
		fmt.Fprintln(os.Stderr, diffText)
	}
	return nil
}

func writeFASTA(g *polyasm.Graph, out string) error {
	records := make([]fasta.GraphSegmentRecord, 0, len(g.Segments))
	for _, num := range g.SortedSegmentNumbers() {
		seg := g.Segments[num]
		records = append(records, fasta.GraphSegmentRecord{Number: seg.Number, Sequence: seg.ForwardSequence})
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return fasta.WriteGraphSegments(f, records)
}

func printStats(g *polyasm.Graph) {
	n50, shortest, q1, median, q3, longest := g.ContigStats()
	fmt.Fprintf(os.Stderr, "segments=%d total_length=%d dead_ends=%d n50=%d shortest=%d q1=%d median=%d q3=%d longest=%d\n",
		len(g.Segments), g.TotalLength(), g.TotalDeadEndCount(), n50, shortest, q1, median, q3, longest)
}
