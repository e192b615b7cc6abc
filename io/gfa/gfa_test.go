package gfa

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGFA = `H	VN:Z:1.0
S	1	ACGTACGTAC	DP:f:10.000000
S	2	ACGTACGTAC	DP:f:12.500000
S	3	GTACGTACGT	DP:f:5.000000
L	1	+	2	+	3M
L	2	+	3	+	3M
P	scaffold1	1+,2+,3+	3M,3M
`

func TestLoadParsesSegmentsLinksAndPaths(t *testing.T) {
	g, err := Load(strings.NewReader(sampleGFA), "sample.gfa")
	require.NoError(t, err)

	assert.Equal(t, 3, g.Overlap)
	require.Len(t, g.Segments, 3)
	assert.Equal(t, 10.0, g.Segments[1].Depth)
	assert.Equal(t, "ACGTACGTAC", g.Segments[1].ForwardSequence)

	assert.Contains(t, g.Links.Forward[1], 2)
	assert.Contains(t, g.Links.Forward[-2], -1)
	assert.Contains(t, g.Links.Forward[2], 3)

	assert.Equal(t, []int{1, 2, 3}, g.Paths.Paths["scaffold1"])
}

func TestLoadDefaultsMissingDepthTagToOne(t *testing.T) {
	input := "S\t1\tACGT\nS\t2\tACGT\n"
	g, err := Load(strings.NewReader(input), "sample.gfa")
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.Segments[1].Depth)
}

func TestLoadRejectsOutOfAlphabetSequence(t *testing.T) {
	input := "S\t1\tACGTX\n"
	_, err := Load(strings.NewReader(input), "sample.gfa")
	require.Error(t, err)
}

func TestLoadRejectsLinkToMissingSegment(t *testing.T) {
	input := "S\t1\tACGT\nL\t1\t+\t2\t+\t0M\n"
	_, err := Load(strings.NewReader(input), "sample.gfa")
	require.Error(t, err)
}

func TestSaveEmitsOnlyPositiveLinkRepresentative(t *testing.T) {
	g, err := Load(strings.NewReader(sampleGFA), "sample.gfa")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Save(&out, g, SaveOptions{}))

	linkLines := 0
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "L\t") {
			linkLines++
		}
	}
	assert.Equal(t, 2, linkLines)
}

func TestRoundTripIsIsomorphic(t *testing.T) {
	g, err := Load(strings.NewReader(sampleGFA), "sample.gfa")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Save(&out, g, SaveOptions{}))

	g2, err := Load(strings.NewReader(out.String()), "round-trip.gfa")
	require.NoError(t, err)

	if diff := cmp.Diff(g.Segments, g2.Segments); diff != "" {
		t.Errorf("segments differ after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(g.Paths.Paths, g2.Paths.Paths); diff != "" {
		t.Errorf("paths differ after round trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, g.Overlap, g2.Overlap)
}
