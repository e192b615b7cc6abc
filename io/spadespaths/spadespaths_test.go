package spadespaths

import (
	"strings"
	"testing"

	"github.com/TimothyStiles/polyasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *polyasm.Graph {
	g := polyasm.NewGraph(0)
	for i := uint32(1); i <= 4; i++ {
		g.AddSegment(polyasm.NewSegment(i, 1.0, "ACGT"))
	}
	return g
}

func TestLoadKeepsOnlyForwardMultiSegmentPaths(t *testing.T) {
	input := "NODE_1_length_10_cov_5.0\n1+,2+,3+\nNODE_1_length_10_cov_5.0'\n-3,-2,-1\n"
	g := newTestGraph()
	require.NoError(t, Load(strings.NewReader(input), g, "sample.paths"))

	assert.Equal(t, []int{1, 2, 3}, g.Paths.Paths["NODE_1_length_10_cov_5.0"])
	assert.Len(t, g.Paths.Paths, 1)
}

func TestLoadDropsSingleSegmentPaths(t *testing.T) {
	input := "NODE_2_length_10_cov_5.0\n1+\n"
	g := newTestGraph()
	require.NoError(t, Load(strings.NewReader(input), g, "sample.paths"))
	assert.Len(t, g.Paths.Paths, 0)
}

func TestLoadSplitsSemicolonSeparatedFragments(t *testing.T) {
	input := "NODE_3_length_10_cov_5.0\n1+,2+;3+,4+\n"
	g := newTestGraph()
	require.NoError(t, Load(strings.NewReader(input), g, "sample.paths"))

	assert.Equal(t, []int{1, 2}, g.Paths.Paths["NODE_3_length_10_cov_5.0_1"])
	assert.Equal(t, []int{3, 4}, g.Paths.Paths["NODE_3_length_10_cov_5.0_2"])
}

func TestLoadRejectsMissingSegment(t *testing.T) {
	input := "NODE_4_length_10_cov_5.0\n1+,9+\n"
	g := newTestGraph()
	err := Load(strings.NewReader(input), g, "sample.paths")
	require.Error(t, err)
}
