package graphdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedReturnsEmptyForIdenticalInput(t *testing.T) {
	text, err := Unified("a.gfa", "b.gfa", "S\t1\tACGT\n", "S\t1\tACGT\n")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestUnifiedReportsDifferingLines(t *testing.T) {
	text, err := Unified("a.gfa", "b.gfa", "S\t1\tACGT\n", "S\t1\tACGA\n")
	require.NoError(t, err)
	assert.Contains(t, text, "a.gfa")
	assert.Contains(t, text, "b.gfa")
	assert.True(t, strings.Contains(text, "ACGT") && strings.Contains(text, "ACGA"))
}
