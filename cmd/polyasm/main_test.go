package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimothyStiles/polyasm"
)

func TestParseBridgeKind(t *testing.T) {
	kind, err := parseBridgeKind("contig")
	require.NoError(t, err)
	assert.Equal(t, polyasm.ContigBridgeKind, kind)

	kind, err = parseBridgeKind("loop_unrolling")
	require.NoError(t, err)
	assert.Equal(t, polyasm.LoopUnrollingBridgeKind, kind)

	kind, err = parseBridgeKind("long_read")
	require.NoError(t, err)
	assert.Equal(t, polyasm.LongReadBridgeKind, kind)
}

func TestParseBridgeKindRejectsUnknown(t *testing.T) {
	_, err := parseBridgeKind("telepathic")
	assert.Error(t, err)
}

func TestApplicationHasExpectedFlags(t *testing.T) {
	app := application()
	names := make(map[string]bool)
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"in-gfa", "in-fastg", "in-paths", "out-gfa", "out-fasta", "bridges"} {
		assert.True(t, names[want], "expected flag %q", want)
	}
}
