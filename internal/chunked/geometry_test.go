package chunked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkGeometryIsPartial(t *testing.T) {
	g := NewChunkGeometry([]uint64{5}, []uint64{3})

	require.False(t, g.IsPartial([]uint64{0}))
	require.True(t, g.IsPartial([]uint64{3}))
}

func TestChunkGeometryEvenTilingNeverPartial(t *testing.T) {
	g := NewChunkGeometry([]uint64{4, 4}, []uint64{2, 2})

	for _, offset := range [][]uint64{{0, 0}, {0, 2}, {2, 0}, {2, 2}} {
		require.False(t, g.IsPartial(offset))
	}
}

func TestChunkGeometryFastestDim(t *testing.T) {
	g := NewChunkGeometry([]uint64{4, 4}, []uint64{2, 3})
	require.Equal(t, uint64(3), g.FastestDim())
}

func TestPartOfChunkIsOutsideDatasetExcludesFastestDim(t *testing.T) {
	// dims=[3,3], chunkDims=[2,2]: chunk at offset [2,2] overhangs both dims.
	g := NewChunkGeometry([]uint64{3, 3}, []uint64{2, 2})

	// Internal element index 1 in a [2,2] chunk is row0,col1 (fastest dim) —
	// the fastest dimension's overhang is excluded here by design.
	require.False(t, g.PartOfChunkIsOutsideDataset(1, []uint64{2, 2}))

	// Internal element index 2 is row1,col0 — row 1 of this chunk lands at
	// dataset row 2+1=3, which is outside dims[0]=3.
	require.True(t, g.PartOfChunkIsOutsideDataset(2, []uint64{2, 2}))
}
