package hdf5

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataio/h5chunk/internal/chunked"
	"github.com/strataio/h5chunk/internal/core"
)

// fixedChunkIndex is a chunked.ChunkIndex fake so ChunkIterator's
// enumeration and per-chunk read logic can be exercised without a real
// HDF5 file.
type fixedChunkIndex struct {
	chunks map[chunked.ChunkOffset]chunked.Chunk
}

func (f fixedChunkIndex) Lookup() (map[chunked.ChunkOffset]chunked.Chunk, error) {
	return f.chunks, nil
}

// newTestChunkIterator builds a ChunkIterator wired directly onto
// internal/chunked.ChunkedDatasetReader over an in-memory float64 array of
// shape [5] split into three chunks of 2 elements, the last one partial.
func newTestChunkIterator(t *testing.T) *ChunkIterator {
	t.Helper()

	values := []float64{10, 20, 30, 40, 50}
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}

	dims := []uint64{5}
	chunkDims := []uint64{2}
	chunks := map[chunked.ChunkOffset]chunked.Chunk{
		chunked.NewChunkOffset([]uint64{0}): {Offset: []uint64{0}, Address: 0, Size: 16},
		chunked.NewChunkOffset([]uint64{2}): {Offset: []uint64{2}, Address: 16, Size: 16},
		chunked.NewChunkOffset([]uint64{4}): {Offset: []uint64{4}, Address: 32, Size: 8},
	}

	reader, err := chunked.New(
		dims,
		chunkDims,
		8,
		chunked.ReaderAtStorage{R: bytes.NewReader(buf)},
		chunked.HeaderFilterView{},
		chunked.FilterManagerInstance,
		fixedChunkIndex{chunks: chunks},
	)
	require.NoError(t, err)

	offsets, err := reader.ChunkOffsets()
	require.NoError(t, err)

	return &ChunkIterator{
		reader:      reader,
		datatype:    &core.DatatypeMessage{Class: core.DatatypeFloat, Size: 8},
		elemSize:    8,
		offsets:     offsets,
		chunkDims:   chunkDims,
		datasetDims: dims,
	}
}

func TestChunkIteratorEnumeratesOffsetsInOrder(t *testing.T) {
	it := newTestChunkIterator(t)
	require.Equal(t, 3, it.Total())

	var seen [][]uint64
	for it.Next() {
		seen = append(seen, it.ChunkCoords())
	}
	require.NoError(t, it.Err())
	require.Equal(t, [][]uint64{{0}, {2}, {4}}, seen)
}

func TestChunkIteratorChunkClampsPartialEdgeChunk(t *testing.T) {
	it := newTestChunkIterator(t)

	require.True(t, it.Next())
	first, err := it.Chunk()
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20}, first)

	require.True(t, it.Next())
	second, err := it.Chunk()
	require.NoError(t, err)
	require.Equal(t, []float64{30, 40}, second)

	require.True(t, it.Next())
	last, err := it.Chunk()
	require.NoError(t, err)
	// Dataset has 5 elements; the chunk at offset 4 has room for 2 but only
	// 1 element is actually in bounds.
	require.Equal(t, []float64{50}, last)

	require.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestChunkIteratorProgressAndReset(t *testing.T) {
	it := newTestChunkIterator(t)

	var progressed []int
	it.OnProgress(func(current, _ int) { progressed = append(progressed, current) })

	for it.Next() {
		current, total := it.Progress()
		require.Equal(t, total, 3)
		_ = current
	}
	require.Equal(t, []int{1, 2, 3}, progressed)

	it.Reset()
	require.Equal(t, 0, it.current)
	require.Nil(t, it.Err())
	require.True(t, it.Next())
	require.Equal(t, []uint64{0}, it.ChunkCoords())
}

func TestChunkIteratorChunkBeforeNextErrors(t *testing.T) {
	it := newTestChunkIterator(t)
	_, err := it.Chunk()
	require.Error(t, err)
}

func TestChunkIteratorDimsAccessors(t *testing.T) {
	it := newTestChunkIterator(t)
	require.Equal(t, []uint64{2}, it.ChunkDims())
	require.Equal(t, []uint64{5}, it.DatasetDims())
}
