package chunked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkedDatasetReaderFullAndSliceAgree(t *testing.T) {
	storage, chunks := fourByFourChunks()
	reader, err := New([]uint64{4, 4}, []uint64{2, 2}, 1, storage, fakeHeader{}, fakeManager{}, fakeIndex{chunks: chunks})
	require.NoError(t, err)

	full, err := reader.DataBuffer()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 4, 5, 2, 3, 6, 7, 8, 9, 12, 13, 10, 11, 14, 15}, full)

	slice, err := reader.SliceDataBuffer([]uint64{0, 0}, []uint64{4, 4})
	require.NoError(t, err)
	require.Equal(t, full, slice)
}

func TestChunkedDatasetReaderAccessorsAndStorage(t *testing.T) {
	storage, chunks := fourByFourChunks()
	reader, err := New([]uint64{4, 4}, []uint64{2, 2}, 1, storage, fakeHeader{}, fakeManager{}, fakeIndex{chunks: chunks})
	require.NoError(t, err)

	raw, err := reader.RawChunkBuffer([]uint64{0, 0})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3}, raw)

	total, err := reader.StorageInBytes()
	require.NoError(t, err)
	require.Equal(t, uint64(16), total)

	empty, err := reader.IsEmpty()
	require.NoError(t, err)
	require.False(t, empty)
}

func TestChunkedDatasetReaderPropagatesIndexFailure(t *testing.T) {
	storage, _ := fourByFourChunks()
	reader, err := New([]uint64{4, 4}, []uint64{2, 2}, 1, storage, fakeHeader{}, fakeManager{}, fakeIndex{err: errBoundsFake})
	require.NoError(t, err)

	_, err = reader.DataBuffer()
	require.Error(t, err)
}

func TestChunkedDatasetReaderEmptyIndex(t *testing.T) {
	storage, _ := fourByFourChunks()
	reader, err := New([]uint64{4, 4}, []uint64{2, 2}, 1, storage, fakeHeader{}, fakeManager{}, fakeIndex{chunks: map[ChunkOffset]Chunk{}})
	require.NoError(t, err)

	empty, err := reader.IsEmpty()
	require.NoError(t, err)
	require.True(t, empty)

	buf, err := reader.DataBuffer()
	require.NoError(t, err)
	require.Equal(t, make([]byte, 16), buf)
}
