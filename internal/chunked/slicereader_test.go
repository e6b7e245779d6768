package chunked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fourByFourChunks() (fakeStorage, map[ChunkOffset]Chunk) {
	storage := fakeStorage{data: []byte{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
		12, 13, 14, 15,
	}}
	chunks := map[ChunkOffset]Chunk{
		NewChunkOffset([]uint64{0, 0}): {Offset: []uint64{0, 0}, Address: 0, Size: 4},
		NewChunkOffset([]uint64{0, 2}): {Offset: []uint64{0, 2}, Address: 4, Size: 4},
		NewChunkOffset([]uint64{2, 0}): {Offset: []uint64{2, 0}, Address: 8, Size: 4},
		NewChunkOffset([]uint64{2, 2}): {Offset: []uint64{2, 2}, Address: 12, Size: 4},
	}
	return storage, chunks
}

// TestSliceReaderMatchesFullBufferSubarray covers scenario S2 and universal
// invariant #2: a slice fully inside the dataset equals the corresponding
// rectangular subarray of the full buffer.
func TestSliceReaderMatchesFullBufferSubarray(t *testing.T) {
	storage, chunks := fourByFourChunks()

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	full, err := NewFullReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder)
	require.NoError(t, err)
	fullBuf, err := full.Read(chunks)
	require.NoError(t, err)

	decoder2 := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	slice := NewSliceReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder2)
	got, err := slice.Read(chunks, []uint64{1, 1}, []uint64{2, 2})
	require.NoError(t, err)

	// Direct subarray extraction from the full buffer at rows [1,2], cols [1,2].
	want := []byte{
		fullBuf[1*4+1], fullBuf[1*4+2],
		fullBuf[2*4+1], fullBuf[2*4+2],
	}
	require.Equal(t, want, got)
}

// TestSliceReaderFullExtentEqualsDataBuffer covers universal invariant #3:
// sliceShape=dims, sliceOffset=0 equals dataBuffer().
func TestSliceReaderFullExtentEqualsDataBuffer(t *testing.T) {
	storage, chunks := fourByFourChunks()

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	full, err := NewFullReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder)
	require.NoError(t, err)
	fullBuf, err := full.Read(chunks)
	require.NoError(t, err)

	decoder2 := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	slice := NewSliceReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder2)
	got, err := slice.Read(chunks, []uint64{0, 0}, []uint64{4, 4})
	require.NoError(t, err)

	require.Equal(t, fullBuf, got)
}

// TestSliceReaderSkipsMissingChunks covers the documented zero-fill default
// for slice positions whose backing chunk is absent from the index.
func TestSliceReaderSkipsMissingChunks(t *testing.T) {
	storage, chunks := fourByFourChunks()
	delete(chunks, NewChunkOffset([]uint64{2, 2}))

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	slice := NewSliceReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder)

	got, err := slice.Read(chunks, []uint64{2, 2}, []uint64{2, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, got)
}

// TestSliceReaderDegenerateDimension covers a slice whose shape along one
// dimension is 1.
func TestSliceReaderDegenerateDimension(t *testing.T) {
	storage, chunks := fourByFourChunks()
	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	slice := NewSliceReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder)

	got, err := slice.Read(chunks, []uint64{0, 0}, []uint64{1, 4})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 4, 5}, got)
}
