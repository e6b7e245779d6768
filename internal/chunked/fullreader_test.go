package chunked

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFullReaderEvenTiling covers scenario S1: a 4x4 byte dataset tiled
// exactly by 2x2 chunks.
func TestFullReaderEvenTiling(t *testing.T) {
	storage := fakeStorage{data: []byte{
		0, 1, 2, 3, // chunk (0,0)
		4, 5, 6, 7, // chunk (0,2)
		8, 9, 10, 11, // chunk (2,0)
		12, 13, 14, 15, // chunk (2,2)
	}}

	chunks := map[ChunkOffset]Chunk{
		NewChunkOffset([]uint64{0, 0}): {Offset: []uint64{0, 0}, Address: 0, Size: 4},
		NewChunkOffset([]uint64{0, 2}): {Offset: []uint64{0, 2}, Address: 4, Size: 4},
		NewChunkOffset([]uint64{2, 0}): {Offset: []uint64{2, 0}, Address: 8, Size: 4},
		NewChunkOffset([]uint64{2, 2}): {Offset: []uint64{2, 2}, Address: 12, Size: 4},
	}

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, 1)
	full, err := NewFullReader([]uint64{4, 4}, []uint64{2, 2}, 1, decoder)
	require.NoError(t, err)

	out, err := full.Read(chunks)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 4, 5, 2, 3, 6, 7, 8, 9, 12, 13, 10, 11, 14, 15}, out)
}

// TestFullReaderEdgeChunk1D covers scenario S3: a 1D dataset of length 5
// tiled by chunks of size 3, so the last chunk overhangs by one element.
func TestFullReaderEdgeChunk1D(t *testing.T) {
	storage := fakeStorage{data: []byte{
		0, 1, 2, // chunk [0]
		3, 4, 99, // chunk [3], last byte is overhang, must be omitted
	}}

	chunks := map[ChunkOffset]Chunk{
		NewChunkOffset([]uint64{0}): {Offset: []uint64{0}, Address: 0, Size: 3},
		NewChunkOffset([]uint64{3}): {Offset: []uint64{3}, Address: 3, Size: 3},
	}

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{3}, 1)
	full, err := NewFullReader([]uint64{5}, []uint64{3}, 1, decoder)
	require.NoError(t, err)

	out, err := full.Read(chunks)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3, 4}, out)
}

// TestFullReaderEdgeChunk2D covers scenario S4: a 3x3 dataset tiled by 2x2
// chunks with element size 4, overhanging in both dimensions on every edge
// chunk. Only the output length and absence of overhang bytes is checked.
func TestFullReaderEdgeChunk2D(t *testing.T) {
	elemSize := uint64(4)
	chunkBytes := func(fill byte) []byte {
		b := make([]byte, 4*elemSize)
		for i := range b {
			b[i] = fill
		}
		return b
	}

	storage := fakeStorage{data: append(append(append(
		chunkBytes(1), chunkBytes(2)...), chunkBytes(3)...), chunkBytes(4)...)}

	chunkSize := 4 * elemSize
	chunks := map[ChunkOffset]Chunk{
		NewChunkOffset([]uint64{0, 0}): {Offset: []uint64{0, 0}, Address: 0, Size: chunkSize},
		NewChunkOffset([]uint64{0, 2}): {Offset: []uint64{0, 2}, Address: chunkSize, Size: chunkSize},
		NewChunkOffset([]uint64{2, 0}): {Offset: []uint64{2, 0}, Address: 2 * chunkSize, Size: chunkSize},
		NewChunkOffset([]uint64{2, 2}): {Offset: []uint64{2, 2}, Address: 3 * chunkSize, Size: chunkSize},
	}

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2, 2}, elemSize)
	full, err := NewFullReader([]uint64{3, 3}, []uint64{2, 2}, elemSize, decoder)
	require.NoError(t, err)

	out, err := full.Read(chunks)
	require.NoError(t, err)
	require.Len(t, out, 3*3*int(elemSize))

	var want []byte
	for _, fill := range []byte{1, 1, 2, 1, 1, 2, 3, 3, 4} {
		want = append(want, chunkBytes(fill)[:elemSize]...)
	}
	require.Equal(t, want, out)
}

func TestFullReaderPropagatesChunkDecodeFailure(t *testing.T) {
	storage := fakeStorage{data: []byte{0, 1}}
	chunks := map[ChunkOffset]Chunk{
		NewChunkOffset([]uint64{0}): {Offset: []uint64{0}, Address: 0, Size: 100},
	}

	decoder := NewChunkDecoder(storage, fakeHeader{}, fakeManager{}, []uint64{2}, 1)
	full, err := NewFullReader([]uint64{2}, []uint64{2}, 1, decoder)
	require.NoError(t, err)

	_, err = full.Read(chunks)
	require.Error(t, err)
}
