package chunked

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// readerAt wraps a []byte as io.ReaderAt, mirroring the hand-built raw
// fixture style already used for low-level HDF5 parsing tests.
type readerAt struct{ data []byte }

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, r.data[off:])
	return n, nil
}

// buildLeafBTreeV1 hand-constructs a minimal single-leaf HDF5 v1 B-tree
// chunk-index node (signature "TREE", node type 1, level 0) with one
// entry, following the layout ParseBTreeV1Node expects: header, then
// (key, child)* plus a trailing sentinel key.
func buildLeafBTreeV1(nbytes uint32, filterMask uint32, byteOffset uint64, childAddress uint64) []byte {
	const offsetSize = 8
	ndims := 1
	keySize := 4 + 4 + ndims*8

	buf := make([]byte, 0, 64)
	buf = append(buf, 'T', 'R', 'E', 'E')
	buf = append(buf, 1, 0) // node type 1, level 0
	entries := make([]byte, 2)
	binary.LittleEndian.PutUint16(entries, 1)
	buf = append(buf, entries...)
	buf = append(buf, make([]byte, offsetSize*2)...) // left/right sibling, unused

	key0 := make([]byte, keySize)
	binary.LittleEndian.PutUint32(key0[0:4], nbytes)
	binary.LittleEndian.PutUint32(key0[4:8], filterMask)
	binary.LittleEndian.PutUint64(key0[8:16], byteOffset)
	buf = append(buf, key0...)

	child0 := make([]byte, offsetSize)
	binary.LittleEndian.PutUint64(child0, childAddress)
	buf = append(buf, child0...)

	sentinel := make([]byte, keySize)
	buf = append(buf, sentinel...)

	return buf
}

func TestBTreeV1IndexLookupBuildsChunkMap(t *testing.T) {
	treeBytes := buildLeafBTreeV1(100, 0, 4, 2000)
	reader := readerAt{data: treeBytes}

	idx := NewBTreeV1Index(reader, 0, 8, []uint64{2})
	chunks, err := idx.Lookup()
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	chunk, ok := chunks[NewChunkOffset([]uint64{4})]
	require.True(t, ok)
	require.Equal(t, uint64(2000), chunk.Address)
	require.Equal(t, uint64(100), chunk.Size)
}

func TestBTreeV1IndexLookupIsCachedAcrossCalls(t *testing.T) {
	treeBytes := buildLeafBTreeV1(50, 0, 0, 1000)
	reader := readerAt{data: treeBytes}

	idx := NewBTreeV1Index(reader, 0, 8, []uint64{2})
	first, err := idx.Lookup()
	require.NoError(t, err)
	second, err := idx.Lookup()
	require.NoError(t, err)

	require.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
}

func TestBTreeV1IndexLookupPropagatesParseFailure(t *testing.T) {
	reader := readerAt{data: []byte("not a valid tree node header padded to length")}

	idx := NewBTreeV1Index(reader, 0, 8, []uint64{2})
	_, err := idx.Lookup()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrBackingRead)
}
