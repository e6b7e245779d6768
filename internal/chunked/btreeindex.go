package chunked

import (
	"io"
	"sync"

	"github.com/strataio/h5chunk/internal/core"
)

// BTreeV1Index is the ChunkIndex implementation backed by an HDF5 version 1
// B-tree rooted at a chunked dataset's data-layout address. It is the only
// chunk-index variant this repository implements; B-tree v2, single-chunk,
// fixed-array, and extensible-array indices are out of scope.
type BTreeV1Index struct {
	reader     io.ReaderAt
	address    uint64
	offsetSize uint8
	ndims      int
	chunkDims  []uint64

	once   sync.Once
	lookup map[ChunkOffset]Chunk
	err    error
}

// NewBTreeV1Index builds an index that, on first Lookup, walks the B-tree
// rooted at address and caches the resulting chunk map for subsequent
// calls.
func NewBTreeV1Index(reader io.ReaderAt, address uint64, offsetSize uint8, chunkDims []uint64) *BTreeV1Index {
	return &BTreeV1Index{
		reader:     reader,
		address:    address,
		offsetSize: offsetSize,
		ndims:      len(chunkDims),
		chunkDims:  chunkDims,
	}
}

// Lookup returns the chunk-offset-to-chunk map, building it on first call
// and caching it thereafter.
func (b *BTreeV1Index) Lookup() (map[ChunkOffset]Chunk, error) {
	b.once.Do(func() {
		root, err := core.ParseBTreeV1Node(b.reader, b.address, b.offsetSize, b.ndims, b.chunkDims)
		if err != nil {
			b.err = wrapf(ErrBackingRead, "b-tree root parse", err)
			return
		}

		entries, err := root.CollectAllChunks(b.reader, b.offsetSize, b.chunkDims)
		if err != nil {
			b.err = wrapf(ErrBackingRead, "b-tree chunk collection", err)
			return
		}

		lookup := make(map[ChunkOffset]Chunk, len(entries))
		for _, e := range entries {
			coords := make([]uint64, b.ndims)
			for d := 0; d < b.ndims; d++ {
				coords[d] = e.Key.Scaled[d] * b.chunkDims[d]
			}
			lookup[NewChunkOffset(coords)] = Chunk{
				Offset:     coords,
				Address:    e.Address,
				Size:       uint64(e.Key.Nbytes),
				FilterMask: e.Key.FilterMask,
			}
		}
		b.lookup = lookup
	})
	if b.err != nil {
		return nil, b.err
	}
	return b.lookup, nil
}
