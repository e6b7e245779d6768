package chunked

import "sort"

// ChunkedDatasetReader is the core chunked-dataset read engine: given a
// dataset's shape, chunk shape, element size, a chunk index, and a
// backing-storage + filter-manager pair, it can materialize the full
// dataset, a rectangular hyperslab, or a single chunk's bytes.
//
// It is polymorphic over ChunkIndex only — B-tree v1, B-tree v2,
// single-chunk, fixed-array, and extensible-array index variants all
// supply the same Lookup() capability; the reader itself never cares which
// one produced the lookup table.
type ChunkedDatasetReader struct {
	dims      []uint64
	chunkDims []uint64
	elemSize  uint64

	index   ChunkIndex
	decoder *ChunkDecoder

	full  *FullReader
	slice *SliceReader
	acc   func(map[ChunkOffset]Chunk) *ChunkAccessors
}

// New builds a ChunkedDatasetReader. dims is the dataset shape, chunkDims
// the chunk shape (same rank), elemSize the per-element byte size. storage
// supplies raw byte ranges; header/manager supply the lazily-constructed
// filter pipeline; index supplies the chunk lookup table.
func New(dims, chunkDims []uint64, elemSize uint64, storage BackingStorage, header ObjectHeader, manager FilterManager, index ChunkIndex) (*ChunkedDatasetReader, error) {
	decoder := NewChunkDecoder(storage, header, manager, chunkDims, elemSize)

	full, err := NewFullReader(dims, chunkDims, elemSize, decoder)
	if err != nil {
		return nil, err
	}

	return &ChunkedDatasetReader{
		dims:      dims,
		chunkDims: chunkDims,
		elemSize:  elemSize,
		index:     index,
		decoder:   decoder,
		full:      full,
		slice:     NewSliceReader(dims, chunkDims, elemSize, decoder),
		acc: func(chunks map[ChunkOffset]Chunk) *ChunkAccessors {
			return NewChunkAccessors(chunks, decoder)
		},
	}, nil
}

// DataBuffer returns the full dataset as a row-major byte buffer of length
// product(dims)*elemSize.
func (r *ChunkedDatasetReader) DataBuffer() ([]byte, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return nil, err
	}
	return r.full.Read(chunks)
}

// SliceDataBuffer returns the requested hyperslab as a row-major byte
// buffer of length product(sliceShape)*elemSize.
func (r *ChunkedDatasetReader) SliceDataBuffer(sliceOffset, sliceShape []uint64) ([]byte, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return nil, err
	}
	return r.slice.Read(chunks, sliceOffset, sliceShape)
}

// RawChunkBuffer returns the on-disk bytes of the chunk at chunkOffset.
func (r *ChunkedDatasetReader) RawChunkBuffer(chunkOffset []uint64) ([]byte, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return nil, err
	}
	return r.acc(chunks).RawChunkBuffer(chunkOffset)
}

// DecompressedChunk returns the decoded bytes of the chunk at chunkOffset.
func (r *ChunkedDatasetReader) DecompressedChunk(chunkOffset []uint64) ([]byte, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return nil, err
	}
	return r.acc(chunks).DecompressedChunk(chunkOffset)
}

// StorageInBytes returns the sum of on-disk chunk sizes.
func (r *ChunkedDatasetReader) StorageInBytes() (uint64, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return 0, err
	}
	return r.acc(chunks).StorageInBytes(), nil
}

// IsEmpty reports whether the dataset's chunk index has no entries.
func (r *ChunkedDatasetReader) IsEmpty() (bool, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return false, err
	}
	return r.acc(chunks).IsEmpty(), nil
}

// ChunkOffsets returns every chunk's logical dataset offset (in elements),
// sorted in row-major order, so a caller can walk the dataset one chunk at
// a time without re-deriving the chunk index itself.
func (r *ChunkedDatasetReader) ChunkOffsets() ([][]uint64, error) {
	chunks, err := r.index.Lookup()
	if err != nil {
		return nil, err
	}
	offsets := make([][]uint64, 0, len(chunks))
	for offset := range chunks {
		offsets = append(offsets, offset.Coords())
	}
	sort.Slice(offsets, func(i, j int) bool {
		a, b := offsets[i], offsets[j]
		for d := 0; d < len(a) && d < len(b); d++ {
			if a[d] != b[d] {
				return a[d] < b[d]
			}
		}
		return len(a) < len(b)
	})
	return offsets, nil
}
