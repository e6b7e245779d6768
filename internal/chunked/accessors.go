package chunked

// ChunkAccessors provides direct, single-chunk access by logical offset:
// raw (on-disk) bytes, decompressed bytes, and aggregate storage queries.
type ChunkAccessors struct {
	chunks  map[ChunkOffset]Chunk
	decoder *ChunkDecoder
}

// NewChunkAccessors builds accessors over a chunk lookup and decoder.
func NewChunkAccessors(chunks map[ChunkOffset]Chunk, decoder *ChunkDecoder) *ChunkAccessors {
	return &ChunkAccessors{chunks: chunks, decoder: decoder}
}

// RawChunkBuffer returns the on-disk (possibly compressed) bytes for the
// chunk at offsetTuple.
func (a *ChunkAccessors) RawChunkBuffer(offsetTuple []uint64) ([]byte, error) {
	chunk, ok := a.chunks[NewChunkOffset(offsetTuple)]
	if !ok {
		return nil, wrapf(ErrChunkNotFound, "raw chunk buffer", nil)
	}
	return a.decoder.RawBytes(chunk)
}

// DecompressedChunk returns the filtered (decoded) bytes for the chunk at
// offsetTuple.
func (a *ChunkAccessors) DecompressedChunk(offsetTuple []uint64) ([]byte, error) {
	chunk, ok := a.chunks[NewChunkOffset(offsetTuple)]
	if !ok {
		return nil, wrapf(ErrChunkNotFound, "decompressed chunk buffer", nil)
	}
	return a.decoder.Decompressed(chunk)
}

// StorageInBytes returns the sum of on-disk chunk sizes over the lookup.
func (a *ChunkAccessors) StorageInBytes() uint64 {
	var total uint64
	for _, c := range a.chunks {
		total += c.Size
	}
	return total
}

// IsEmpty reports whether the chunk lookup is empty.
func (a *ChunkAccessors) IsEmpty() bool {
	return len(a.chunks) == 0
}
