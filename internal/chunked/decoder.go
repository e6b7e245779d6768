package chunked

import (
	"sync"
)

// noFilters is the identity pipeline: Decode returns raw verbatim.
type noFilters struct{}

func (noFilters) Decode(raw []byte, _ uint32) ([]byte, error) { return raw, nil }

// NoFilters is the sentinel identity FilterPipeline.
var NoFilters FilterPipeline = noFilters{}

// ChunkDecoder reads a chunk's raw bytes from backing storage and, on
// request, decompresses them through the dataset's filter pipeline. The
// pipeline is constructed lazily and at most once: the first caller that
// needs it builds it from the object header's filter-pipeline message (or
// falls back to NoFilters), and every caller — concurrent or not —
// observes the same pipeline or the same construction failure.
type ChunkDecoder struct {
	storage   BackingStorage
	header    ObjectHeader
	manager   FilterManager
	elemSize  uint64
	chunkDims []uint64

	once     sync.Once
	pipeline FilterPipeline
	initErr  error
}

// NewChunkDecoder builds a decoder over storage, using header and manager
// to lazily construct the filter pipeline on first use. elemSize and
// chunkDims describe the logical (uncompressed) shape of every chunk.
func NewChunkDecoder(storage BackingStorage, header ObjectHeader, manager FilterManager, chunkDims []uint64, elemSize uint64) *ChunkDecoder {
	return &ChunkDecoder{
		storage:   storage,
		header:    header,
		manager:   manager,
		elemSize:  elemSize,
		chunkDims: chunkDims,
	}
}

// RawBytes returns exactly chunk.Size bytes read from backing storage at
// chunk.Address.
func (d *ChunkDecoder) RawBytes(chunk Chunk) ([]byte, error) {
	raw, err := d.storage.Map(chunk.Address, chunk.Size)
	if err != nil {
		return nil, wrapf(ErrBackingRead, "chunk raw read", err)
	}
	return raw, nil
}

// Decompressed returns the chunk's decoded bytes. If the pipeline is
// NoFilters, this is RawBytes verbatim; otherwise it is the pipeline's
// decode of those bytes, honoring the chunk's filter mask. The decoded
// length equals product(chunkDims)*elemSize, not trimmed for partial
// chunks — edge-chunk trimming happens in the copy stage, not here.
func (d *ChunkDecoder) Decompressed(chunk Chunk) ([]byte, error) {
	pipeline, err := d.filterPipeline()
	if err != nil {
		return nil, err
	}

	raw, err := d.RawBytes(chunk)
	if err != nil {
		return nil, err
	}

	if pipeline == NoFilters {
		return raw, nil
	}

	decoded, err := pipeline.Decode(raw, chunk.FilterMask)
	if err != nil {
		return nil, wrapf(ErrFilterDecode, "chunk decode", err)
	}
	return decoded, nil
}

// filterPipeline runs the one-shot lazy initializer. Construction failure
// is cached and replayed to every subsequent caller; it is never retried.
func (d *ChunkDecoder) filterPipeline() (FilterPipeline, error) {
	d.once.Do(func() {
		if d.header == nil || !d.header.HasFilterPipeline() {
			d.pipeline = NoFilters
			return
		}
		pipeline, err := d.manager.GetPipeline(d.header.FilterPipelineMessage())
		if err != nil {
			d.initErr = wrapf(ErrFilterInit, "filter pipeline construction", err)
			return
		}
		d.pipeline = pipeline
	})
	if d.initErr != nil {
		return nil, d.initErr
	}
	return d.pipeline, nil
}
