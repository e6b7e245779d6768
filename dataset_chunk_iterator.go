package hdf5

import (
	"context"
	"errors"

	"github.com/strataio/h5chunk/internal/chunked"
	"github.com/strataio/h5chunk/internal/core"
)

// ChunkIterator provides memory-efficient iteration over dataset chunks.
// It reads one chunk at a time, allowing processing of datasets larger than available memory.
//
// Usage:
//
//	iter, err := dataset.ChunkIterator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for iter.Next() {
//	    chunk, err := iter.Chunk()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    processChunk(chunk)
//	}
//	if err := iter.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// The iterator follows the Go scanner pattern (bufio.Scanner). Chunk
// enumeration and per-chunk reads are both delegated to
// internal/chunked.ChunkedDatasetReader; the iterator itself only tracks
// position and clamps each chunk's extent to the dataset's bounds.
// Only chunked datasets are supported; compact and contiguous datasets
// should use Read() or ReadSlice() directly.
type ChunkIterator struct {
	reader      *chunked.ChunkedDatasetReader
	datatype    *core.DatatypeMessage
	elemSize    uint64
	offsets     [][]uint64
	chunkDims   []uint64
	datasetDims []uint64
	current     int
	err         error
	ctx         context.Context
	onProgress  func(current, total int)
}

// ChunkIterator returns an iterator for reading dataset chunks one at a time.
// This is memory-efficient for large chunked datasets.
//
// Returns an error if the dataset is not chunked (compact or contiguous layout).
// For non-chunked datasets, use Read() or ReadSlice() instead.
func (d *Dataset) ChunkIterator() (*ChunkIterator, error) {
	return d.ChunkIteratorWithContext(context.Background())
}

// ChunkIteratorWithContext returns an iterator with context support for cancellation.
// The context is checked before each Next() call, allowing graceful cancellation.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	iter, err := dataset.ChunkIteratorWithContext(ctx)
//	for iter.Next() {
//	    // Process chunk...
//	}
func (d *Dataset) ChunkIteratorWithContext(ctx context.Context) (*ChunkIterator, error) {
	header, err := core.ReadObjectHeader(d.file.osFile, d.address, d.file.sb)
	if err != nil {
		return nil, err
	}

	reader, datatype, elemSize, dims, chunkDims, err := d.newChunkedReader(header)
	if err != nil {
		return nil, errors.New("ChunkIterator only supports chunked datasets; use Read() or ReadSlice() for compact/contiguous datasets: " + err.Error())
	}

	offsets, err := reader.ChunkOffsets()
	if err != nil {
		return nil, err
	}

	return &ChunkIterator{
		reader:      reader,
		datatype:    datatype,
		elemSize:    elemSize,
		offsets:     offsets,
		chunkDims:   chunkDims,
		datasetDims: dims,
		current:     0,
		ctx:         ctx,
	}, nil
}

// Next advances to the next chunk. Returns false when iteration is complete
// or an error occurred. Check Err() after iteration to distinguish.
func (it *ChunkIterator) Next() bool {
	if it.err != nil {
		return false
	}

	// Check context for cancellation.
	if it.ctx != nil {
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return false
		}
	}

	it.current++
	if it.current > len(it.offsets) {
		return false
	}

	// Call progress callback if set.
	if it.onProgress != nil {
		it.onProgress(it.current, len(it.offsets))
	}

	return true
}

// Chunk returns the data for the current chunk, clamped to the dataset's
// bounds (the last chunk along any dimension may be partial). Must be
// called after Next() returns true. The read goes through
// internal/chunked.ChunkedDatasetReader.SliceDataBuffer, the same
// rectangular-slice path ReadRectSlice uses, so an edge chunk never leaks
// padding past the dataset's real extent.
func (it *ChunkIterator) Chunk() (interface{}, error) {
	if it.current < 1 || it.current > len(it.offsets) {
		return nil, errors.New("no current chunk: call Next() first")
	}

	offset := it.offsets[it.current-1]
	shape := make([]uint64, len(offset))
	for i := range offset {
		shape[i] = it.chunkDims[i]
		if offset[i]+shape[i] > it.datasetDims[i] {
			shape[i] = it.datasetDims[i] - offset[i]
		}
	}

	raw, err := it.reader.SliceDataBuffer(offset, shape)
	if err != nil {
		return nil, err
	}

	numElements := uint64(len(raw)) / it.elemSize
	return convertToFloat64(raw, it.datatype, numElements)
}

// ChunkCoords returns the current chunk's logical dataset offset, in
// elements (not scaled chunk indices).
func (it *ChunkIterator) ChunkCoords() []uint64 {
	if it.current < 1 || it.current > len(it.offsets) {
		return nil
	}
	return it.offsets[it.current-1]
}

// Progress returns the current chunk index and total chunk count.
// Useful for progress reporting.
func (it *ChunkIterator) Progress() (current, total int) {
	return it.current, len(it.offsets)
}

// Total returns the total number of chunks in the dataset.
func (it *ChunkIterator) Total() int {
	return len(it.offsets)
}

// Err returns any error that occurred during iteration.
// Should be checked after Next() returns false.
func (it *ChunkIterator) Err() error {
	return it.err
}

// OnProgress sets a callback function that is called after each Next().
// The callback receives the current chunk index (1-based) and total count.
//
// Example:
//
//	iter.OnProgress(func(current, total int) {
//	    fmt.Printf("Processing chunk %d/%d\n", current, total)
//	})
func (it *ChunkIterator) OnProgress(fn func(current, total int)) {
	it.onProgress = fn
}

// Reset resets the iterator to the beginning, allowing re-iteration.
func (it *ChunkIterator) Reset() {
	it.current = 0
	it.err = nil
}

// ChunkDims returns the chunk dimensions.
func (it *ChunkIterator) ChunkDims() []uint64 {
	return it.chunkDims
}

// DatasetDims returns the dataset dimensions.
func (it *ChunkIterator) DatasetDims() []uint64 {
	return it.datasetDims
}
