// Package chunked implements the chunked-dataset read engine: stride
// arithmetic, chunk geometry, lazy filter-pipeline decoding, and full or
// sliced materialization of a chunked HDF5 dataset into row-major byte
// buffers.
package chunked

import (
	"errors"

	"github.com/strataio/h5chunk/internal/utils"
)

// Sentinel errors identifying the reader's error taxonomy. Wrap these with
// utils.WrapError to attach context; callers can still errors.Is against
// the sentinel.
var (
	// ErrChunkNotFound is returned by the per-chunk accessors when the
	// requested chunk offset has no entry in the chunk index.
	ErrChunkNotFound = errors.New("chunked: chunk not found")

	// ErrBackingRead is returned when a read against backing storage fails.
	ErrBackingRead = errors.New("chunked: backing storage read failed")

	// ErrFilterInit is returned when filter-pipeline construction fails.
	// The failure is cached and replayed to every subsequent caller; the
	// initializer is never retried.
	ErrFilterInit = errors.New("chunked: filter pipeline initialization failed")

	// ErrFilterDecode is returned when a filter pipeline fails to decode a
	// chunk's bytes. The reader remains usable for other chunks.
	ErrFilterDecode = errors.New("chunked: filter pipeline decode failed")

	// ErrDimensionOverflow is returned when checked stride/size arithmetic
	// would overflow.
	ErrDimensionOverflow = errors.New("chunked: dimension arithmetic overflow")
)

func wrapf(sentinel error, context string, cause error) error {
	if cause == nil {
		return utils.WrapError(context, sentinel)
	}
	return utils.WrapError(context, errors.Join(sentinel, cause))
}
