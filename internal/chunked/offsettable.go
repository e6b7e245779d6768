package chunked

import "github.com/strataio/h5chunk/internal/utils"

// InternalOffsetTable precomputes, for a fixed chunk shape, the starts of
// every contiguous run along the fastest dimension: one run per distinct
// combination of the non-fastest dimensions. A single table is valid for
// every chunk in the dataset because all chunks share chunkDims.
type InternalOffsetTable struct {
	// ChunkInternalOffsets[i] is the byte offset inside a chunk at which
	// run i begins.
	ChunkInternalOffsets []uint64
	// DataOffsets[i] is the element-count offset, relative to a chunk's
	// dataset origin, at which run i begins.
	DataOffsets []uint64
}

// NewInternalOffsetTable builds the table for chunks of shape chunkDims in
// a dataset of shape dims, with elemSize bytes per element.
func NewInternalOffsetTable(dims, chunkDims []uint64, elemSize uint64) (*InternalOffsetTable, error) {
	r := len(chunkDims)
	if r == 0 {
		return &InternalOffsetTable{
			ChunkInternalOffsets: []uint64{0},
			DataOffsets:          []uint64{0},
		}, nil
	}

	runs := uint64(1)
	for i := 0; i < r-1; i++ {
		v, err := utils.SafeMultiply(runs, chunkDims[i])
		if err != nil {
			return nil, wrapf(ErrDimensionOverflow, "offset table run count", err)
		}
		runs = v
	}

	fastest := chunkDims[r-1]

	chunkStride, err := NewStrideCalculator(chunkDims)
	if err != nil {
		return nil, err
	}

	dimLin := make([]uint64, r)
	dimLin[r-1] = 1
	for d := r - 2; d >= 0; d-- {
		v, err := utils.SafeMultiply(dimLin[d+1], dims[d+1])
		if err != nil {
			return nil, wrapf(ErrDimensionOverflow, "dataset dimension stride", err)
		}
		dimLin[d] = v
	}

	internalOffsets := make([]uint64, runs)
	dataOffsets := make([]uint64, runs)

	for i := uint64(0); i < runs; i++ {
		runElemStart := i * fastest
		internalOffsets[i] = runElemStart * elemSize

		idx := chunkStride.LinearToIndex(runElemStart)
		var lin uint64
		for d := 0; d < r; d++ {
			term, err := utils.SafeMultiply(idx[d], dimLin[d])
			if err != nil {
				return nil, wrapf(ErrDimensionOverflow, "data offset computation", err)
			}
			lin += term
		}
		dataOffsets[i] = lin
	}

	return &InternalOffsetTable{
		ChunkInternalOffsets: internalOffsets,
		DataOffsets:          dataOffsets,
	}, nil
}
