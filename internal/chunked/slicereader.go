package chunked

import "github.com/strataio/h5chunk/internal/utils"

// SliceReader materializes a rectangular hyperslab of a chunked dataset.
// It is single-threaded by contract: per-chunk writes land in disjoint
// slice-local rectangles, so a caller wanting parallelism may fan out over
// chunks itself, but SliceReader does not do so internally.
type SliceReader struct {
	dims      []uint64
	chunkDims []uint64
	elemSize  uint64
	decoder   *ChunkDecoder
}

// NewSliceReader builds a SliceReader over the given dataset/chunk shape.
func NewSliceReader(dims, chunkDims []uint64, elemSize uint64, decoder *ChunkDecoder) *SliceReader {
	return &SliceReader{dims: dims, chunkDims: chunkDims, elemSize: elemSize, decoder: decoder}
}

// Read returns a row-major byte buffer of length product(sliceShape)*elemSize
// containing the requested hyperslab. sliceOffset is absolute element
// coordinates; sliceShape is the per-dimension extent. Chunks absent from
// the index are silently skipped: the output bytes for uncovered positions
// remain at their zero-initialized default.
func (sr *SliceReader) Read(chunks map[ChunkOffset]Chunk, sliceOffset []uint64, sliceShape []uint64) ([]byte, error) {
	r := len(sr.dims)

	totalElems := uint64(1)
	for _, s := range sliceShape {
		v, err := utils.SafeMultiply(totalElems, s)
		if err != nil {
			return nil, wrapf(ErrDimensionOverflow, "slice length", err)
		}
		totalElems = v
	}
	totalBytes, err := utils.SafeMultiply(totalElems, sr.elemSize)
	if err != nil {
		return nil, wrapf(ErrDimensionOverflow, "slice byte length", err)
	}
	out := make([]byte, totalBytes)

	sliceStrides, err := strides(sliceShape)
	if err != nil {
		return nil, err
	}
	chunkStrides, err := strides(sr.chunkDims)
	if err != nil {
		return nil, err
	}

	startChunk := make([]uint64, r)
	endChunk := make([]uint64, r)
	for d := 0; d < r; d++ {
		startChunk[d] = sliceOffset[d] / sr.chunkDims[d]
		endChunk[d] = (sliceOffset[d] + sliceShape[d] - 1) / sr.chunkDims[d]
	}

	var walkErr error
	walkChunkCoords(startChunk, endChunk, func(coord []uint64) bool {
		chunkOffset := make([]uint64, r)
		for d := 0; d < r; d++ {
			chunkOffset[d] = coord[d] * sr.chunkDims[d]
		}

		chunk, ok := chunks[NewChunkOffset(chunkOffset)]
		if !ok {
			return true
		}

		if err := sr.copyChunkIntersection(chunk, sliceOffset, sliceShape, chunkStrides, sliceStrides, out); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return out, nil
}

// copyChunkIntersection computes the intersection rectangle between chunk
// and the requested slice, then walks it element by element, translating
// into chunk-local and slice-local origins.
func (sr *SliceReader) copyChunkIntersection(chunk Chunk, sliceOffset, sliceShape, chunkStrides, sliceStrides []uint64, out []byte) error {
	r := len(sr.dims)

	data, err := sr.decoder.Decompressed(chunk)
	if err != nil {
		return err
	}

	intersectStart := make([]uint64, r)
	copyShape := make([]uint64, r)
	chunkStart := make([]uint64, r)
	sliceStart := make([]uint64, r)

	for d := 0; d < r; d++ {
		start := max64(sliceOffset[d], chunk.Offset[d])
		end := min64(sliceOffset[d]+sliceShape[d], chunk.Offset[d]+sr.chunkDims[d])
		if end <= start {
			return nil
		}
		intersectStart[d] = start
		copyShape[d] = end - start
		chunkStart[d] = start - chunk.Offset[d]
		sliceStart[d] = start - sliceOffset[d]
	}

	total := uint64(1)
	for _, s := range copyShape {
		total *= s
	}

	for linear := uint64(0); linear < total; linear++ {
		idx := decomposeIndex(linear, copyShape)

		var chunkIdx, sliceIdx uint64
		for d := 0; d < r; d++ {
			chunkIdx += (chunkStart[d] + idx[d]) * chunkStrides[d]
			sliceIdx += (sliceStart[d] + idx[d]) * sliceStrides[d]
		}

		srcOff := chunkIdx * sr.elemSize
		dstOff := sliceIdx * sr.elemSize
		if srcOff+sr.elemSize > uint64(len(data)) || dstOff+sr.elemSize > uint64(len(out)) {
			continue
		}
		copy(out[dstOff:dstOff+sr.elemSize], data[srcOff:srcOff+sr.elemSize])
	}

	return nil
}

// walkChunkCoords enumerates the Cartesian product of [startChunk[d] ..
// endChunk[d]] in row-major order, calling visit for each coordinate tuple
// until it returns false.
func walkChunkCoords(start, end []uint64, visit func(coord []uint64) bool) {
	r := len(start)
	coord := append([]uint64(nil), start...)

	for {
		if !visit(coord) {
			return
		}

		d := r - 1
		for d >= 0 {
			coord[d]++
			if coord[d] <= end[d] {
				break
			}
			coord[d] = start[d]
			d--
		}
		if d < 0 {
			return
		}
	}
}

// decomposeIndex converts a row-major linear index into a multi-index for shape.
func decomposeIndex(linear uint64, shape []uint64) []uint64 {
	r := len(shape)
	idx := make([]uint64, r)
	for d := r - 1; d >= 0; d-- {
		idx[d] = linear % shape[d]
		linear /= shape[d]
	}
	return idx
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
