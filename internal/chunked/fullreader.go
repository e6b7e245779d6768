package chunked

import (
	"github.com/strataio/h5chunk/internal/utils"
	"golang.org/x/sync/errgroup"
)

// FullReader materializes an entire chunked dataset as a single row-major
// byte buffer by fanning out one decode-and-copy task per chunk.
type FullReader struct {
	dims      []uint64
	chunkDims []uint64
	elemSize  uint64
	decoder   *ChunkDecoder
	geometry  *ChunkGeometry
	datasetStride *StrideCalculator
	offsets   *InternalOffsetTable
}

// NewFullReader builds a FullReader over the given dataset/chunk shape.
func NewFullReader(dims, chunkDims []uint64, elemSize uint64, decoder *ChunkDecoder) (*FullReader, error) {
	datasetStride, err := NewStrideCalculator(dims)
	if err != nil {
		return nil, err
	}
	offsets, err := NewInternalOffsetTable(dims, chunkDims, elemSize)
	if err != nil {
		return nil, err
	}
	return &FullReader{
		dims:          dims,
		chunkDims:     chunkDims,
		elemSize:      elemSize,
		decoder:       decoder,
		geometry:      NewChunkGeometry(dims, chunkDims),
		datasetStride: datasetStride,
		offsets:       offsets,
	}, nil
}

// Read returns a byte buffer of length product(dims)*elemSize containing
// the full dataset, decoding each chunk in parallel. The first observed
// per-chunk failure is returned; the output buffer is only valid once Read
// returns nil.
func (fr *FullReader) Read(chunks map[ChunkOffset]Chunk) ([]byte, error) {
	totalElems := uint64(1)
	for _, d := range fr.dims {
		v, err := utils.SafeMultiply(totalElems, d)
		if err != nil {
			return nil, wrapf(ErrDimensionOverflow, "full dataset length", err)
		}
		totalElems = v
	}
	totalBytes, err := utils.SafeMultiply(totalElems, fr.elemSize)
	if err != nil {
		return nil, wrapf(ErrDimensionOverflow, "full dataset byte length", err)
	}

	out := make([]byte, totalBytes)

	var g errgroup.Group
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			return fr.fillFromChunk(chunk, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fillFromChunk decodes chunk and copies its contiguous runs into out.
// Distinct chunks write to disjoint byte ranges of out — their logical
// tiles are disjoint and each copy targets that tile's image in row-major
// layout — so concurrent unsynchronized writes from fan-out goroutines are
// safe; errgroup.Wait provides the happens-before join before Read returns.
func (fr *FullReader) fillFromChunk(chunk Chunk, out []byte) error {
	data, err := fr.decoder.Decompressed(chunk)
	if err != nil {
		return err
	}

	initialChunkOffset, err := fr.datasetStride.IndexToLinear(chunk.Offset)
	if err != nil {
		return err
	}

	fastest := fr.geometry.FastestDim()
	partial := fr.geometry.IsPartial(chunk.Offset)
	outElems := uint64(len(out)) / fr.elemSize

	for i, internalOff := range fr.offsets.ChunkInternalOffsets {
		dataOffset := fr.offsets.DataOffsets[i]

		if !partial {
			fr.copyRun(data, out, internalOff, dataOffset+initialChunkOffset, fastest)
			continue
		}

		// Preserves the source's conservative element-count-vs-byte-length
		// comparison rather than tightening it to an element-count check.
		if dataOffset > uint64(len(out)) {
			continue
		}
		if fr.geometry.PartOfChunkIsOutsideDataset(internalOff/fr.elemSize, chunk.Offset) {
			continue
		}

		length := fastest
		lastDim := len(chunk.Offset) - 1
		overhang := chunk.Offset[lastDim] + fr.chunkDims[lastDim]
		if overhang > fr.dims[lastDim] {
			trimmed := fastest - (overhang - fr.dims[lastDim])
			if trimmed < length {
				length = trimmed
			}
		}
		if dataOffset+initialChunkOffset+length > outElems {
			if dataOffset+initialChunkOffset >= outElems {
				continue
			}
			length = outElems - (dataOffset + initialChunkOffset)
		}
		fr.copyRun(data, out, internalOff, dataOffset+initialChunkOffset, length)
	}

	return nil
}

func (fr *FullReader) copyRun(src, dst []byte, srcElemOffset, dstElemOffset, lengthElems uint64) {
	srcByteOff := srcElemOffset
	dstByteOff := dstElemOffset * fr.elemSize
	n := lengthElems * fr.elemSize
	if srcByteOff+n > uint64(len(src)) || dstByteOff+n > uint64(len(dst)) {
		return
	}
	copy(dst[dstByteOff:dstByteOff+n], src[srcByteOff:srcByteOff+n])
}
