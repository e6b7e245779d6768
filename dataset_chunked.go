package hdf5

import (
	"errors"
	"fmt"

	"github.com/strataio/h5chunk/internal/chunked"
	"github.com/strataio/h5chunk/internal/core"
)

// newChunkedReader builds the chunked-dataset read engine for a dataset
// whose data-layout message reports a chunked class. It wires the file's
// backing storage, the dataset's filter-pipeline message (if any), and a
// B-tree v1 chunk index into internal/chunked.ChunkedDatasetReader. It also
// returns the dataset and chunk shapes so callers that need them (such as
// ChunkIterator) don't have to re-parse the dataspace/layout messages.
func (d *Dataset) newChunkedReader(header *core.ObjectHeader) (reader *chunked.ChunkedDatasetReader, datatype *core.DatatypeMessage, elemSize uint64, dims, chunkDims []uint64, err error) {
	var datatypeMsg, dataspaceMsg, layoutMsg, filterMsg *core.HeaderMessage
	for _, msg := range header.Messages {
		switch msg.Type {
		case core.MsgDatatype:
			datatypeMsg = msg
		case core.MsgDataspace:
			dataspaceMsg = msg
		case core.MsgDataLayout:
			layoutMsg = msg
		case core.MsgFilterPipeline:
			filterMsg = msg
		}
	}
	if datatypeMsg == nil || dataspaceMsg == nil || layoutMsg == nil {
		return nil, nil, 0, nil, nil, errors.New("dataset missing datatype, dataspace, or layout message")
	}

	datatype, err = core.ParseDatatypeMessage(datatypeMsg.Data)
	if err != nil {
		return nil, nil, 0, nil, nil, fmt.Errorf("parse datatype: %w", err)
	}
	dataspace, err := core.ParseDataspaceMessage(dataspaceMsg.Data)
	if err != nil {
		return nil, nil, 0, nil, nil, fmt.Errorf("parse dataspace: %w", err)
	}
	layout, err := core.ParseDataLayoutMessage(layoutMsg.Data, d.file.sb)
	if err != nil {
		return nil, nil, 0, nil, nil, fmt.Errorf("parse layout: %w", err)
	}
	if !layout.IsChunked() {
		return nil, nil, 0, nil, nil, errors.New("dataset layout is not chunked")
	}

	var filterPipelineMsg *core.FilterPipelineMessage
	if filterMsg != nil {
		filterPipelineMsg, err = core.ParseFilterPipelineMessage(filterMsg.Data)
		if err != nil {
			return nil, nil, 0, nil, nil, fmt.Errorf("parse filter pipeline: %w", err)
		}
	}

	elemSize = uint64(datatype.Size)
	dims = dataspace.Dimensions
	chunkDims = layout.ChunkSize
	index := chunked.NewBTreeV1Index(d.file.osFile, layout.DataAddress, d.file.sb.OffsetSize, chunkDims)

	reader, err = chunked.New(
		dims,
		chunkDims,
		elemSize,
		chunked.ReaderAtStorage{R: d.file.osFile},
		chunked.HeaderFilterView{Message: filterPipelineMsg},
		chunked.FilterManagerInstance,
		index,
	)
	if err != nil {
		return nil, nil, 0, nil, nil, err
	}

	return reader, datatype, elemSize, dims, chunkDims, nil
}

// ReadChunkedFull materializes an entire chunked dataset via the
// chunk-parallel full-dataset read engine, then converts the resulting
// bytes to float64 the same way Read() does for non-chunked layouts.
func (d *Dataset) ReadChunkedFull() ([]float64, error) {
	header, err := core.ReadObjectHeader(d.file.osFile, d.address, d.file.sb)
	if err != nil {
		return nil, err
	}

	reader, datatype, elemSize, _, _, err := d.newChunkedReader(header)
	if err != nil {
		return nil, err
	}

	raw, err := reader.DataBuffer()
	if err != nil {
		return nil, err
	}

	numElements := uint64(len(raw)) / elemSize
	return convertToFloat64(raw, datatype, numElements)
}

// ReadRectSlice reads a unit-stride, unit-block rectangular hyperslab
// (offset + shape, no stride/block selection) from a chunked dataset via
// the core SliceReader. Strided or blocked selections still go through
// ReadHyperslab's generalized chunk-overlap path.
func (d *Dataset) ReadRectSlice(offset, shape []uint64) ([]float64, error) {
	header, err := core.ReadObjectHeader(d.file.osFile, d.address, d.file.sb)
	if err != nil {
		return nil, err
	}

	reader, datatype, elemSize, _, _, err := d.newChunkedReader(header)
	if err != nil {
		return nil, err
	}

	raw, err := reader.SliceDataBuffer(offset, shape)
	if err != nil {
		return nil, err
	}

	numElements := uint64(len(raw)) / elemSize
	return convertToFloat64(raw, datatype, numElements)
}
