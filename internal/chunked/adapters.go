package chunked

import (
	"fmt"
	"io"

	"github.com/strataio/h5chunk/internal/core"
)

// ReaderAtStorage adapts an io.ReaderAt (typically the open *os.File) to
// BackingStorage. The core never closes it; its lifetime is owned by the
// enclosing file handle.
type ReaderAtStorage struct {
	R io.ReaderAt
}

// Map reads exactly size bytes at address.
func (s ReaderAtStorage) Map(address uint64, size uint64) ([]byte, error) {
	buf := make([]byte, size)
	//nolint:gosec // G115: HDF5 addresses fit in int64 for io.ReaderAt interface
	if _, err := s.R.ReadAt(buf, int64(address)); err != nil {
		return nil, fmt.Errorf("backing storage read at 0x%x (%d bytes): %w", address, size, err)
	}
	return buf, nil
}

// HeaderFilterView adapts an object header's filter-pipeline message
// lookup to the core's ObjectHeader interface, without exposing any other
// message type.
type HeaderFilterView struct {
	Message *core.FilterPipelineMessage
}

// HasFilterPipeline reports whether a filter-pipeline message is present.
func (h HeaderFilterView) HasFilterPipeline() bool { return h.Message != nil }

// FilterPipelineMessage returns the parsed filter-pipeline message, or nil.
func (h HeaderFilterView) FilterPipelineMessage() any { return h.Message }

// coreFilterManager constructs a FilterPipeline wrapping a parsed
// core.FilterPipelineMessage. It is the sole FilterManager implementation;
// codec selection is fixed by the HDF5 filter-pipeline message itself, not
// by any pluggable policy.
type coreFilterManager struct{}

// FilterManagerInstance is the shared, stateless FilterManager.
var FilterManagerInstance FilterManager = coreFilterManager{}

func (coreFilterManager) GetPipeline(message any) (FilterPipeline, error) {
	msg, ok := message.(*core.FilterPipelineMessage)
	if !ok || msg == nil {
		return NoFilters, nil
	}
	return corePipeline{msg: msg}, nil
}

// corePipeline adapts core.FilterPipelineMessage.ApplyFiltersWithMask to
// the chunked.FilterPipeline interface.
type corePipeline struct {
	msg *core.FilterPipelineMessage
}

func (p corePipeline) Decode(raw []byte, filterMask uint32) ([]byte, error) {
	return p.msg.ApplyFiltersWithMask(raw, filterMask)
}
