package chunked

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strataio/h5chunk/internal/core"
)

func TestReaderAtStorageMapReadsExactRange(t *testing.T) {
	backing := readerAt{data: []byte{0, 1, 2, 3, 4, 5, 6, 7}}
	storage := ReaderAtStorage{R: backing}

	got, err := storage.Map(2, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4, 5}, got)
}

func TestReaderAtStorageMapWrapsReadFailure(t *testing.T) {
	storage := ReaderAtStorage{R: failingReaderAt{}}

	_, err := storage.Map(0, 4)
	require.Error(t, err)
}

func TestHeaderFilterViewReflectsPresence(t *testing.T) {
	absent := HeaderFilterView{}
	require.False(t, absent.HasFilterPipeline())
	require.Nil(t, absent.FilterPipelineMessage())

	msg := &core.FilterPipelineMessage{Version: 1, NumFilters: 1, Filters: []core.Filter{{ID: core.FilterFletcher}}}
	present := HeaderFilterView{Message: msg}
	require.True(t, present.HasFilterPipeline())
	require.Same(t, msg, present.FilterPipelineMessage())
}

func TestCoreFilterManagerReturnsNoFiltersForNilMessage(t *testing.T) {
	pipeline, err := FilterManagerInstance.GetPipeline(nil)
	require.NoError(t, err)
	require.Equal(t, NoFilters, pipeline)
}

func TestCoreFilterManagerWrapsFletcherPipeline(t *testing.T) {
	msg := &core.FilterPipelineMessage{
		Version:    1,
		NumFilters: 1,
		Filters:    []core.Filter{{ID: core.FilterFletcher}},
	}
	pipeline, err := FilterManagerInstance.GetPipeline(msg)
	require.NoError(t, err)

	decoded, err := pipeline.Decode([]byte{10, 20, 30, 0, 0, 0, 0}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{10, 20, 30}, decoded)
}

func TestCoreFilterManagerHonorsFilterMask(t *testing.T) {
	msg := &core.FilterPipelineMessage{
		Version:    1,
		NumFilters: 1,
		Filters:    []core.Filter{{ID: core.FilterFletcher}},
	}
	pipeline, err := FilterManagerInstance.GetPipeline(msg)
	require.NoError(t, err)

	// Bit 0 set: filter at pipeline index 0 was not applied when this chunk
	// was written, so Decode must return the bytes verbatim rather than
	// stripping the last 4 as a checksum.
	decoded, err := pipeline.Decode([]byte{10, 20, 30, 0, 0, 0, 0}, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{10, 20, 30, 0, 0, 0, 0}, decoded)
}

type failingReaderAt struct{}

func (failingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
