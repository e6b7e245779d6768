package chunked

import (
	"fmt"
	"strconv"
	"strings"
)

// ChunkOffset is the logical dataset coordinates of a chunk's lowest-index
// element, in element units (not bytes), encoded as a comma-joined string so
// the type stays comparable and usable as a map key (a []uint64 field would
// not be). Use NewChunkOffset to construct and Coords to decode.
type ChunkOffset struct {
	key string
}

// NewChunkOffset builds a ChunkOffset from per-dimension element coordinates.
func NewChunkOffset(coords []uint64) ChunkOffset {
	return ChunkOffset{key: encodeOffsetKey(coords)}
}

// Coords decodes the per-dimension element coordinates.
func (o ChunkOffset) Coords() []uint64 {
	if o.key == "" {
		return nil
	}
	parts := strings.Split(o.key, ",")
	coords := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil
		}
		coords[i] = v
	}
	return coords
}

func (o ChunkOffset) String() string {
	return o.key
}

func encodeOffsetKey(dims []uint64) string {
	var b strings.Builder
	for i, d := range dims {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", d)
	}
	return b.String()
}

// Chunk describes one on-disk storage tile of a chunked dataset.
type Chunk struct {
	// Offset is the chunk's logical dataset coordinates, in elements.
	Offset []uint64
	// Address is the byte offset in backing storage where the chunk's raw
	// (possibly filtered) bytes begin.
	Address uint64
	// Size is the on-disk byte length of the chunk.
	Size uint64
	// FilterMask records which pipeline stages were skipped when this
	// particular chunk was written (HDF5 B-tree v1 chunk key field); bit i
	// set means filter i must not be applied during decode.
	FilterMask uint32
}

// BackingStorage is a random-access byte-range source over a file or
// other opaque backing medium. The core never closes it; lifetime is
// owned by the enclosing file handle.
type BackingStorage interface {
	// Map returns exactly size bytes read starting at address.
	Map(address uint64, size uint64) ([]byte, error)
}

// FilterPipeline decodes on-disk chunk bytes into decompressed element
// bytes. NoFilters is the identity pipeline.
type FilterPipeline interface {
	// Decode reverses the pipeline's forward (write-side) transforms,
	// honoring filterMask for filters not applied to a particular chunk.
	Decode(raw []byte, filterMask uint32) ([]byte, error)
}

// FilterManager constructs a FilterPipeline from a dataset's parsed
// filter-pipeline object-header message, or nil if the dataset has none.
type FilterManager interface {
	GetPipeline(message any) (FilterPipeline, error)
}

// ObjectHeader exposes just enough of the parsed object header for the
// core to find a filter-pipeline message, without interpreting any other
// message type.
type ObjectHeader interface {
	HasFilterPipeline() bool
	FilterPipelineMessage() any
}

// ChunkIndex is the one capability a chunk-index variant (B-tree v1/v2,
// single-chunk, fixed-array, extensible-array) must supply: a mapping from
// logical chunk offset to on-disk chunk descriptor.
type ChunkIndex interface {
	Lookup() (map[ChunkOffset]Chunk, error)
}
