package chunked

// fakeStorage serves fixed byte ranges for tests, keyed by address, mimicking
// a backing file without touching the filesystem.
type fakeStorage struct {
	data []byte
}

func (f fakeStorage) Map(address, size uint64) ([]byte, error) {
	if address+size > uint64(len(f.data)) {
		return nil, errBoundsFake
	}
	return f.data[address : address+size], nil
}

type fakeHeader struct {
	has bool
	msg any
}

func (h fakeHeader) HasFilterPipeline() bool { return h.has }
func (h fakeHeader) FilterPipelineMessage() any { return h.msg }

type fakeManager struct {
	pipeline FilterPipeline
	err      error
}

func (m fakeManager) GetPipeline(_ any) (FilterPipeline, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pipeline, nil
}

type fakeIndex struct {
	chunks map[ChunkOffset]Chunk
	err    error
}

func (idx fakeIndex) Lookup() (map[ChunkOffset]Chunk, error) {
	if idx.err != nil {
		return nil, idx.err
	}
	return idx.chunks, nil
}

// doublingFilter keeps every other byte of its input, undoing a 2x byte
// duplication, used to exercise the non-identity decode path in tests.
type doublingFilter struct{}

func (doublingFilter) Decode(raw []byte, _ uint32) ([]byte, error) {
	// Every byte in raw is duplicated; decode halves it back.
	out := make([]byte, len(raw)/2)
	for i := range out {
		out[i] = raw[i*2]
	}
	return out, nil
}

var errBoundsFake = errOutOfRangeFake{}

type errOutOfRangeFake struct{}

func (errOutOfRangeFake) Error() string { return "fake storage: address/size out of range" }
