package chunked

import "github.com/strataio/h5chunk/internal/utils"

// StrideCalculator provides row-major linear-offset arithmetic over
// n-dimensional shapes. All arithmetic is checked; overflow is fatal.
type StrideCalculator struct {
	shape   []uint64
	strides []uint64
}

// NewStrideCalculator computes the row-major strides for shape once, so
// repeated index conversions don't recompute them.
func NewStrideCalculator(shape []uint64) (*StrideCalculator, error) {
	strides, err := strides(shape)
	if err != nil {
		return nil, err
	}
	return &StrideCalculator{shape: shape, strides: strides}, nil
}

// Strides returns the precomputed row-major strides.
func (s *StrideCalculator) Strides() []uint64 { return s.strides }

// LinearToIndex converts a linear element offset k into a multi-index.
func (s *StrideCalculator) LinearToIndex(k uint64) []uint64 {
	return linearToIndex(k, s.shape, s.strides)
}

// IndexToLinear converts a multi-index into a linear element offset.
func (s *StrideCalculator) IndexToLinear(idx []uint64) (uint64, error) {
	return indexToLinear(idx, s.strides)
}

// strides computes row-major strides for shape: s[R-1]=1, s[i]=s[i+1]*shape[i+1].
func strides(shape []uint64) ([]uint64, error) {
	r := len(shape)
	out := make([]uint64, r)
	if r == 0 {
		return out, nil
	}
	out[r-1] = 1
	for i := r - 2; i >= 0; i-- {
		v, err := utils.SafeMultiply(out[i+1], shape[i+1])
		if err != nil {
			return nil, wrapf(ErrDimensionOverflow, "stride computation", err)
		}
		out[i] = v
	}
	return out, nil
}

// linearToIndex converts linear offset k into the multi-index
// idx[d] = (k / s[d]) mod shape[d].
func linearToIndex(k uint64, shape, strides []uint64) []uint64 {
	idx := make([]uint64, len(shape))
	for d := range shape {
		if strides[d] == 0 {
			idx[d] = 0
			continue
		}
		idx[d] = (k / strides[d]) % shape[d]
	}
	return idx
}

// indexToLinear converts a multi-index into a linear offset: Σ idx[d]*s[d].
func indexToLinear(idx, strides []uint64) (uint64, error) {
	var total uint64
	for d := range idx {
		term, err := utils.SafeMultiply(idx[d], strides[d])
		if err != nil {
			return 0, wrapf(ErrDimensionOverflow, "index-to-linear conversion", err)
		}
		next := total + term
		if next < total {
			return 0, wrapf(ErrDimensionOverflow, "index-to-linear conversion", nil)
		}
		total = next
	}
	return total, nil
}
