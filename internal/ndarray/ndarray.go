// Package ndarray provides index arithmetic for dense arrays of rank 1 to 4
// stored in flat []float64 slices.
//
// Arrays are row-major (last axis varies fastest) unless a function says
// otherwise. Axis 0 therefore has the largest stride.
package ndarray

// Product returns the number of elements described by dims.
// It returns 0 for an empty dims slice.
func Product(dims []int) int {
	if len(dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// Strides returns the row-major element strides for dims.
func Strides(dims []int) []int {
	strides := make([]int, len(dims))
	s := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = s
		s *= dims[i]
	}
	return strides
}

// Split views dims as (outer, n, inner) around axis, where n = dims[axis],
// outer is the product of the leading extents and inner the product of the
// trailing extents. Element (o, i, r) lives at (o*n+i)*inner + r.
func Split(dims []int, axis int) (outer, n, inner int) {
	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= dims[i]
	}
	for i := axis + 1; i < len(dims); i++ {
		inner *= dims[i]
	}
	return outer, dims[axis], inner
}

// Lines returns the number of 1D lines running along axis.
func Lines(dims []int, axis int) int {
	outer, _, inner := Split(dims, axis)
	return outer * inner
}

// Line returns the flat start offset and stride of the k-th line along axis.
// Valid k range is [0, Lines(dims, axis)).
func Line(dims []int, axis, k int) (start, stride int) {
	_, n, inner := Split(dims, axis)
	o, r := k/inner, k%inner
	return o*n*inner + r, inner
}

// Gather copies len(dst) elements starting at start with the given stride
// into dst.
func Gather(dst, data []float64, start, stride int) {
	for i := range dst {
		dst[i] = data[start+i*stride]
	}
}

// Scatter is the inverse of Gather.
func Scatter(data, src []float64, start, stride int) {
	for i, v := range src {
		data[start+i*stride] = v
	}
}

// Permute reorders the axes of a row-major array. The returned array has
// extents outDims[a] = dims[perm[a]] and element out[j] = in[i] where
// i[perm[a]] = j[a]. perm must be a permutation of 0..len(dims)-1.
func Permute(data []float64, dims, perm []int) ([]float64, []int) {
	rank := len(dims)
	inStrides := Strides(dims)
	outDims := make([]int, rank)
	step := make([]int, rank)
	for a, p := range perm {
		outDims[a] = dims[p]
		step[a] = inStrides[p]
	}

	out := make([]float64, len(data))
	if len(out) == 0 {
		return out, outDims
	}

	idx := make([]int, rank)
	src := 0
	for o := range out {
		out[o] = data[src]
		for a := rank - 1; a >= 0; a-- {
			idx[a]++
			src += step[a]
			if idx[a] < outDims[a] {
				break
			}
			src -= step[a] * outDims[a]
			idx[a] = 0
		}
	}
	return out, outDims
}

// reversedPerm returns (rank-1, ..., 1, 0).
func reversedPerm(rank int) []int {
	perm := make([]int, rank)
	for i := range perm {
		perm[i] = rank - 1 - i
	}
	return perm
}

// ToColumnMajor returns a copy of the row-major array data laid out in
// column-major order (axis 0 varies fastest).
func ToColumnMajor(data []float64, dims []int) []float64 {
	out, _ := Permute(data, dims, reversedPerm(len(dims)))
	return out
}

// FromColumnMajor converts a column-major array with logical extents dims
// into canonical row-major order.
func FromColumnMajor(data []float64, dims []int) []float64 {
	rev := make([]int, len(dims))
	for i, d := range dims {
		rev[len(dims)-1-i] = d
	}
	out, _ := Permute(data, rev, reversedPerm(len(dims)))
	return out
}

// Reverse returns a copy of data with the order along axis reversed.
func Reverse(data []float64, dims []int, axis int) []float64 {
	outer, n, inner := Split(dims, axis)
	out := make([]float64, len(data))
	for o := 0; o < outer; o++ {
		for i := 0; i < n; i++ {
			src := (o*n + i) * inner
			dst := (o*n + n - 1 - i) * inner
			copy(out[dst:dst+inner], data[src:src+inner])
		}
	}
	return out
}

// SliceAxis returns the sub-array covering the inclusive index range
// [lo, hi] along axis together with its extents.
func SliceAxis(data []float64, dims []int, axis, lo, hi int) ([]float64, []int) {
	outer, n, inner := Split(dims, axis)
	m := hi - lo + 1
	out := make([]float64, outer*m*inner)
	for o := 0; o < outer; o++ {
		src := (o*n + lo) * inner
		dst := o * m * inner
		copy(out[dst:dst+m*inner], data[src:src+m*inner])
	}
	outDims := append([]int(nil), dims...)
	outDims[axis] = m
	return out, outDims
}
