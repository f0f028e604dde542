package igor

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Igor wave type codes for the supported real element types.
const (
	typeFloat32 = 0x02
	typeFloat64 = 0x04
	typeInt8    = 0x08
	typeInt16   = 0x10
	typeInt32   = 0x20
)

// element is the set of fixed-size types a wave may store.
type element interface {
	constraints.Signed | constraints.Float
}

func typeCode(t spectrum.DataType) int16 {
	switch t {
	case spectrum.Float32:
		return typeFloat32
	case spectrum.Int8:
		return typeInt8
	case spectrum.Int16:
		return typeInt16
	case spectrum.Int32:
		return typeInt32
	}
	return typeFloat64
}

func dataType(code int16) (spectrum.DataType, error) {
	switch code {
	case typeFloat32:
		return spectrum.Float32, nil
	case typeFloat64:
		return spectrum.Float64, nil
	case typeInt8:
		return spectrum.Int8, nil
	case typeInt16:
		return spectrum.Int16, nil
	case typeInt32:
		return spectrum.Int32, nil
	}
	return 0, errors.Wrapf(ErrElementType, "type code %#x", code)
}

func decodeAs[T element](b []byte, n int) ([]float64, error) {
	raw := make([]T, n)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, raw); err != nil {
		return nil, errors.Wrapf(ErrTruncated, "wave data: %v", err)
	}
	out := make([]float64, n)
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}

// decodeElements converts n little-endian elements of type t to float64.
func decodeElements(t spectrum.DataType, b []byte, n int) ([]float64, error) {
	switch t {
	case spectrum.Float32:
		return decodeAs[float32](b, n)
	case spectrum.Int8:
		return decodeAs[int8](b, n)
	case spectrum.Int16:
		return decodeAs[int16](b, n)
	case spectrum.Int32:
		return decodeAs[int32](b, n)
	}
	return decodeAs[float64](b, n)
}

func encodeAs[T element](vals []float64, integer bool) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		if integer {
			v = math.Round(v)
			if math.IsNaN(v) {
				v = 0
			}
		}
		out[i] = T(v)
	}
	return out
}

// encodeElements narrows vals to the element type t. Integer types round to
// the nearest value and store NaN as zero.
func encodeElements(t spectrum.DataType, vals []float64) any {
	switch t {
	case spectrum.Float32:
		return encodeAs[float32](vals, false)
	case spectrum.Int8:
		return encodeAs[int8](vals, true)
	case spectrum.Int16:
		return encodeAs[int16](vals, true)
	case spectrum.Int32:
		return encodeAs[int32](vals, true)
	}
	return encodeAs[float64](vals, false)
}
