package spectrum

import "fmt"

// MaxDims is the highest supported rank.
const MaxDims = 4

// Axis identifies one of the four data axes.
type Axis int

const (
	// NoAxis marks an unset axis tag.
	NoAxis Axis = iota - 1
	X
	Y
	Z
	T
)

var axisNames = [MaxDims]string{"X", "Y", "Z", "T"}

// String returns "X", "Y", "Z", "T" or "" for NoAxis.
func (a Axis) String() string {
	if a < X || a > T {
		return ""
	}
	return axisNames[a]
}

// Valid reports whether a names one of the four axes.
func (a Axis) Valid() bool {
	return a >= X && a <= T
}

// ParseAxis parses an axis letter. The empty string and "N" map to NoAxis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "", "N", "None":
		return NoAxis, nil
	case "X", "x":
		return X, nil
	case "Y", "y":
		return Y, nil
	case "Z", "z":
		return Z, nil
	case "T", "t":
		return T, nil
	}
	return NoAxis, fmt.Errorf("%w: axis %q", ErrParse, s)
}

// SpaceMode tags whether axes carry emission angles or momenta.
type SpaceMode int

const (
	SpaceNone SpaceMode = iota
	Angular
	Momentum
)

// String returns "Angular", "Momentum" or "" for SpaceNone.
func (m SpaceMode) String() string {
	switch m {
	case Angular:
		return "Angular"
	case Momentum:
		return "Momentum"
	}
	return ""
}

// ParseSpaceMode parses the property/note spelling of a space mode.
func ParseSpaceMode(s string) (SpaceMode, error) {
	switch s {
	case "", "None":
		return SpaceNone, nil
	case "Angular":
		return Angular, nil
	case "Momentum":
		return Momentum, nil
	}
	return SpaceNone, fmt.Errorf("%w: spacemode %q", ErrParse, s)
}

// DataType is the element type used when the data array is persisted.
// In memory all elements are float64.
type DataType int

const (
	Float64 DataType = iota
	Float32
	Int8
	Int16
	Int32
)

// Size returns the element size in bytes.
func (t DataType) Size() int {
	switch t {
	case Float32, Int32:
		return 4
	case Int16:
		return 2
	case Int8:
		return 1
	}
	return 8
}

func (t DataType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	}
	return "float64"
}
