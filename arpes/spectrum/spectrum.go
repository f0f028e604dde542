package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-arpes/internal/ndarray"
)

var (
	// ErrShape is returned when data, extents and scales disagree.
	ErrShape = errors.New("spectrum: inconsistent shape")
	// ErrMissingProperty is returned by ReadProperty when a required key is absent.
	ErrMissingProperty = errors.New("spectrum: missing property")
	// ErrParse is returned when a property value cannot be parsed.
	ErrParse = errors.New("spectrum: parse error")
)

// AxisInfo holds the scale of one axis and its cached summary.
type AxisInfo struct {
	Scale []float64
	Min   float64
	Max   float64
	Step  float64
}

// Spectrum is a 1D–4D measurement with per-axis physical scales.
type Spectrum struct {
	Name string
	// Data is row-major over Dimension.
	Data      []float64
	Dimension []int
	Axes      [MaxDims]AxisInfo

	SpaceMode  SpaceMode
	EnergyAxis Axis
	DataType   DataType

	Property *Property
	Note     string

	raw         checkpoint
	rawDataFlag bool
}

type checkpoint struct {
	data     []float64
	scales   [MaxDims][]float64
	property *Property
}

// Option configures New.
type Option func(*config)

type config struct {
	scales     [MaxDims][]float64
	spaceMode  SpaceMode
	energyAxis Axis
	dataType   DataType
	note       string
}

// WithScale sets the scale of one axis.
func WithScale(axis Axis, scale []float64) Option {
	return func(c *config) {
		if axis.Valid() {
			c.scales[axis] = scale
		}
	}
}

// WithScales sets the scales of the leading axes in x, y, z, t order.
// Nil entries are skipped.
func WithScales(scales ...[]float64) Option {
	return func(c *config) {
		for i, s := range scales {
			if i < MaxDims && s != nil {
				c.scales[i] = s
			}
		}
	}
}

// WithSpaceMode sets the space mode.
func WithSpaceMode(m SpaceMode) Option {
	return func(c *config) { c.spaceMode = m }
}

// WithEnergyAxis tags the axis carrying kinetic energy.
func WithEnergyAxis(a Axis) Option {
	return func(c *config) { c.energyAxis = a }
}

// WithDataType sets the persisted element type.
func WithDataType(t DataType) Option {
	return func(c *config) { c.dataType = t }
}

// WithNote sets the free-form note.
func WithNote(note string) Option {
	return func(c *config) { c.note = note }
}

// New creates a Spectrum that takes ownership of data. dimension lists the
// extents in x, y, z, t order. Axes without an explicit scale get the index
// scale 0..n-1. The initial state is committed as the checkpoint.
func New(name string, data []float64, dimension []int, opts ...Option) (*Spectrum, error) {
	cfg := config{energyAxis: NoAxis}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := checkShape(data, dimension); err != nil {
		return nil, err
	}

	s := &Spectrum{
		Name:       name,
		Data:       data,
		Dimension:  append([]int(nil), dimension...),
		SpaceMode:  cfg.spaceMode,
		EnergyAxis: cfg.energyAxis,
		DataType:   cfg.dataType,
		Property:   NewProperty(),
		Note:       cfg.note,
	}

	for i := range MaxDims {
		scale := cfg.scales[i]
		if i >= len(dimension) {
			if scale != nil {
				return nil, fmt.Errorf("%w: scale given for absent axis %s", ErrShape, Axis(i))
			}
			continue
		}
		if scale == nil {
			scale = IndexScale(dimension[i])
		} else if len(scale) != dimension[i] {
			return nil, fmt.Errorf("%w: %s scale has %d points, extent is %d",
				ErrShape, Axis(i), len(scale), dimension[i])
		}
		s.SetScale(Axis(i), append([]float64(nil), scale...))
	}

	s.WriteProperty(false)
	s.Save()
	return s, nil
}

func checkShape(data []float64, dimension []int) error {
	if len(dimension) < 1 || len(dimension) > MaxDims {
		return fmt.Errorf("%w: rank %d outside 1..%d", ErrShape, len(dimension), MaxDims)
	}
	for i, d := range dimension {
		if d <= 0 {
			return fmt.Errorf("%w: %s extent %d", ErrShape, Axis(i), d)
		}
	}
	if n := ndarray.Product(dimension); n != len(data) {
		return fmt.Errorf("%w: %d elements for extents %v (want %d)", ErrShape, len(data), dimension, n)
	}
	return nil
}

// IndexScale returns 0, 1, ..., n-1.
func IndexScale(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// Dims returns the rank.
func (s *Spectrum) Dims() int {
	return len(s.Dimension)
}

// Len returns the number of elements.
func (s *Spectrum) Len() int {
	return len(s.Data)
}

// Extent returns the number of samples along axis, or 0 when the axis is
// absent.
func (s *Spectrum) Extent(axis Axis) int {
	if !axis.Valid() || int(axis) >= len(s.Dimension) {
		return 0
	}
	return s.Dimension[axis]
}

// Scale returns the scale of axis. The slice is shared with the Spectrum.
func (s *Spectrum) Scale(axis Axis) []float64 {
	if !axis.Valid() {
		return nil
	}
	return s.Axes[axis].Scale
}

// SetScale replaces the scale of axis and re-derives Min, Max and Step.
// The Spectrum takes ownership of scale.
func (s *Spectrum) SetScale(axis Axis, scale []float64) {
	s.Axes[axis] = summarize(scale)
}

func summarize(scale []float64) AxisInfo {
	info := AxisInfo{Scale: scale}
	if len(scale) == 0 {
		return info
	}
	info.Min = scale[0]
	info.Max = scale[len(scale)-1]
	if len(scale) > 1 {
		info.Step = scale[1] - scale[0]
	}
	return info
}

// Index returns the flat offset of the element at idx.
// It panics when len(idx) differs from the rank.
func (s *Spectrum) Index(idx ...int) int {
	if len(idx) != len(s.Dimension) {
		panic(fmt.Sprintf("spectrum: %d indices for rank %d", len(idx), len(s.Dimension)))
	}
	off := 0
	for i, v := range idx {
		off = off*s.Dimension[i] + v
	}
	return off
}

// At returns the element at idx.
func (s *Spectrum) At(idx ...int) float64 {
	return s.Data[s.Index(idx...)]
}

// Set stores v at idx.
func (s *Spectrum) Set(v float64, idx ...int) {
	s.Data[s.Index(idx...)] = v
}

// Clone returns a deep copy sharing no arrays with s, including the
// checkpoint.
func (s *Spectrum) Clone() *Spectrum {
	c := *s
	c.Data = append([]float64(nil), s.Data...)
	c.Dimension = append([]int(nil), s.Dimension...)
	for i := range s.Axes {
		c.Axes[i].Scale = cloneScale(s.Axes[i].Scale)
	}
	c.Property = s.Property.Clone()
	c.raw.data = append([]float64(nil), s.raw.data...)
	for i := range s.raw.scales {
		c.raw.scales[i] = cloneScale(s.raw.scales[i])
	}
	if s.raw.property != nil {
		c.raw.property = s.raw.property.Clone()
	}
	return &c
}

func cloneScale(scale []float64) []float64 {
	if scale == nil {
		return nil
	}
	return append([]float64(nil), scale...)
}
