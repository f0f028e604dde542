package spectrum

import (
	"fmt"
	"strconv"
	"strings"
)

// Property keys written by WriteProperty and codecs.
const (
	KeyDimension  = "Dimension"
	KeySpaceMode  = "spacemode"
	KeyEnergyAxis = "energyAxis"
	KeyPath       = "Path"
)

// Save commits the working data, scales and property map as the checkpoint.
func (s *Spectrum) Save() {
	s.raw.data = append(s.raw.data[:0:0], s.Data...)
	for i := range MaxDims {
		if i < len(s.Dimension) {
			s.raw.scales[i] = cloneScale(s.Axes[i].Scale)
		} else {
			s.raw.scales[i] = nil
		}
	}
	s.raw.property = s.Property.Clone()
	s.rawDataFlag = true
}

// Restore rolls the working copy back to the checkpoint.
func (s *Spectrum) Restore() error {
	if s.raw.property == nil {
		return fmt.Errorf("%w: no checkpoint", ErrMissingProperty)
	}
	if err := s.ReadProperty(true); err != nil {
		return err
	}
	s.Data = append([]float64(nil), s.raw.data...)
	for i := range MaxDims {
		if i < len(s.Dimension) {
			s.SetScale(Axis(i), cloneScale(s.raw.scales[i]))
		} else {
			s.Axes[i] = AxisInfo{}
		}
	}
	s.Property = s.raw.property.Clone()
	s.rawDataFlag = true
	return nil
}

// IsRaw reports whether the working copy equals the checkpoint.
func (s *Spectrum) IsRaw() bool {
	return s.rawDataFlag
}

// MarkModified records that the working copy diverged from the checkpoint
// and re-serializes the scalar fields into the property map.
func (s *Spectrum) MarkModified() {
	s.rawDataFlag = false
	s.WriteProperty(false)
}

// WriteProperty serializes dimension, axis summaries, space mode and energy
// axis into the working property map, or into the checkpoint's when intoRaw
// is set. Numbers use fixed 6-decimal formatting.
func (s *Spectrum) WriteProperty(intoRaw bool) {
	p := s.Property
	if intoRaw {
		if s.raw.property == nil {
			s.raw.property = NewProperty()
		}
		p = s.raw.property
	}

	p.Set(KeyDimension, FormatDimension(s.Dimension))
	for i := range MaxDims {
		name := Axis(i).String()
		p.Set(name+"Min", strconv.FormatFloat(s.Axes[i].Min, 'f', 6, 64))
		p.Set(name+"Max", strconv.FormatFloat(s.Axes[i].Max, 'f', 6, 64))
		p.Set(name+"Step", strconv.FormatFloat(s.Axes[i].Step, 'f', 6, 64))
	}
	if s.SpaceMode != SpaceNone {
		p.Set(KeySpaceMode, s.SpaceMode.String())
	} else {
		p.Delete(KeySpaceMode)
	}
	if s.EnergyAxis.Valid() {
		p.Set(KeyEnergyAxis, s.EnergyAxis.String())
	} else {
		p.Delete(KeyEnergyAxis)
	}
}

// ReadProperty rehydrates dimension, axis summaries, space mode and energy
// axis from the working property map, or from the checkpoint's when fromRaw
// is set. Every key written by WriteProperty except spacemode and
// energyAxis is required. On error s is left unchanged.
func (s *Spectrum) ReadProperty(fromRaw bool) error {
	p := s.Property
	if fromRaw {
		p = s.raw.property
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrMissingProperty, KeyDimension)
	}

	get := func(key string) (string, error) {
		v, ok := p.Get(key)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingProperty, key)
		}
		return v, nil
	}

	dimText, err := get(KeyDimension)
	if err != nil {
		return err
	}
	dimension, err := ParseDimension(dimText)
	if err != nil {
		return err
	}

	var axes [MaxDims][3]float64
	for i := range MaxDims {
		name := Axis(i).String()
		for j, suffix := range [3]string{"Min", "Max", "Step"} {
			text, err := get(name + suffix)
			if err != nil {
				return err
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrParse, name, suffix, text)
			}
			axes[i][j] = v
		}
	}

	mode := SpaceNone
	if text, ok := p.Get(KeySpaceMode); ok {
		if mode, err = ParseSpaceMode(text); err != nil {
			return err
		}
	}
	energy := NoAxis
	if text, ok := p.Get(KeyEnergyAxis); ok {
		if energy, err = ParseAxis(text); err != nil {
			return err
		}
	}

	s.Dimension = dimension
	for i := range MaxDims {
		s.Axes[i].Min, s.Axes[i].Max, s.Axes[i].Step = axes[i][0], axes[i][1], axes[i][2]
	}
	s.SpaceMode = mode
	s.EnergyAxis = energy
	return nil
}

// FormatDimension renders extents as a Python tuple: "(3, 2)" or "(5,)".
func FormatDimension(dims []int) string {
	if len(dims) == 1 {
		return "(" + strconv.Itoa(dims[0]) + ",)"
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ParseDimension parses the output of FormatDimension.
func ParseDimension(text string) ([]int, error) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "(") || !strings.HasSuffix(t, ")") {
		return nil, fmt.Errorf("%w: dimension %q", ErrParse, text)
	}
	var dims []int
	for _, part := range strings.Split(t[1:len(t)-1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: dimension %q", ErrParse, text)
		}
		dims = append(dims, d)
	}
	if len(dims) < 1 || len(dims) > MaxDims {
		return nil, fmt.Errorf("%w: dimension %q", ErrParse, text)
	}
	return dims, nil
}
