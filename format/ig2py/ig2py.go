package ig2py

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/pkg/errors"
)

// Ext is the conventional file extension.
const Ext = ".ig2py"

const (
	signature     = "#Igor to Python"
	headerSection = "[Header]"
	scaleSection  = "[Scale]"
	dataSection   = "[Data]"

	maxLineBytes = 64 << 20
)

// ErrNotStandard is returned for input that is not a well-formed export.
var ErrNotStandard = errors.New("ig2py: not a standard Igor to Python file")

type section int

const (
	sectionNone section = iota
	sectionHeader
	sectionScale
	sectionData
)

type document struct {
	header []string
	scales [][]float64
	data   []float64
	seen   [sectionData + 1]bool
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parse(r io.Reader) (*document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !sc.Scan() || strings.TrimRight(sc.Text(), " \t\r") != signature {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "ig2py")
		}
		return nil, errors.Wrap(ErrNotStandard, "missing signature")
	}

	doc := &document{}
	cur := sectionNone
	for lineNo := 2; sc.Scan(); lineNo++ {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if next := sectionOf(line); next != sectionNone {
			cur = next
			doc.seen[cur] = true
			continue
		}

		switch cur {
		case sectionHeader:
			if line == "" {
				cur = sectionNone
				continue
			}
			doc.header = append(doc.header, line)
		case sectionScale:
			if line == "" {
				cur = sectionNone
				continue
			}
			vals, err := parseFloats(line)
			if err != nil {
				return nil, errors.Wrapf(ErrNotStandard, "line %d: %v", lineNo, err)
			}
			doc.scales = append(doc.scales, vals)
		case sectionData:
			vals, err := parseFloats(line)
			if err != nil {
				return nil, errors.Wrapf(ErrNotStandard, "line %d: %v", lineNo, err)
			}
			doc.data = append(doc.data, vals...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "ig2py")
	}
	for _, sec := range []section{sectionHeader, sectionScale, sectionData} {
		if !doc.seen[sec] {
			return nil, errors.Wrapf(ErrNotStandard, "missing %s section", sec)
		}
	}
	return doc, nil
}

func sectionOf(line string) section {
	switch line {
	case headerSection:
		return sectionHeader
	case scaleSection:
		return sectionScale
	case dataSection:
		return sectionData
	}
	return sectionNone
}

func (s section) String() string {
	switch s {
	case sectionHeader:
		return headerSection
	case sectionScale:
		return scaleSection
	case sectionData:
		return dataSection
	}
	return "none"
}

// Decode reads one Spectrum from r. The header must carry every key
// ReadProperty requires; the axis summaries are then re-derived from the
// scale section.
func Decode(r io.Reader, name string) (*spectrum.Spectrum, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	prop, err := spectrum.ParseProperty(strings.Join(doc.header, "\n"))
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrNotStandard, err)
	}
	dimText, ok := prop.Get(spectrum.KeyDimension)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", ErrNotStandard, spectrum.ErrMissingProperty, spectrum.KeyDimension)
	}
	dims, err := spectrum.ParseDimension(dimText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotStandard, err)
	}
	if len(doc.scales) != len(dims) {
		return nil, errors.Wrapf(ErrNotStandard, "%d scale lines for %d axes", len(doc.scales), len(dims))
	}

	s, err := spectrum.New(name, doc.data, dims, spectrum.WithScales(doc.scales...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotStandard, err)
	}
	s.Property = prop
	if err := s.ReadProperty(false); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotStandard, err)
	}
	for i := range dims {
		a := spectrum.Axis(i)
		s.SetScale(a, s.Scale(a))
	}
	s.WriteProperty(false)
	s.Save()
	return s, nil
}

// Encode writes s to w. The header is the property map with the scalar
// fields refreshed from s; s itself is not modified.
func Encode(w io.Writer, s *spectrum.Spectrum) error {
	rank := s.Dims()
	if rank < 1 || rank > spectrum.MaxDims {
		return errors.Errorf("ig2py: cannot encode rank %d", rank)
	}
	view := *s
	view.Property = s.Property.Clone()
	view.WriteProperty(false)

	bw := bufio.NewWriter(w)
	bw.WriteString(signature + "\n" + headerSection + "\n")
	for _, line := range view.Property.Lines() {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	bw.WriteString("\n" + scaleSection + "\n")
	for i := range rank {
		writeRow(bw, s.Scale(spectrum.Axis(i)))
	}
	bw.WriteString("\n" + dataSection + "\n")
	row := s.Dimension[rank-1]
	for off := 0; off < len(s.Data); off += row {
		writeRow(bw, s.Data[off:off+row])
	}
	return errors.Wrap(bw.Flush(), "ig2py: write")
}

func writeRow(w *bufio.Writer, vals []float64) {
	var buf []byte
	for i, v := range vals {
		if i > 0 {
			buf = append(buf, '\t')
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	buf = append(buf, '\n')
	w.Write(buf)
}

// Load decodes the file at path, names the Spectrum after the file and
// records the path in its property map.
func Load(path string) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "ig2py")
	}
	defer f.Close()

	base := filepath.Base(path)
	s, err := Decode(f, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	s.Property.Set(spectrum.KeyPath, path)
	s.Save()
	return s, nil
}

// Save encodes s into the file at path, replacing it.
func Save(path string, s *spectrum.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "ig2py")
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "ig2py")
}
