package arpy

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
	"github.com/pkg/errors"
)

// Ext is the conventional file extension.
const Ext = ".arpy"

// ErrNotStandard is returned for input that is not a well-formed ARPY file.
var ErrNotStandard = errors.New("arpy: not a standard ARPY file")

var magic = [9]byte{'A', 'R', 'P', 'Y', '_', 'F', 'I', 'L', 'E'}

// maxElements bounds the allocation driven by header extents.
const maxElements = 1 << 30

type header struct {
	Magic   [9]byte
	Energy  byte
	Mode    byte
	Dims    int32
	Extents [spectrum.MaxDims]int32
}

func energyCode(a spectrum.Axis) byte {
	switch a {
	case spectrum.X:
		return 'X'
	case spectrum.Y:
		return 'Y'
	case spectrum.Z:
		return 'Z'
	}
	return 'N'
}

func energyAxis(c byte) (spectrum.Axis, bool) {
	switch c {
	case 'N':
		return spectrum.NoAxis, true
	case 'X':
		return spectrum.X, true
	case 'Y':
		return spectrum.Y, true
	case 'Z':
		return spectrum.Z, true
	}
	return spectrum.NoAxis, false
}

func modeCode(m spectrum.SpaceMode) byte {
	switch m {
	case spectrum.Angular:
		return 'A'
	case spectrum.Momentum:
		return 'M'
	}
	return 'N'
}

func spaceMode(c byte) (spectrum.SpaceMode, bool) {
	switch c {
	case 'N':
		return spectrum.SpaceNone, true
	case 'A':
		return spectrum.Angular, true
	case 'M':
		return spectrum.Momentum, true
	}
	return spectrum.SpaceNone, false
}

// Decode reads one Spectrum from r. The data is converted from the file's
// column-major layout to row-major and the DataType is set to Float32.
func Decode(r io.Reader, name string) (*spectrum.Spectrum, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(ErrNotStandard, "header: %v", err)
	}
	if h.Magic != magic {
		return nil, errors.Wrapf(ErrNotStandard, "magic %q", h.Magic[:])
	}
	energy, ok := energyAxis(h.Energy)
	if !ok {
		return nil, errors.Wrapf(ErrNotStandard, "energy axis code %q", h.Energy)
	}
	mode, ok := spaceMode(h.Mode)
	if !ok {
		return nil, errors.Wrapf(ErrNotStandard, "space mode code %q", h.Mode)
	}
	if h.Dims < 1 || h.Dims > spectrum.MaxDims {
		return nil, errors.Wrapf(ErrNotStandard, "rank %d", h.Dims)
	}

	dims := make([]int, h.Dims)
	n := 1
	for i := range dims {
		if h.Extents[i] < 1 {
			return nil, errors.Wrapf(ErrNotStandard, "%s extent %d", spectrum.Axis(i), h.Extents[i])
		}
		dims[i] = int(h.Extents[i])
		n *= dims[i]
		if n > maxElements {
			return nil, errors.Wrapf(ErrNotStandard, "extents %v too large", h.Extents)
		}
	}

	scales := make([][]float64, len(dims))
	for i, d := range dims {
		b, err := readFull(r, int64(d)*8)
		if err != nil {
			return nil, errors.Wrapf(ErrNotStandard, "%s scale: %v", spectrum.Axis(i), err)
		}
		scales[i] = make([]float64, d)
		for k := range scales[i] {
			scales[i][k] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*k:]))
		}
	}

	b, err := readFull(r, int64(n)*4)
	if err != nil {
		return nil, errors.Wrapf(ErrNotStandard, "data: %v", err)
	}
	col := make([]float64, n)
	for i := range col {
		col[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])))
	}

	s, err := spectrum.New(name, ndarray.FromColumnMajor(col, dims), dims,
		spectrum.WithScales(scales...),
		spectrum.WithEnergyAxis(energy),
		spectrum.WithSpaceMode(mode),
		spectrum.WithDataType(spectrum.Float32),
	)
	if err != nil {
		return nil, errors.Wrap(err, "arpy")
	}
	return s, nil
}

// readFull reads exactly size bytes. The buffer grows with the input
// actually read, so a header that overstates the payload cannot force a
// large allocation.
func readFull(r io.Reader, size int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) < size {
		return nil, errors.Errorf("%d of %d bytes", len(b), size)
	}
	return b, nil
}

// Encode writes s to w. Data is narrowed to float32.
func Encode(w io.Writer, s *spectrum.Spectrum) error {
	rank := s.Dims()
	if rank < 1 || rank > spectrum.MaxDims {
		return errors.Errorf("arpy: cannot encode rank %d", rank)
	}
	h := header{
		Magic:  magic,
		Energy: energyCode(s.EnergyAxis),
		Mode:   modeCode(s.SpaceMode),
		Dims:   int32(rank),
	}
	for i, d := range s.Dimension {
		h.Extents[i] = int32(d)
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "arpy: write header")
	}
	for i := range rank {
		if err := binary.Write(bw, binary.LittleEndian, s.Scale(spectrum.Axis(i))); err != nil {
			return errors.Wrapf(err, "arpy: write %s scale", spectrum.Axis(i))
		}
	}

	col := ndarray.ToColumnMajor(s.Data, s.Dimension)
	out := make([]float32, len(col))
	for i, v := range col {
		out[i] = float32(v)
	}
	if err := binary.Write(bw, binary.LittleEndian, out); err != nil {
		return errors.Wrap(err, "arpy: write data")
	}
	return errors.Wrap(bw.Flush(), "arpy: flush")
}

// Load decodes the file at path. The Spectrum is named after the file and
// its property map records the path.
func Load(path string) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "arpy")
	}
	defer f.Close()

	s, err := Decode(bufio.NewReader(f), BaseName(path))
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
		return errors.Wrap(err, "arpy")
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "arpy")
}

// BaseName returns the file name of path without directory and extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
