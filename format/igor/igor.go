package igor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/ndarray"
	"github.com/pkg/errors"
)

// File extensions of packed experiment and template files.
const (
	ExtExperiment = ".pxp"
	ExtTemplate   = ".pxt"
)

var (
	// ErrUnsupportedVersion is returned for wave records other than version 5.
	ErrUnsupportedVersion = errors.New("igor: unsupported wave version")
	// ErrTruncated is returned when the input ends inside a record.
	ErrTruncated = errors.New("igor: truncated record")
	// ErrChecksum is returned by WithVerifyChecksum for a corrupt wave header.
	ErrChecksum = errors.New("igor: header checksum mismatch")
	// ErrElementType is returned for complex, text or unknown wave types.
	ErrElementType = errors.New("igor: unsupported element type")
	// ErrHeader is returned when the wave header is inconsistent.
	ErrHeader = errors.New("igor: invalid wave header")
)

// VersionError reports the version of a rejected wave record.
type VersionError struct {
	Version int16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("igor: wave record version %d is not supported", e.Version)
}

// Unwrap makes errors.Is(err, ErrUnsupportedVersion) hold.
func (e *VersionError) Unwrap() error {
	return ErrUnsupportedVersion
}

// Decode reads every wave record from r. name is used for the waves when
// WithFileName(true) is given.
func Decode(r io.Reader, name string, opts ...Option) ([]*spectrum.Spectrum, error) {
	cfg := applyOptions(opts...)

	var out []*spectrum.Spectrum
	for rec := 0; ; rec++ {
		var rh recordHeader
		err := binary.Read(r, binary.LittleEndian, &rh)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrapf(ErrTruncated, "record %d header: %v", rec, err)
		}
		if rh.NumDataBytes < 0 {
			return nil, errors.Wrapf(ErrTruncated, "record %d: negative length %d", rec, rh.NumDataBytes)
		}

		payload, err := io.ReadAll(io.LimitReader(r, int64(rh.NumDataBytes)))
		if err != nil {
			return nil, errors.Wrapf(err, "igor: record %d", rec)
		}
		if len(payload) < int(rh.NumDataBytes) {
			return nil, errors.Wrapf(ErrTruncated, "record %d: %d of %d bytes",
				rec, len(payload), rh.NumDataBytes)
		}
		if rh.RecordType&recordTypeMsk != RecordWave {
			continue
		}

		s, err := decodeWave(payload, name, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", rec)
		}
		out = append(out, s)
	}
}

func decodeWave(payload []byte, fileName string, cfg config) (*spectrum.Spectrum, error) {
	if len(payload) < prefixSize {
		if len(payload) >= versionSize {
			if v := int16(binary.LittleEndian.Uint16(payload)); v != WaveVersion {
				return nil, &VersionError{Version: v}
			}
		}
		return nil, errors.Wrapf(ErrTruncated, "wave headers: %d bytes", len(payload))
	}

	r := bytes.NewReader(payload)
	var (
		version int16
		bh      binHeader5
		wh      waveHeader5
	)
	// The length check above guarantees these reads succeed.
	_ = binary.Read(r, binary.LittleEndian, &version)
	if version != WaveVersion {
		return nil, &VersionError{Version: version}
	}
	_ = binary.Read(r, binary.LittleEndian, &bh)
	_ = binary.Read(r, binary.LittleEndian, &wh)

	if cfg.verifyChecksum && checksum(payload[:prefixSize]) != 0 {
		return nil, errors.Wrapf(ErrChecksum, "wave %q", wh.name())
	}

	dt, err := dataType(wh.Type)
	if err != nil {
		return nil, err
	}
	rank := wh.rank()
	if rank == 0 {
		return nil, errors.Wrapf(ErrHeader, "wave %q has no points", wh.name())
	}
	dims := make([]int, rank)
	n := 1
	for i := range dims {
		if wh.NDim[i] < 0 {
			return nil, errors.Wrapf(ErrHeader, "extent %d of axis %d", wh.NDim[i], i)
		}
		dims[i] = int(wh.NDim[i])
		n *= dims[i]
	}
	if n != int(wh.NPnts) {
		return nil, errors.Wrapf(ErrHeader, "npnts %d for extents %v", wh.NPnts, dims)
	}

	rest := payload[prefixSize:]
	take := func(size int32, what string) ([]byte, error) {
		if size < 0 || int(size) > len(rest) {
			return nil, errors.Wrapf(ErrTruncated, "%s: %d bytes, %d left", what, size, len(rest))
		}
		b := rest[:size]
		rest = rest[size:]
		return b, nil
	}

	raw, err := take(int32(n*dt.Size()), "wave data")
	if err != nil {
		return nil, err
	}
	col, err := decodeElements(dt, raw, n)
	if err != nil {
		return nil, err
	}
	if _, err := take(bh.FormulaSize, "formula"); err != nil {
		return nil, err
	}
	noteBytes, err := take(bh.NoteSize, "note")
	if err != nil {
		return nil, err
	}
	skip := []int32{bh.DataEUnitsSize}
	skip = append(skip, bh.DimEUnitsSize[:]...)
	skip = append(skip, bh.DimLabelsSize[:]...)
	skip = append(skip, bh.SIndicesSize, bh.OptionsSize1, bh.OptionsSize2)
	for _, size := range skip {
		if _, err := take(size, "trailing blob"); err != nil {
			return nil, err
		}
	}

	note := strings.ReplaceAll(string(noteBytes), "\r", "\n")
	mode, energy := spectrum.TagsFromNote(note)
	if int(energy) >= rank {
		energy = spectrum.NoAxis
	}

	scales := make([][]float64, rank)
	for i, d := range dims {
		scales[i] = make([]float64, d)
		for k := range scales[i] {
			scales[i][k] = wh.SfB[i] + float64(k)*wh.SfA[i]
		}
	}

	name := wh.name()
	if cfg.useFileName {
		name = fileName
	}
	s, err := spectrum.New(name, ndarray.FromColumnMajor(col, dims), dims,
		spectrum.WithScales(scales...),
		spectrum.WithSpaceMode(mode),
		spectrum.WithEnergyAxis(energy),
		spectrum.WithDataType(dt),
		spectrum.WithNote(note),
	)
	if err != nil {
		return nil, errors.Wrap(err, "igor")
	}
	return s, nil
}

// Encode writes one version-5 wave record per Spectrum. Data is stored in
// each Spectrum's DataType; the wave scaling is taken from the first two
// points of each scale. The note is written with CR line breaks and carries
// the Spectrum's space mode and energy axis tags.
func Encode(w io.Writer, specs ...*spectrum.Spectrum) error {
	bw := bufio.NewWriter(w)
	for _, s := range specs {
		if err := encodeWave(bw, s); err != nil {
			return errors.Wrapf(err, "igor: encode %q", s.Name)
		}
	}
	return errors.Wrap(bw.Flush(), "igor: flush")
}

func encodeWave(w io.Writer, s *spectrum.Spectrum) error {
	rank := s.Dims()
	if rank < 1 || rank > maxDims {
		return errors.Errorf("rank %d", rank)
	}
	data := ndarray.ToColumnMajor(s.Data, s.Dimension)
	dataSize := len(data) * s.DataType.Size()
	note := strings.ReplaceAll(spectrum.SyncNoteTags(s.Note, s.SpaceMode, s.EnergyAxis), "\n", "\r")

	wh := waveHeader5{
		NPnts:    int32(len(data)),
		Type:     typeCode(s.DataType),
		Platform: platform(),
	}
	wh.setName(s.Name)
	for i, d := range s.Dimension {
		wh.NDim[i] = int32(d)
		wh.SfA[i] = s.Axes[i].Step
		wh.SfB[i] = s.Axes[i].Min
	}
	bh := binHeader5{
		WfmSize:  int32(waveHeaderSize + dataSize),
		NoteSize: int32(len(note)),
	}

	prefix, err := marshalPrefix(&bh, &wh)
	if err != nil {
		return err
	}
	bh.Checksum = checksum(prefix)
	if prefix, err = marshalPrefix(&bh, &wh); err != nil {
		return err
	}

	rh := recordHeader{
		RecordType:   RecordWave,
		NumDataBytes: int32(prefixSize + dataSize + len(note)),
	}
	if err := binary.Write(w, binary.LittleEndian, &rh); err != nil {
		return err
	}
	if _, err := w.Write(prefix); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, encodeElements(s.DataType, data)); err != nil {
		return err
	}
	_, err = io.WriteString(w, note)
	return err
}

func marshalPrefix(bh *binHeader5, wh *waveHeader5) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(prefixSize)
	for _, v := range []any{int16(WaveVersion), bh, wh} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// platform returns the Igor platform code of the running system.
func platform() uint8 {
	if runtime.GOOS == "darwin" {
		return 1
	}
	return 2
}

// Load decodes the packed file at path and records the path in every
// Spectrum's property map.
func Load(path string, opts ...Option) ([]*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "igor")
	}
	defer f.Close()

	base := filepath.Base(path)
	specs, err := Decode(bufio.NewReader(f), strings.TrimSuffix(base, filepath.Ext(base)), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	for _, s := range specs {
		s.Property.Set(spectrum.KeyPath, path)
		s.Save()
	}
	return specs, nil
}

// Save writes specs into a packed file at path, replacing it.
func Save(path string, specs ...*spectrum.Spectrum) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "igor")
	}
	if err := Encode(f, specs...); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "igor")
}
