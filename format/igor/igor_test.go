package igor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/testutil"
)

func uniformSpectrum(t *testing.T, name string, dims []int, dt spectrum.DataType) *spectrum.Spectrum {
	t.Helper()
	n := 1
	scales := make([][]float64, len(dims))
	for i, d := range dims {
		n *= d
		scales[i] = make([]float64, d)
		for k := range scales[i] {
			scales[i][k] = -2 + 0.25*float64(k) + float64(i)
		}
	}
	s, err := spectrum.New(name, testutil.Ramp(n), dims,
		spectrum.WithScales(scales...),
		spectrum.WithDataType(dt),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func encode(t *testing.T, specs ...*spectrum.Spectrum) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, specs...); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestHeaderSizes(t *testing.T) {
	if got := binary.Size(binHeader5{}); got != binHeaderSize {
		t.Fatalf("binHeader5 size = %d, want %d", got, binHeaderSize)
	}
	if got := binary.Size(waveHeader5{}); got != waveHeaderSize {
		t.Fatalf("waveHeader5 size = %d, want %d", got, waveHeaderSize)
	}
	if got := binary.Size(recordHeader{}); got != 8 {
		t.Fatalf("recordHeader size = %d, want 8", got)
	}
}

func TestEncodeFieldOffsets(t *testing.T) {
	b := encode(t, uniformSpectrum(t, "wave0", []int{4, 3}, spectrum.Float32))
	le := binary.LittleEndian

	const bin = 8 + versionSize
	const wave = bin + binHeaderSize
	u16 := func(off int) uint16 { return le.Uint16(b[off:]) }
	i32 := func(off int) int32 { return int32(le.Uint32(b[off:])) }
	f64 := func(off int) float64 { return math.Float64frombits(le.Uint64(b[off:])) }

	for _, tc := range []struct {
		field     string
		got, want float64
	}{
		{"recordType", float64(u16(0)), RecordWave},
		{"version", float64(u16(8)), WaveVersion},
		{"wfmSize", float64(i32(bin + 2)), waveHeaderSize + 12*4},
		{"npnts", float64(i32(wave + 12)), 12},
		{"type", float64(u16(wave + 16)), typeFloat32},
		{"nDim[0]", float64(i32(wave + 68)), 4},
		{"nDim[1]", float64(i32(wave + 72)), 3},
		{"nDim[2]", float64(i32(wave + 76)), 0},
		{"sfA[0]", f64(wave + 84), 0.25},
		{"sfA[1]", f64(wave + 92), 0.25},
		{"sfB[0]", f64(wave + 116), -2},
		{"sfB[1]", f64(wave + 124), -1},
		{"platform", float64(b[wave+228]), float64(platform())},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.field, tc.got, tc.want)
		}
	}
	if name := string(bytes.TrimRight(b[wave+28:wave+60], "\x00")); name != "wave0" {
		t.Errorf("bname = %q, want wave0", name)
	}
	if got := math.Float32frombits(le.Uint32(b[wave+waveHeaderSize:])); got != 1 {
		t.Errorf("first sample = %v, want 1 right after the wave header", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		dims []int
		dt   spectrum.DataType
	}{
		{dims: []int{9}, dt: spectrum.Float64},
		{dims: []int{4, 3}, dt: spectrum.Float32},
		{dims: []int{2, 3, 4}, dt: spectrum.Int16},
		{dims: []int{2, 2, 3, 2}, dt: spectrum.Int8},
		{dims: []int{3, 1, 2}, dt: spectrum.Int32},
	}
	for _, tc := range tests {
		t.Run(spectrum.FormatDimension(tc.dims)+" "+tc.dt.String(), func(t *testing.T) {
			in := uniformSpectrum(t, "wave0", tc.dims, tc.dt)
			got, err := Decode(bytes.NewReader(encode(t, in)), "file", WithVerifyChecksum())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("decoded %d waves, want 1", len(got))
			}
			out := got[0]
			if out.Name != "wave0" {
				t.Fatalf("Name = %q, want wave0", out.Name)
			}
			if out.DataType != tc.dt {
				t.Fatalf("DataType = %v, want %v", out.DataType, tc.dt)
			}
			if spectrum.FormatDimension(out.Dimension) != spectrum.FormatDimension(tc.dims) {
				t.Fatalf("Dimension = %v, want %v", out.Dimension, tc.dims)
			}
			testutil.RequireSliceNearlyEqual(t, out.Data, in.Data, 0)
			for i := range tc.dims {
				a := spectrum.Axis(i)
				testutil.RequireSliceNearlyEqual(t, out.Scale(a), in.Scale(a), 1e-12)
			}
		})
	}
}

func TestChecksum(t *testing.T) {
	b := encode(t, uniformSpectrum(t, "w", []int{5}, spectrum.Float64))
	prefix := b[8 : 8+prefixSize]
	if got := checksum(prefix); got != 0 {
		t.Fatalf("checksum over encoded prefix = %d, want 0", got)
	}

	b[8+versionSize+binHeaderSize+20]++ // inside waveHeader5.BName
	if _, err := Decode(bytes.NewReader(b), "f", WithVerifyChecksum()); !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
	if _, err := Decode(bytes.NewReader(b), "f"); err != nil {
		t.Fatalf("Decode without verification: %v", err)
	}
}

func TestNoteTags(t *testing.T) {
	in := uniformSpectrum(t, "map", []int{3, 2}, spectrum.Float32)
	in.Note = "sample=Bi2Se3\rspacemode=Angular\renergyAxis=Y\rbroken=a=b"

	got, err := Decode(bytes.NewReader(encode(t, in)), "f")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out := got[0]
	if out.Note != "sample=Bi2Se3\nspacemode=Angular\nenergyAxis=Y\nbroken=a=b" {
		t.Fatalf("Note = %q, CR not converted", out.Note)
	}
	if out.SpaceMode != spectrum.Angular || out.EnergyAxis != spectrum.Y {
		t.Fatalf("tags = (%v, %v), want (Angular, Y)", out.SpaceMode, out.EnergyAxis)
	}

	in.Note = "energyAxis=Z"
	got, err = Decode(bytes.NewReader(encode(t, in)), "f")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].EnergyAxis != spectrum.NoAxis {
		t.Fatalf("EnergyAxis = %v for a 2D wave tagged Z, want NoAxis", got[0].EnergyAxis)
	}

	in.Note = "energyAxis=Z"
	in.SpaceMode, in.EnergyAxis = spectrum.Momentum, spectrum.X
	got, err = Decode(bytes.NewReader(encode(t, in)), "f")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got[0].SpaceMode != spectrum.Momentum || got[0].EnergyAxis != spectrum.X {
		t.Fatalf("tags = (%v, %v), want (Momentum, X)", got[0].SpaceMode, got[0].EnergyAxis)
	}
	if got[0].Note != "spacemode=Momentum\nenergyAxis=X" {
		t.Fatalf("Note = %q", got[0].Note)
	}
}

func TestDecodeSkipsOtherRecords(t *testing.T) {
	var buf bytes.Buffer
	other := recordHeader{RecordType: 1, NumDataBytes: 10}
	if err := binary.Write(&buf, binary.LittleEndian, &other); err != nil {
		t.Fatal(err)
	}
	buf.Write(make([]byte, 10))
	buf.Write(encode(t,
		uniformSpectrum(t, "a", []int{4}, spectrum.Float64),
		uniformSpectrum(t, "b", []int{2, 2}, spectrum.Float32),
	))

	got, err := Decode(&buf, "experiment", WithFileName(true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d waves, want 2", len(got))
	}
	for _, s := range got {
		if s.Name != "experiment" {
			t.Fatalf("Name = %q, want file name", s.Name)
		}
	}
	if got[1].Dims() != 2 {
		t.Fatalf("second wave rank = %d, want 2", got[1].Dims())
	}
}

func TestDecodeErrors(t *testing.T) {
	good := encode(t, uniformSpectrum(t, "w", []int{3, 2}, spectrum.Float64))

	version := append([]byte(nil), good...)
	binary.LittleEndian.PutUint16(version[8:], 2)
	_, err := Decode(bytes.NewReader(version), "f")
	var verr *VersionError
	if !errors.As(err, &verr) || verr.Version != 2 {
		t.Fatalf("err = %v, want *VersionError{2}", err)
	}
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v does not match ErrUnsupportedVersion", err)
	}

	typ := append([]byte(nil), good...)
	binary.LittleEndian.PutUint16(typ[8+versionSize+binHeaderSize+16:], 0x01)
	if _, err := Decode(bytes.NewReader(typ), "f"); !errors.Is(err, ErrElementType) {
		t.Fatalf("err = %v, want ErrElementType", err)
	}

	npnts := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(npnts[8+versionSize+binHeaderSize+12:], 7)
	if _, err := Decode(bytes.NewReader(npnts), "f"); !errors.Is(err, ErrHeader) {
		t.Fatalf("err = %v, want ErrHeader", err)
	}

	for _, n := range []int{3, 8 + 100, len(good) - 1} {
		if _, err := Decode(bytes.NewReader(good[:n]), "f"); !errors.Is(err, ErrTruncated) {
			t.Fatalf("%d bytes: err = %v, want ErrTruncated", n, err)
		}
	}

	got, err := Decode(bytes.NewReader(nil), "f")
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input = (%v, %v), want no waves", got, err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session"+ExtExperiment)
	long := uniformSpectrum(t, "a_very_long_wave_name_that_exceeds_the_limit", []int{3}, spectrum.Float64)
	if err := Save(path, long, uniformSpectrum(t, "second", []int{2, 2}, spectrum.Int32)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	specs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("loaded %d waves, want 2", len(specs))
	}
	if got := specs[0].Name; len(got) != maxWaveName || got != long.Name[:maxWaveName] {
		t.Fatalf("Name = %q, want truncated to %d bytes", got, maxWaveName)
	}
	for _, s := range specs {
		if p, _ := s.Property.Get(spectrum.KeyPath); p != path {
			t.Fatalf("Path = %q, want %q", p, path)
		}
	}

	specs, err = Load(path, WithFileName(true))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if specs[1].Name != "session" {
		t.Fatalf("Name = %q, want session", specs[1].Name)
	}
}
