package arpy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/testutil"
)

func rankedSpectrum(t *testing.T, dims []int) *spectrum.Spectrum {
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
	s, err := spectrum.New("scan", testutil.Ramp(n), dims,
		spectrum.WithScales(scales...),
		spectrum.WithSpaceMode(spectrum.Angular),
		spectrum.WithEnergyAxis(spectrum.Axis(len(dims)-1)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestHeaderSize(t *testing.T) {
	if got := binary.Size(header{}); got != 31 {
		t.Fatalf("header size = %d, want 31", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, dims := range [][]int{{7}, {3, 4}, {2, 3, 5}, {2, 2, 3, 2}} {
		t.Run(spectrum.FormatDimension(dims), func(t *testing.T) {
			in := rankedSpectrum(t, dims)
			if len(dims) == 4 {
				in.EnergyAxis = spectrum.NoAxis
			}

			var buf bytes.Buffer
			if err := Encode(&buf, in); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := Decode(&buf, "scan")
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if spectrum.FormatDimension(out.Dimension) != spectrum.FormatDimension(dims) {
				t.Fatalf("Dimension = %v, want %v", out.Dimension, dims)
			}
			testutil.RequireSliceNearlyEqual(t, out.Data, in.Data, 0)
			for i := range dims {
				a := spectrum.Axis(i)
				testutil.RequireSliceNearlyEqual(t, out.Scale(a), in.Scale(a), 0)
			}
			if out.SpaceMode != in.SpaceMode || out.EnergyAxis != in.EnergyAxis {
				t.Fatalf("tags = (%v, %v), want (%v, %v)",
					out.SpaceMode, out.EnergyAxis, in.SpaceMode, in.EnergyAxis)
			}
			if out.DataType != spectrum.Float32 {
				t.Fatalf("DataType = %v, want float32", out.DataType)
			}
			if !out.IsRaw() {
				t.Fatal("decoded spectrum is not raw")
			}
		})
	}
}

func TestDecodeColumnMajor(t *testing.T) {
	var buf bytes.Buffer
	h := header{Magic: magic, Energy: 'N', Mode: 'N', Dims: 2, Extents: [4]int32{3, 2}}
	for _, v := range []any{&h, []float64{0, 1, 2}, []float64{0, 1}, []float32{1, 3, 5, 2, 4, 6}} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}

	s, err := Decode(&buf, "cut")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := s.At(2, 1); got != 6 {
		t.Fatalf("At(2, 1) = %v, want 6", got)
	}
	if got := s.At(1, 0); got != 3 {
		t.Fatalf("At(1, 0) = %v, want 3", got)
	}
	if s.Axes[spectrum.X].Max != 2 || s.Axes[spectrum.Y].Max != 1 {
		t.Fatalf("XMax, YMax = %v, %v, want 2, 1", s.Axes[spectrum.X].Max, s.Axes[spectrum.Y].Max)
	}
	if s.EnergyAxis != spectrum.NoAxis || s.SpaceMode != spectrum.SpaceNone {
		t.Fatalf("tags = (%v, %v), want unset", s.SpaceMode, s.EnergyAxis)
	}
}

func TestDecodeRejects(t *testing.T) {
	var valid bytes.Buffer
	if err := Encode(&valid, rankedSpectrum(t, []int{3, 2})); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	good := valid.Bytes()

	corrupt := func(off int, b byte) []byte {
		out := append([]byte(nil), good...)
		out[off] = b
		return out
	}
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "bad magic", data: corrupt(0, 'B')},
		{name: "energy code", data: corrupt(9, 'Q')},
		{name: "mode code", data: corrupt(10, 'Q')},
		{name: "rank", data: corrupt(11, 5)},
		{name: "short header", data: good[:20]},
		{name: "short scale", data: good[:31+8]},
		{name: "short data", data: good[:len(good)-1]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode(bytes.NewReader(tc.data), "x")
			if !errors.Is(err, ErrNotStandard) {
				t.Fatalf("err = %v, want ErrNotStandard", err)
			}
			if s != nil {
				t.Fatal("Decode returned a spectrum with an error")
			}
		})
	}
}

func TestDecodeOverstatedExtents(t *testing.T) {
	for _, extents := range [][4]int32{{1 << 26}, {1 << 15, 1 << 15}, {1 << 10, 1 << 10, 1 << 10}} {
		var buf bytes.Buffer
		h := header{Magic: magic, Energy: 'N', Mode: 'N', Extents: extents}
		for _, e := range extents {
			if e > 0 {
				h.Dims++
			}
		}
		if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
			t.Fatal(err)
		}
		buf.Write(make([]byte, 64))

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err := Decode(bytes.NewReader(buf.Bytes()), "x")
		runtime.ReadMemStats(&after)

		if !errors.Is(err, ErrNotStandard) {
			t.Fatalf("extents %v: err = %v, want ErrNotStandard", extents, err)
		}
		if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 1<<20 {
			t.Fatalf("extents %v: decoding %d bytes allocated %d bytes", extents, buf.Len(), alloc)
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cu_111"+Ext)
	in := rankedSpectrum(t, []int{4, 3})
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Name != "Cu_111" {
		t.Fatalf("Name = %q, want Cu_111", out.Name)
	}
	if got, _ := out.Property.Get(spectrum.KeyPath); got != path {
		t.Fatalf("Path = %q, want %q", got, path)
	}
	if got, _ := out.Property.Get(spectrum.KeyDimension); got != "(4, 3)" {
		t.Fatalf("Dimension property = %q, want (4, 3)", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.arpy")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}
