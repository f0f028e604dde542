package ig2py

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/testutil"
)

const sample = `#Igor to Python
[Header]
"Dimension":"(3, 2)"
"XMin":"-1.000000","XMax":"1.000000","XStep":"1.000000"
"YMin":"10.000000"
"YMax":"20.000000"
"YStep":"10.000000"
"ZMin":"0","ZMax":"0","ZStep":"0"
"TMin":"0","TMax":"0","TStep":"0"
"spacemode":"Angular"
"energyAxis":"Y"
"Sample":"Bi2Se3"

[Scale]
-1	0	1
10	20

[Data]
1	2
3	4
5	NaN
`

func TestDecodeSample(t *testing.T) {
	s, err := Decode(strings.NewReader(sample), "cut")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Dims() != 2 || s.Dimension[0] != 3 || s.Dimension[1] != 2 {
		t.Fatalf("Dimension = %v, want [3 2]", s.Dimension)
	}
	if got := s.At(1, 1); got != 4 {
		t.Fatalf("At(1, 1) = %v, want 4", got)
	}
	if !math.IsNaN(s.At(2, 1)) {
		t.Fatalf("At(2, 1) = %v, want NaN", s.At(2, 1))
	}
	if s.SpaceMode != spectrum.Angular || s.EnergyAxis != spectrum.Y {
		t.Fatalf("tags = (%v, %v), want (Angular, Y)", s.SpaceMode, s.EnergyAxis)
	}
	if got, _ := s.Property.Get("Sample"); got != "Bi2Se3" {
		t.Fatalf("Sample = %q, want Bi2Se3", got)
	}
	if y := s.Axes[spectrum.Y]; y.Min != 10 || y.Max != 20 || y.Step != 10 {
		t.Fatalf("Y axis = %+v", y)
	}
	if !s.IsRaw() {
		t.Fatal("decoded spectrum is not raw")
	}
}

func TestAxisSummaryFollowsScale(t *testing.T) {
	text := strings.Replace(sample, `"XMax":"1.000000"`, `"XMax":"7.5"`, 1)
	s, err := Decode(strings.NewReader(text), "cut")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := s.Axes[spectrum.X].Max; got != 1 {
		t.Fatalf("XMax = %v, want 1 from the scale", got)
	}
	if got, _ := s.Property.Get("XMax"); got != "1.000000" {
		t.Fatalf("XMax property = %q, want rewritten", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, dims := range [][]int{{5}, {3, 4}, {2, 3, 2}, {2, 2, 2, 3}} {
		t.Run(spectrum.FormatDimension(dims), func(t *testing.T) {
			n := 1
			scales := make([][]float64, len(dims))
			for i, d := range dims {
				n *= d
				scales[i] = make([]float64, d)
				for k := range scales[i] {
					scales[i][k] = 0.1*float64(k) - float64(i)/3
				}
			}
			data := testutil.DeterministicNoise(int64(n), 5, n)
			data[n/2] = math.NaN()
			in, err := spectrum.New("scan", data, dims,
				spectrum.WithScales(scales...),
				spectrum.WithSpaceMode(spectrum.Momentum),
			)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			in.Property.Set(spectrum.KeyPath, `C:\data\"quoted".pxt`)

			var buf bytes.Buffer
			if err := Encode(&buf, in); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := Decode(&buf, "scan")
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			testutil.RequireSliceNearlyEqualNaN(t, out.Data, in.Data, 0)
			for i := range dims {
				a := spectrum.Axis(i)
				testutil.RequireSliceNearlyEqual(t, out.Scale(a), in.Scale(a), 0)
			}
			if out.SpaceMode != spectrum.Momentum {
				t.Fatalf("SpaceMode = %v, want Momentum", out.SpaceMode)
			}
			if got, _ := out.Property.Get(spectrum.KeyPath); got != `C:\data\"quoted".pxt` {
				t.Fatalf("Path = %q", got)
			}
		})
	}
}

func TestEncodeLeavesSpectrum(t *testing.T) {
	s, err := spectrum.New("line", []float64{1, 2, 3}, []int{3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Property.Delete("XMin")
	if err := Encode(&bytes.Buffer{}, s); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, ok := s.Property.Get("XMin"); ok {
		t.Fatal("Encode modified the property map")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		cause error
	}{
		{name: "empty", text: ""},
		{name: "signature", text: strings.Replace(sample, "#Igor to Python", "#Python to Igor", 1)},
		{name: "no data", text: sample[:strings.Index(sample, "[Data]")]},
		{name: "missing key", text: strings.Replace(sample, `"TStep":"0"`, "", 1), cause: spectrum.ErrMissingProperty},
		{name: "bad header", text: strings.Replace(sample, `"Sample":"Bi2Se3"`, `"Sample" Bi2Se3`, 1), cause: spectrum.ErrParse},
		{name: "scale count", text: strings.Replace(sample, "10\t20\n", "", 1)},
		{name: "scale value", text: strings.Replace(sample, "10\t20", "10\tabc", 1)},
		{name: "data count", text: strings.Replace(sample, "5\tNaN", "5", 1), cause: spectrum.ErrShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tc.text), "x")
			if !errors.Is(err, ErrNotStandard) {
				t.Fatalf("err = %v, want ErrNotStandard", err)
			}
			if tc.cause != nil && !errors.Is(err, tc.cause) {
				t.Fatalf("err = %v, want cause %v", err, tc.cause)
			}
			if s != nil {
				t.Fatal("Decode returned a spectrum with an error")
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	in, err := Decode(strings.NewReader(sample), "cut")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	path := filepath.Join(dir, "export"+Ext)
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Name != "export" {
		t.Fatalf("Name = %q, want export", out.Name)
	}
	if got, _ := out.Property.Get(spectrum.KeyPath); got != path {
		t.Fatalf("Path = %q, want %q", got, path)
	}
}
