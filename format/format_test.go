package format

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/internal/testutil"
)

func testSpectrum(t *testing.T, name string) *spectrum.Spectrum {
	t.Helper()
	s, err := spectrum.New(name, testutil.Ramp(12), []int{4, 3},
		spectrum.WithScales([]float64{-3, -1, 1, 3}, []float64{16.5, 16.75, 17}),
		spectrum.WithSpaceMode(spectrum.Angular),
		spectrum.WithEnergyAxis(spectrum.Y),
		spectrum.WithDataType(spectrum.Float32),
		spectrum.WithNote("spacemode=Angular\renergyAxis=Y"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestLoadSaveEveryFormat(t *testing.T) {
	tests := []struct {
		file string
		name string
	}{
		{file: "cut.arpy", name: "cut"},
		{file: "cut.ig2py", name: "cut"},
		{file: "cut.PXT", name: "cut"},
		{file: "cut.pxp", name: "wave"},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			in := testSpectrum(t, "wave")
			if err := Save(path, in); err != nil {
				t.Fatalf("Save: %v", err)
			}
			specs, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(specs) != 1 {
				t.Fatalf("loaded %d spectra, want 1", len(specs))
			}
			out := specs[0]
			if out.Name != tc.name {
				t.Fatalf("Name = %q, want %q", out.Name, tc.name)
			}
			testutil.RequireSliceNearlyEqual(t, out.Data, in.Data, 0)
			testutil.RequireSliceNearlyEqual(t, out.Scale(spectrum.Y), in.Scale(spectrum.Y), 1e-12)
			if out.SpaceMode != spectrum.Angular || out.EnergyAxis != spectrum.Y {
				t.Fatalf("tags = (%v, %v), want (Angular, Y)", out.SpaceMode, out.EnergyAxis)
			}
			if p, _ := out.Property.Get(spectrum.KeyPath); p != path {
				t.Fatalf("Path = %q, want %q", p, path)
			}
		})
	}
}

func TestSaveMultiple(t *testing.T) {
	dir := t.TempDir()
	a, b := testSpectrum(t, "a"), testSpectrum(t, "b")

	if err := Save(filepath.Join(dir, "two.arpy"), a, b); !errors.Is(err, ErrSingle) {
		t.Fatalf("err = %v, want ErrSingle", err)
	}

	path := filepath.Join(dir, "two.pxp")
	if err := Save(path, a, b); err != nil {
		t.Fatalf("Save: %v", err)
	}
	specs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "a" || specs[1].Name != "b" {
		t.Fatalf("loaded %d spectra", len(specs))
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := Load("scan.h5"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Load err = %v, want ErrUnknownFormat", err)
	}
	if err := Save(filepath.Join(t.TempDir(), "scan"), testSpectrum(t, "s")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Save err = %v, want ErrUnknownFormat", err)
	}
	if Supported("scan.h5") || !Supported("scan.Ig2Py") {
		t.Fatal("Supported disagrees with Load")
	}
	if len(Extensions()) != 4 {
		t.Fatalf("Extensions() = %v", Extensions())
	}
}
