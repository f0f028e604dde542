package format

import (
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
	"github.com/cwbudde/algo-arpes/format/arpy"
	"github.com/cwbudde/algo-arpes/format/ig2py"
	"github.com/cwbudde/algo-arpes/format/igor"
	"github.com/pkg/errors"
)

// ErrUnknownFormat is returned for unsupported file extensions.
var ErrUnknownFormat = errors.New("format: unknown file format")

// ErrSingle is returned when a single-spectrum format is asked to store
// several spectra.
var ErrSingle = errors.New("format: format holds exactly one spectrum")

// Extensions lists the supported file extensions.
func Extensions() []string {
	return []string{arpy.Ext, igor.ExtTemplate, igor.ExtExperiment, ig2py.Ext}
}

// Supported reports whether path has a known extension.
func Supported(path string) bool {
	switch ext(path) {
	case arpy.Ext, igor.ExtTemplate, igor.ExtExperiment, ig2py.Ext:
		return true
	}
	return false
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Load reads every spectrum stored in the file at path.
func Load(path string) ([]*spectrum.Spectrum, error) {
	switch ext(path) {
	case arpy.Ext:
		s, err := arpy.Load(path)
		if err != nil {
			return nil, err
		}
		return []*spectrum.Spectrum{s}, nil
	case ig2py.Ext:
		s, err := ig2py.Load(path)
		if err != nil {
			return nil, err
		}
		return []*spectrum.Spectrum{s}, nil
	case igor.ExtTemplate:
		return igor.Load(path, igor.WithFileName(true))
	case igor.ExtExperiment:
		return igor.Load(path)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", filepath.Ext(path))
}

// Save writes specs to path. The Igor formats accept any number of spectra;
// the others exactly one.
func Save(path string, specs ...*spectrum.Spectrum) error {
	switch e := ext(path); e {
	case igor.ExtTemplate, igor.ExtExperiment:
		return igor.Save(path, specs...)
	case arpy.Ext, ig2py.Ext:
		if len(specs) != 1 {
			return errors.Wrapf(ErrSingle, "%s: %d spectra", e, len(specs))
		}
		if e == arpy.Ext {
			return arpy.Save(path, specs[0])
		}
		return ig2py.Save(path, specs[0])
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", filepath.Ext(path))
}
