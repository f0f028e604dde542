// Package transform implements the in-place axis operations applied to a
// [spectrum.Spectrum]: transposition, mirroring, cropping, rebinning,
// normalization, scale offsets, NaN replacement and Gaussian smoothing.
//
// Every operation validates its arguments and computes into fresh buffers
// before touching the Spectrum. On error the Spectrum is unchanged; on
// success the data, scales and cached axis summaries are replaced and
// [spectrum.Spectrum.MarkModified] is called.
//
// # Usage
//
//	if err := transform.Crop(s, transform.Range{Lo: -10, Hi: 10}); err != nil {
//	    return err
//	}
//	if err := transform.Merge(s, 2, 1); err != nil {
//	    return err
//	}
//
// A Spectrum must not be transformed from two goroutines at once.
package transform
