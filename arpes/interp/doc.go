// Package interp provides the resampling primitives used by momentum-space
// conversion:
//
//   - [Linspace]: n evenly spaced points including both end points
//   - [Linear]:   1D piecewise-linear interpolation with a fill value
//   - [Grid2D]:   bilinear interpolation on a regular, possibly descending grid
//
// Queries outside the sampled range return the fill value (NaN for Grid2D)
// rather than extrapolating.
package interp
