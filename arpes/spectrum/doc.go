// Package spectrum defines the Spectrum entity: a dense 1D–4D intensity
// array with one physical scale per axis and a string property map used as
// the serializable metadata surface.
//
// Data is stored row-major over Dimension, so for a 3D spectrum the element
// (x, y, z) lives at (x*ny+y)*nz+z. Scales are presumed monotonic; Min and Max
// are the first and last scale values and Step is Scale[1]-Scale[0].
//
// Every Spectrum carries a checkpoint ("raw") copy of its data, scales and
// property map. [Spectrum.Save] commits the working copy and
// [Spectrum.Restore] rolls back to the last commit. Operations that rewrite
// the working copy call [Spectrum.MarkModified].
//
// A Spectrum is not safe for concurrent mutation.
package spectrum
