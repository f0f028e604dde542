// Package arpy reads and writes the self-describing ARPY_FILE format.
//
// A file is a fixed little-endian header (magic, energy-axis code,
// space-mode code, rank and four extents) followed by one float64 scale per
// present axis and the data as float32 in column-major order.
package arpy
