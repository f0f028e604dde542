// Package igor reads and writes Igor Pro packed experiment and template files
// (.pxp, .pxt) restricted to version-5 numeric wave records.
//
// A packed file is a sequence of records, each introduced by a small record
// header. Wave records carry a binary header, a wave header, the point data in
// column-major order and a set of optional blobs (formula, note, units,
// labels). Every other record kind is skipped.
package igor
