// Package format loads and saves spectra by file extension.
//
//	.arpy   self-describing binary (format/arpy)
//	.pxt    Igor packed template, waves named after the file (format/igor)
//	.pxp    Igor packed experiment, waves keep their own names (format/igor)
//	.ig2py  "#Igor to Python" text export (format/ig2py)
//
// Extensions are matched case-insensitively.
package format
