// Package ig2py reads and writes the "#Igor to Python" text export.
//
// The file starts with the line "#Igor to Python" followed by three
// sections:
//
//	[Header]
//	"Dimension":"(3, 2)"
//	"XMin":"-1.000000"
//	...
//
//	[Scale]
//	-1	0	1
//	10	20
//
//	[Data]
//	1	2
//	3	4
//	5	6
//
// Header lines use the property text encoding and end at the first blank
// line. Scale lines hold one tab-separated scale per axis. Data values are
// whitespace separated in row-major order.
package ig2py
