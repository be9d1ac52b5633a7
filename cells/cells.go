package cells

import "unsafe"

// Cell is the closed set of types usable as a tape cell.
//
// All arithmetic on cells wraps at the type's width. Amounts carried by
// increment and decrement instructions are plain cells constrained to be
// non-zero by construction.
type Cell interface {
	~uint8 | ~uint16 | ~uint32
}

// Width returns the cell width in bits.
func Width[C Cell]() int {
	var c C
	return int(unsafe.Sizeof(c)) * 8
}

// Max returns the largest representable cell value.
func Max[C Cell]() uint32 {
	var c C
	c--
	return uint32(c)
}

// CType returns the C type with the same width and signedness, for
// rendering.
func CType[C Cell]() string {
	switch Width[C]() {
	case 8:
		return "unsigned char"
	case 16:
		return "unsigned short"
	default:
		return "unsigned int"
	}
}

// TruncateToByte keeps the low 8 bits of a cell value.
func TruncateToByte[C Cell](v C) byte {
	return byte(v)
}
