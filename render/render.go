// Package render formats a finished 256-byte memory image for display.
package render

import "strings"

// Image is the fixed-size memory image produced by package codegen for a
// single program.
type Image [256]byte

// Hex renders img as upper-case, space-separated hex bytes, the canonical
// output format for a compiled program.
func (img Image) Hex() string {
	var b strings.Builder
	b.Grow(len(img)*3 - 1)
	const digits = "0123456789ABCDEF"
	for i, v := range img {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[v>>4])
		b.WriteByte(digits[v&0x0F])
	}
	return b.String()
}
