package cc_init

import (
	"math/big"

	"github.com/c17core/c17core/internal/cc_const"
)

// Relocation records a constant address folded into a static image at
// ByteOffset; width bytes starting there are not literal data, since no
// backend link-time representation exists yet for "address of X".
type Relocation struct {
	ByteOffset int64
	Width      int64
	Address    cc_const.Address
}

// StaticImage is the backend constant an elaboration of a static-storage
// target assembles: a flat byte buffer plus any addresses folded into it.
// Every leaf write lands at its final byte offset directly, so overlapping
// writes through a union (or through a designator that rewinds the member
// iterator) naturally produce last-write-wins semantics without any
// special-casing in the struct/array walk.
type StaticImage struct {
	Bytes       []byte
	Relocations []Relocation
}

func newStaticImage(width int64) *StaticImage {
	return &StaticImage{Bytes: make([]byte, width)}
}

// ZeroImage returns a zero-filled static image of the given width. Exported
// for cc_parser's tentative-definition merge (spec.md section 4.4's
// "Tentative definition" glossary entry): a file-scope object with no
// initializer anywhere in the translation unit is defined with exactly this
// implicit zero initializer.
func ZeroImage(width int64) *StaticImage {
	return newStaticImage(width)
}

func (img *StaticImage) ensure(offset, width int64) {
	need := offset + width
	if int64(len(img.Bytes)) < need {
		grown := make([]byte, need)
		copy(grown, img.Bytes)
		img.Bytes = grown
	}
}

// writeValue stores v at offset as width little-endian bytes (spec.md
// section 4.6's "static constants are byte images the backend can emit
// directly"). A folded address is recorded as a relocation instead of raw
// bytes, since its value isn't known until link time.
func (img *StaticImage) writeValue(offset, width int64, v cc_const.Value) {
	img.ensure(offset, width)
	if v.Kind == cc_const.KAddress {
		img.Relocations = append(img.Relocations, Relocation{ByteOffset: offset, Width: width, Address: v.Address})
		return
	}
	var i *big.Int
	switch v.Kind {
	case cc_const.KInt:
		i = v.Int
	case cc_const.KFloat:
		f, _ := v.Float.Int(nil)
		i = f
	}
	putLittleEndian(img.Bytes[offset:offset+width], i)
}

// writeBitfield implements spec.md section 4.6's bit-field-into-constant
// packing algorithm: zero out the [begin, begin+width) slice of the
// existing storage word, shift the new value left by begin, OR it in, and
// store the word back. The storage word is addressed by the byte offset of
// the field's containing access unit and spans the (begin+width+7)/8 bytes
// it needs there, at most 8; after the merge it is written back into those
// bytes little-endian.
func (img *StaticImage) writeBitfield(offset int64, begin, width int, v cc_const.Value) {
	unitWidth := int64((begin + width + 7) / 8)
	if unitWidth > 8 {
		unitWidth = 8
	}
	if unitWidth == 0 {
		unitWidth = 1
	}
	img.ensure(offset, unitWidth)

	word := new(big.Int).SetBytes(reverseBytes(img.Bytes[offset : offset+unitWidth]))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	mask.Lsh(mask, uint(begin))
	word.AndNot(word, mask)

	var raw *big.Int
	if v.Kind == cc_const.KFloat {
		raw, _ = v.Float.Int(nil)
	} else {
		raw = v.Int
	}
	field := new(big.Int).And(raw, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1)))
	field.Lsh(field, uint(begin))
	word.Or(word, field)

	putLittleEndian(img.Bytes[offset:offset+unitWidth], word)
}

// putLittleEndian writes v's low len(dst)*8 bits into dst, little-endian,
// taking v's two's-complement representation when it is negative.
func putLittleEndian(dst []byte, v *big.Int) {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(len(dst))*8)
	wrapped := new(big.Int).Mod(v, modulus)
	raw := wrapped.Bytes() // big-endian, unsigned, no leading zero padding
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < len(raw) && i < len(dst); i++ {
		dst[len(dst)-1-i] = raw[len(raw)-1-i]
	}
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
