// Package codec implements the binary tile codec of §4.2/§4.4: endian
// handling, sub-byte packing, RLE mask encoding, CRC32 integrity, and the
// Odd/Even block framing built on top of internal/compress backends.
package codec

import "github.com/rl2go/rl2/internal/raster"

// Endian identifies the byte order a block was written with (§4.2). The
// codec always writes LittleEndian but must decode blocks written in
// either order, since a coverage may mix byte orders across tiles (§9).
type Endian byte

const (
	BigEndian    Endian = 0
	LittleEndian Endian = 1
)

// WriterEndian is the byte order this implementation writes new blocks
// with.
const WriterEndian = LittleEndian

// hostNeedsSwap reports whether a value written with src endianness must
// be byte-swapped to be read correctly by this decoder, which always
// works in LittleEndian internally (matching raster.Raster's in-memory
// layout).
func hostNeedsSwap(src Endian) bool {
	return src != LittleEndian
}

// swapBytes reverses b in place. Used for multi-byte sample types when
// the block's recorded endian marker differs from this decoder's.
func swapBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// swapSamples byte-swaps every sample of width n*bw in place, where bw is
// SampleType.ByteSize(). No-op for 1-byte and sub-byte sample types.
func swapSamples(buf []byte, st raster.SampleType) {
	bw := st.ByteSize()
	if bw <= 1 {
		return
	}
	for off := 0; off+bw <= len(buf); off += bw {
		swapBytes(buf[off : off+bw])
	}
}
