package codec

import "github.com/rl2go/rl2/internal/errs"

// rowPackedBytes returns the number of bytes one packed row of width
// samples at the given bit width occupies, rounding up (§4.2: "padding
// the last byte of each row with zeros").
func rowPackedBytes(width, bitWidth int) int {
	bits := width * bitWidth
	return (bits + 7) / 8
}

// PackRow packs width unpacked (one byte each) sample values, MSB-first,
// into ceil(width*bitWidth/8) bytes, zero-padding the final byte.
func PackRow(vals []byte, bitWidth int) []byte {
	out := make([]byte, rowPackedBytes(len(vals), bitWidth))
	bitPos := 0
	for _, v := range vals {
		for b := bitWidth - 1; b >= 0; b-- {
			bit := (v >> uint(b)) & 1
			byteIdx := bitPos / 8
			shift := 7 - uint(bitPos%8)
			out[byteIdx] |= bit << shift
			bitPos++
		}
	}
	return out
}

// UnpackRow reverses PackRow, recovering width sample values.
func UnpackRow(packed []byte, width, bitWidth int) []byte {
	out := make([]byte, width)
	bitPos := 0
	for i := 0; i < width; i++ {
		var v byte
		for b := 0; b < bitWidth; b++ {
			byteIdx := bitPos / 8
			shift := 7 - uint(bitPos%8)
			bit := (packed[byteIdx] >> shift) & 1
			v = (v << 1) | bit
			bitPos++
		}
		out[i] = v
	}
	return out
}

// PackRows packs a row-major buffer of width*height unpacked single-band
// samples into independently zero-padded packed rows, concatenated.
func PackRows(raw []byte, width, height, bitWidth int) ([]byte, error) {
	if len(raw) != width*height {
		return nil, errs.Invalid("codec: PackRows input size %d does not match width*height=%d", len(raw), width*height)
	}
	rowBytes := rowPackedBytes(width, bitWidth)
	out := make([]byte, 0, rowBytes*height)
	for r := 0; r < height; r++ {
		out = append(out, PackRow(raw[r*width:(r+1)*width], bitWidth)...)
	}
	return out, nil
}

// UnpackRows reverses PackRows.
func UnpackRows(packed []byte, width, height, bitWidth int) ([]byte, error) {
	rowBytes := rowPackedBytes(width, bitWidth)
	if len(packed) != rowBytes*height {
		return nil, errs.Corrupt("codec: packed buffer size %d does not match %d rows of %d bytes", len(packed), height, rowBytes)
	}
	out := make([]byte, 0, width*height)
	for r := 0; r < height; r++ {
		out = append(out, UnpackRow(packed[r*rowBytes:(r+1)*rowBytes], width, bitWidth)...)
	}
	return out, nil
}
