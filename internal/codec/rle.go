package codec

import "github.com/rl2go/rl2/internal/errs"

// EncodeRLEMask run-length encodes a width*height 0/1 mask, row by row
// (§4.2). Runs of identical values up to 128 long are emitted as one
// signed byte: positive b encodes a run of (b+1) ones; negative b encodes
// a run of (-b) zeros. Rows never merge.
func EncodeRLEMask(mask []byte, width, height int) ([]byte, error) {
	if len(mask) != width*height {
		return nil, errs.Invalid("codec: mask size %d does not match width*height=%d", len(mask), width*height)
	}
	out := make([]byte, 0, height*4)
	for r := 0; r < height; r++ {
		row := mask[r*width : (r+1)*width]
		out = append(out, encodeRLERow(row)...)
	}
	return out, nil
}

func encodeRLERow(row []byte) []byte {
	var out []byte
	i := 0
	for i < len(row) {
		v := row[i]
		run := 1
		for i+run < len(row) && row[i+run] == v && run < 128 {
			run++
		}
		if v == 1 {
			out = append(out, byte(int8(run-1)))
		} else {
			out = append(out, byte(int8(-run)))
		}
		i += run
	}
	return out
}

// DecodeRLEMask reverses EncodeRLEMask, validating that each row's runs
// sum to exactly width pixels (§4.2, Property P5).
func DecodeRLEMask(data []byte, width, height int) ([]byte, error) {
	out := make([]byte, 0, width*height)
	pos := 0
	for r := 0; r < height; r++ {
		count := 0
		for count < width {
			if pos >= len(data) {
				return nil, errs.Corrupt("codec: RLE mask truncated at row %d", r)
			}
			b := int8(data[pos])
			pos++
			if b >= 0 {
				run := int(b) + 1
				count += run
				for k := 0; k < run; k++ {
					out = append(out, 1)
				}
			} else {
				run := -int(b)
				count += run
				for k := 0; k < run; k++ {
					out = append(out, 0)
				}
			}
		}
		if count != width {
			return nil, errs.Corrupt("codec: RLE mask row %d decoded to %d pixels, want %d", r, count, width)
		}
	}
	return out, nil
}
