package compress

import (
	"encoding/binary"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// ccittFax4Backend is a from-scratch bilevel run-length transform used as
// this module's CCITTFAX4 back-end. No pure-Go Group 4 (T.6) codec was
// found anywhere in the retrieved example pack (see DESIGN.md); rather
// than fabricate a dependency, this implements the same run-length shape
// already specified for mask encoding (§4.2) applied to the 1-bit pixel
// stream itself: each row is a sequence of run lengths, alternating
// white/black starting from white (a row that starts black begins with a
// zero-length white run), varint-encoded. It is only ever
// selected for Monochrome (1-bit, 1-band) rasters (§4.6).
type ccittFax4Backend struct{}

func (ccittFax4Backend) Code() raster.Compression { return raster.CompressionCCITTFax4 }

func (ccittFax4Backend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	if pt != raster.Monochrome {
		return nil, errs.Unsupported("ccittfax4: only Monochrome rasters are supported, got %s", pt)
	}
	if len(payload) != width*height {
		return nil, errs.Invalid("ccittfax4: payload size %d does not match width*height=%d", len(payload), width*height)
	}
	var out []byte
	var buf [binary.MaxVarintLen64]byte
	for r := 0; r < height; r++ {
		row := payload[r*width : (r+1)*width]
		i := 0
		cur := byte(0) // white (0) first, per T.6 convention
		for i < width {
			run := 0
			for i+run < width && row[i+run] == cur {
				run++
			}
			n := binary.PutUvarint(buf[:], uint64(run))
			out = append(out, buf[:n]...)
			i += run
			cur ^= 1
		}
		// Row terminator: a zero-length run after the row's pixels. Only a
		// row's leading white run can otherwise be zero-length, and that one
		// is read before any pixel of the row.
		n := binary.PutUvarint(buf[:], 0)
		out = append(out, buf[:n]...)
	}
	return out, nil
}

func (ccittFax4Backend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	out := make([]byte, width*height)
	pos := 0
	for r := 0; r < height; r++ {
		col := 0
		cur := byte(0)
		for {
			if pos >= len(data) {
				return nil, errs.Corrupt("ccittfax4: truncated stream at row %d", r)
			}
			run, n := binary.Uvarint(data[pos:])
			if n <= 0 {
				return nil, errs.Corrupt("ccittfax4: invalid varint at row %d", r)
			}
			pos += n
			if run == 0 && col > 0 {
				break // row terminator
			}
			if col+int(run) > width {
				return nil, errs.Corrupt("ccittfax4: row %d run overruns width", r)
			}
			for k := 0; k < int(run); k++ {
				out[r*width+col] = cur
				col++
			}
			cur ^= 1
		}
		if col != width {
			return nil, errs.Corrupt("ccittfax4: row %d decoded to %d pixels, want %d", r, col, width)
		}
	}
	return out, nil
}
