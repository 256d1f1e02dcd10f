// Package envelope implements the axis-aligned rectangle blob of §4.12:
// the opaque geometry every persisted tile row carries for the host's
// spatial index to consult.
package envelope

import (
	"encoding/binary"
	"math"

	"github.com/rl2go/rl2/internal/errs"
)

func floatBits(v float64) uint64 { return math.Float64bits(v) }
func bitsFloat(b uint64) float64 { return math.Float64frombits(b) }

// Rect is an axis-aligned bounding rectangle in the coverage's own SRID
// units. The SRID itself is carried out-of-band by the host (§9(d)):
// Rect treats the rectangle as an opaque pair of corners.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// encodedSize is the fixed wire size: four little-endian float64 fields.
const encodedSize = 32

// Encode returns the 32-byte little-endian blob the host's spatial
// index stores alongside each tile row (§4.12).
func (r Rect) Encode() []byte {
	buf := make([]byte, encodedSize)
	binary.LittleEndian.PutUint64(buf[0:8], floatBits(r.MinX))
	binary.LittleEndian.PutUint64(buf[8:16], floatBits(r.MinY))
	binary.LittleEndian.PutUint64(buf[16:24], floatBits(r.MaxX))
	binary.LittleEndian.PutUint64(buf[24:32], floatBits(r.MaxY))
	return buf
}

// Decode parses a blob produced by Encode.
func Decode(data []byte) (Rect, error) {
	if len(data) != encodedSize {
		return Rect{}, errs.Corrupt("envelope: blob size %d, want %d", len(data), encodedSize)
	}
	return Rect{
		MinX: bitsFloat(binary.LittleEndian.Uint64(data[0:8])),
		MinY: bitsFloat(binary.LittleEndian.Uint64(data[8:16])),
		MaxX: bitsFloat(binary.LittleEndian.Uint64(data[16:24])),
		MaxY: bitsFloat(binary.LittleEndian.Uint64(data[24:32])),
	}, nil
}

// Intersects reports whether a and b overlap, including edge-touching
// rectangles (a closed-interval overlap test).
func Intersects(a, b Rect) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX && a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

// Width and Height return the rectangle's extent along each axis.
func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
