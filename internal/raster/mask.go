package raster

import "github.com/rl2go/rl2/internal/errs"

// Mask is a W*H byte-map, 0 = transparent, 1 = opaque (§3).
type Mask struct {
	Width, Height int
	Bytes         []byte
}

// NewMask validates that bytes has the right size and only contains 0/1.
func NewMask(width, height int, bytes []byte) (*Mask, error) {
	want := width * height
	if len(bytes) != want {
		return nil, errs.Invalid("mask: buffer size %d does not match width*height=%d", len(bytes), want)
	}
	for i, b := range bytes {
		if b != 0 && b != 1 {
			return nil, errs.Invalid("mask: byte %d has value %d, want 0 or 1", i, b)
		}
	}
	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	return &Mask{Width: width, Height: height, Bytes: cp}, nil
}

// NewOpaqueMask builds a mask with every byte set to 1 (fully opaque).
func NewOpaqueMask(width, height int) *Mask {
	b := make([]byte, width*height)
	for i := range b {
		b[i] = 1
	}
	return &Mask{Width: width, Height: height, Bytes: b}
}

// At returns the mask value at (row, col); true means opaque.
func (m *Mask) At(row, col int) (bool, error) {
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		return false, errs.Invalid("mask: (row=%d,col=%d) out of range (%d,%d)", row, col, m.Height, m.Width)
	}
	return m.Bytes[row*m.Width+col] == 1, nil
}

// Set sets the mask value at (row, col).
func (m *Mask) Set(row, col int, opaque bool) error {
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		return errs.Invalid("mask: (row=%d,col=%d) out of range (%d,%d)", row, col, m.Height, m.Width)
	}
	v := byte(0)
	if opaque {
		v = 1
	}
	m.Bytes[row*m.Width+col] = v
	return nil
}
