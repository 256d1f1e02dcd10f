package raster

import (
	"fmt"
	"strconv"

	"github.com/rl2go/rl2/internal/errs"
)

// RGBA is a 4-channel 8-bit color entry.
type RGBA struct {
	R, G, B, A uint8
}

// Palette is an ordered table of up to 256 RGBA entries (§3).
type Palette struct {
	entries []RGBA
}

// NewPalette builds a Palette from up to 256 entries.
func NewPalette(entries []RGBA) (*Palette, error) {
	if len(entries) == 0 || len(entries) > 256 {
		return nil, errs.Invalid("palette: entry count %d out of range [1,256]", len(entries))
	}
	cp := make([]RGBA, len(entries))
	copy(cp, entries)
	return &Palette{entries: cp}, nil
}

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.entries) }

// Entry returns the entry at index i.
func (p *Palette) Entry(i int) (RGBA, error) {
	if i < 0 || i >= len(p.entries) {
		return RGBA{}, errs.Invalid("palette: index %d out of range [0,%d)", i, len(p.entries))
	}
	return p.entries[i], nil
}

// SetEntry replaces the entry at index i.
func (p *Palette) SetEntry(i int, c RGBA) error {
	if i < 0 || i >= len(p.entries) {
		return errs.Invalid("palette: index %d out of range [0,%d)", i, len(p.entries))
	}
	p.entries[i] = c
	return nil
}

// IndexOf returns the index of the first entry matching c exactly, or
// -1 if none matches.
func (p *Palette) IndexOf(c RGBA) int {
	for i, e := range p.entries {
		if e == c {
			return i
		}
	}
	return -1
}

// EffectiveSampleType derives the smallest SampleType that can index
// every entry (§3): 1-bit for <=2 entries, 2-bit for <=4, 4-bit for
// <=16, else uint8.
func (p *Palette) EffectiveSampleType() SampleType {
	n := len(p.entries)
	switch {
	case n <= 2:
		return Sample1Bit
	case n <= 4:
		return Sample2Bit
	case n <= 16:
		return Sample4Bit
	default:
		return SampleUint8
	}
}

// EffectivePixelType derives Monochrome/Grayscale/Palette per §3: the
// canonical black/white pair is Monochrome, a gray ramp matching the
// canonical 4-/16-/256-level spacing is Grayscale, else Palette.
func (p *Palette) EffectivePixelType() PixelType {
	if p.isCanonicalMonochrome() {
		return Monochrome
	}
	if p.isCanonicalGrayscaleRamp() {
		return Grayscale
	}
	return PalettePixel
}

func (p *Palette) isCanonicalMonochrome() bool {
	if len(p.entries) != 2 {
		return false
	}
	isGray := func(c RGBA) (uint8, bool) {
		if c.R != c.G || c.G != c.B {
			return 0, false
		}
		return c.R, true
	}
	v0, ok0 := isGray(p.entries[0])
	v1, ok1 := isGray(p.entries[1])
	if !ok0 || !ok1 {
		return false
	}
	return (v0 == 0 && v1 == 255) || (v0 == 255 && v1 == 0)
}

func (p *Palette) isCanonicalGrayscaleRamp() bool {
	n := len(p.entries)
	if n != 2 && n != 4 && n != 16 && n != 256 {
		return false
	}
	for i, c := range p.entries {
		if c.R != c.G || c.G != c.B || c.A != 255 {
			return false
		}
		want := uint8(0)
		if n > 1 {
			want = uint8((255*i + (n-1)/2) / (n - 1))
		}
		if c.R != want {
			return false
		}
	}
	return true
}

// ParseHex parses a "#RRGGBB" or "#RRGGBBAA" string into an RGBA value.
func ParseHex(s string) (RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return RGBA{}, errs.Invalid("palette: hex color %q must start with '#'", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return RGBA{}, errs.Invalid("palette: hex color %q must have 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, errs.Invalid("palette: invalid hex color %q: %v", s, err)
	}
	if len(hex) == 6 {
		return RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, nil
	}
	return RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex renders c as a "#RRGGBB" string (alpha is dropped, matching the
// common case of fully-opaque palette entries used by color maps).
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
