package raster

import "github.com/rl2go/rl2/internal/errs"

// PixelType enumerates the pixel kinds of §3.
type PixelType byte

const (
	PixelUnknown PixelType = iota
	Monochrome
	PalettePixel
	Grayscale
	RGB
	MultiBand
	DataGrid
)

// String returns the ASCII label used on the wire (§6).
func (p PixelType) String() string {
	switch p {
	case Monochrome:
		return "MONOCHROME"
	case PalettePixel:
		return "PALETTE"
	case Grayscale:
		return "GRAYSCALE"
	case RGB:
		return "RGB"
	case MultiBand:
		return "MULTIBAND"
	case DataGrid:
		return "DATAGRID"
	default:
		return "UNKNOWN"
	}
}

// Pixel is a fixed-width tuple of Samples of uniform SampleType (§3).
type Pixel struct {
	SampleType  SampleType
	PixelType   PixelType
	Transparent bool
	Samples     []Sample
}

// NewPixel validates (SampleType, PixelType, len(samples)) against the
// self-consistency matrix and that every sample matches SampleType.
func NewPixel(st SampleType, pt PixelType, samples []Sample) (Pixel, error) {
	if !MatrixAllows(st, pt, len(samples)) {
		return Pixel{}, errs.Invalid("pixel: (%s,%s,bands=%d) is not in the self-consistency matrix", st, pt, len(samples))
	}
	for i, s := range samples {
		if s.Type != st {
			return Pixel{}, errs.Invalid("pixel: sample %d has type %s, want %s", i, s.Type, st)
		}
		if !s.FitsWidth() {
			return Pixel{}, errs.Invalid("pixel: sample %d value %d does not fit declared width %s", i, s.Uint(), st)
		}
	}
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	return Pixel{SampleType: st, PixelType: pt, Samples: cp}, nil
}

// Bands returns the number of samples (bands) in the pixel.
func (p Pixel) Bands() int { return len(p.Samples) }

// EqualSamples reports whether p and o carry bit-identical samples of the
// same type and count (used for NoData comparison — ignores Transparent).
func (p Pixel) EqualSamples(o Pixel) bool {
	if p.SampleType != o.SampleType || len(p.Samples) != len(o.Samples) {
		return false
	}
	for i := range p.Samples {
		if !p.Samples[i].Equal(o.Samples[i]) {
			return false
		}
	}
	return true
}

// Get returns the i'th sample, validating the index against bounds.
func (p Pixel) Get(i int) (Sample, error) {
	if i < 0 || i >= len(p.Samples) {
		return Sample{}, errs.Invalid("pixel: band index %d out of range [0,%d)", i, len(p.Samples))
	}
	return p.Samples[i], nil
}

// Set replaces the i'th sample, validating both bounds and type.
func (p *Pixel) Set(i int, s Sample) error {
	if i < 0 || i >= len(p.Samples) {
		return errs.Invalid("pixel: band index %d out of range [0,%d)", i, len(p.Samples))
	}
	if s.Type != p.SampleType {
		return errs.Invalid("pixel: sample type %s does not match pixel sample type %s", s.Type, p.SampleType)
	}
	if !s.FitsWidth() {
		return errs.Invalid("pixel: value %d does not fit declared width %s", s.Uint(), s.Type)
	}
	p.Samples[i] = s
	return nil
}
