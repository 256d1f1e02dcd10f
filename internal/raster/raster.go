package raster

import (
	"encoding/binary"

	"github.com/rl2go/rl2/internal/errs"
)

// Georeference carries the optional axis-aligned spatial reference of a
// Raster (§3): an SRID, a bounding extent, and per-axis resolution. Only
// axis-aligned resolution+origin georeferencing is supported (§1
// Non-goals: "no arbitrary affine georeferencing").
type Georeference struct {
	SRID                   int
	MinX, MinY, MaxX, MaxY float64
	HRes, VRes             float64
}

// Raster is a rectangular pixel grid (§3). It owns its pixel buffer, its
// optional mask, its optional Palette and an optional NoData Pixel.
type Raster struct {
	Width, Height int
	SampleType    SampleType
	PixelType     PixelType
	Bands         int

	// Pix is the row-major, unpacked pixel buffer: Width*Height*Bands
	// samples, each SampleType.ByteSize() bytes, little-endian.
	Pix []byte

	Mask    *Mask
	Palette *Palette
	NoData  *Pixel

	Geo *Georeference
}

// Config bundles the construction parameters for New.
type Config struct {
	Width, Height int
	SampleType    SampleType
	PixelType     PixelType
	Bands         int
	Pix           []byte
	Mask          *Mask
	Palette       *Palette
	NoData        *Pixel
	Geo           *Georeference
}

// New validates cfg against every invariant of §4.1 and returns an owned
// Raster. The returned Raster copies cfg.Pix so the caller's buffer may
// be reused or discarded.
func New(cfg Config) (*Raster, error) {
	if cfg.Width < 1 || cfg.Width > 65535 || cfg.Height < 1 || cfg.Height > 65535 {
		return nil, errs.Invalid("raster: size %dx%d out of range [1,65535]", cfg.Width, cfg.Height)
	}
	if !MatrixAllows(cfg.SampleType, cfg.PixelType, cfg.Bands) {
		return nil, errs.Invalid("raster: (%s,%s,bands=%d) is not in the self-consistency matrix", cfg.SampleType, cfg.PixelType, cfg.Bands)
	}
	wantLen := cfg.Width * cfg.Height * cfg.Bands * cfg.SampleType.ByteSize()
	if len(cfg.Pix) != wantLen {
		return nil, errs.Invalid("raster: pixel buffer size %d does not match W*H*N*bytes=%d", len(cfg.Pix), wantLen)
	}
	if cfg.Mask != nil {
		if cfg.Mask.Width != cfg.Width || cfg.Mask.Height != cfg.Height {
			return nil, errs.Invalid("raster: mask size %dx%d does not match raster size %dx%d", cfg.Mask.Width, cfg.Mask.Height, cfg.Width, cfg.Height)
		}
	}
	if cfg.Palette != nil && cfg.PixelType != PalettePixel {
		return nil, errs.Invalid("raster: a palette was supplied but PixelType is %s, want PALETTE", cfg.PixelType)
	}
	if cfg.PixelType == PalettePixel && cfg.Palette == nil {
		return nil, errs.Invalid("raster: PixelType is PALETTE but no palette was supplied")
	}
	if cfg.NoData != nil {
		if cfg.NoData.SampleType != cfg.SampleType || cfg.NoData.PixelType != cfg.PixelType || cfg.NoData.Bands() != cfg.Bands {
			return nil, errs.Invalid("raster: NoData pixel shape does not match raster shape")
		}
	}

	r := &Raster{
		Width:      cfg.Width,
		Height:     cfg.Height,
		SampleType: cfg.SampleType,
		PixelType:  cfg.PixelType,
		Bands:      cfg.Bands,
		Mask:       cfg.Mask,
		Palette:    cfg.Palette,
		NoData:     cfg.NoData,
		Geo:        cfg.Geo,
	}
	r.Pix = make([]byte, len(cfg.Pix))
	copy(r.Pix, cfg.Pix)

	if err := r.validatePixelValues(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Raster) validatePixelValues() error {
	n := r.Width * r.Height * r.Bands
	bw := r.SampleType.ByteSize()
	maxIdx := uint64(0)
	if r.PixelType == PalettePixel {
		maxIdx = uint64(r.Palette.Len() - 1)
	}
	for i := 0; i < n; i++ {
		raw := readRaw(r.Pix[i*bw:], r.SampleType)
		if r.SampleType.IsSubByte() && raw > r.SampleType.MaxValue() {
			return errs.Invalid("raster: sample %d value %d does not fit declared width %s", i, raw, r.SampleType)
		}
		if r.PixelType == PalettePixel && raw > maxIdx {
			return errs.Invalid("raster: sample %d is palette index %d, palette has %d entries", i, raw, r.Palette.Len())
		}
	}
	return nil
}

func readRaw(b []byte, t SampleType) uint64 {
	switch t {
	case Sample1Bit, Sample2Bit, Sample4Bit, SampleInt8, SampleUint8:
		return uint64(b[0])
	case SampleInt16, SampleUint16:
		return uint64(binary.LittleEndian.Uint16(b))
	case SampleInt32, SampleUint32, SampleFloat32:
		return uint64(binary.LittleEndian.Uint32(b))
	case SampleFloat64:
		return binary.LittleEndian.Uint64(b)
	default:
		return 0
	}
}

// offset returns the byte offset of the first sample of (row,col).
func (r *Raster) offset(row, col int) int {
	return (row*r.Width + col) * r.Bands * r.SampleType.ByteSize()
}

// GetPixel reads the Pixel at (row,col), consulting the mask and NoData
// to determine transparency (§4.1).
func (r *Raster) GetPixel(row, col int) (Pixel, error) {
	if row < 0 || row >= r.Height || col < 0 || col >= r.Width {
		return Pixel{}, errs.Invalid("raster: (row=%d,col=%d) out of range (%d,%d)", row, col, r.Height, r.Width)
	}
	bw := r.SampleType.ByteSize()
	off := r.offset(row, col)
	samples := make([]Sample, r.Bands)
	for b := 0; b < r.Bands; b++ {
		samples[b] = decodeSample(r.Pix[off+b*bw:off+(b+1)*bw], r.SampleType)
	}
	p := Pixel{SampleType: r.SampleType, PixelType: r.PixelType, Samples: samples}

	if r.Mask != nil {
		opaque, err := r.Mask.At(row, col)
		if err != nil {
			return Pixel{}, err
		}
		if !opaque {
			p.Transparent = true
		}
	}
	if r.NoData != nil && p.EqualSamples(*r.NoData) {
		p.Transparent = true
	}
	return p, nil
}

// SetPixel writes p at (row,col). p's shape must match the raster's.
func (r *Raster) SetPixel(row, col int, p Pixel) error {
	if row < 0 || row >= r.Height || col < 0 || col >= r.Width {
		return errs.Invalid("raster: (row=%d,col=%d) out of range (%d,%d)", row, col, r.Height, r.Width)
	}
	if p.SampleType != r.SampleType || len(p.Samples) != r.Bands {
		return errs.Invalid("raster: pixel shape does not match raster shape")
	}
	bw := r.SampleType.ByteSize()
	off := r.offset(row, col)
	for b := 0; b < r.Bands; b++ {
		encodeSample(r.Pix[off+b*bw:off+(b+1)*bw], p.Samples[b])
	}
	return nil
}

func decodeSample(b []byte, t SampleType) Sample {
	switch t {
	case Sample1Bit, Sample2Bit, Sample4Bit, SampleUint8:
		return Sample{Type: t, bits: uint64(b[0])}
	case SampleInt8:
		return Sample{Type: t, bits: uint64(int64(int8(b[0])))}
	case SampleUint16:
		return Sample{Type: t, bits: uint64(binary.LittleEndian.Uint16(b))}
	case SampleInt16:
		return Sample{Type: t, bits: uint64(int64(int16(binary.LittleEndian.Uint16(b))))}
	case SampleUint32:
		return Sample{Type: t, bits: uint64(binary.LittleEndian.Uint32(b))}
	case SampleInt32:
		return Sample{Type: t, bits: uint64(int64(int32(binary.LittleEndian.Uint32(b))))}
	case SampleFloat32:
		return Sample{Type: t, bits: uint64(binary.LittleEndian.Uint32(b))}
	case SampleFloat64:
		return Sample{Type: t, bits: binary.LittleEndian.Uint64(b)}
	default:
		return Sample{Type: t}
	}
}

func encodeSample(b []byte, s Sample) { EncodeSampleBytes(b, s) }

// EncodeSampleBytes writes s into b using the little-endian unpacked
// layout Raster.Pix stores samples in for s.Type: callers building a
// Pix buffer by hand (padding, downsampling, rendering) use this
// instead of duplicating the encoding.
func EncodeSampleBytes(b []byte, s Sample) {
	switch s.Type {
	case Sample1Bit, Sample2Bit, Sample4Bit, SampleUint8, SampleInt8:
		b[0] = byte(s.bits)
	case SampleUint16, SampleInt16:
		binary.LittleEndian.PutUint16(b, uint16(s.bits))
	case SampleUint32, SampleInt32, SampleFloat32:
		binary.LittleEndian.PutUint32(b, uint32(s.bits))
	case SampleFloat64:
		binary.LittleEndian.PutUint64(b, s.bits)
	}
}

// Extent returns the raster's geographic bounding extent; rasters with
// no Georeference report (0,0)-(W,H) per §3.
func (r *Raster) Extent() (minX, minY, maxX, maxY float64) {
	if r.Geo != nil {
		return r.Geo.MinX, r.Geo.MinY, r.Geo.MaxX, r.Geo.MaxY
	}
	return 0, 0, float64(r.Width), float64(r.Height)
}

// Resolution returns the per-axis pixel resolution; unreferenced rasters
// report a 1.0 unit-per-pixel resolution.
func (r *Raster) Resolution() (hRes, vRes float64) {
	if r.Geo != nil {
		return r.Geo.HRes, r.Geo.VRes
	}
	return 1, 1
}
