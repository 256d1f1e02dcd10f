// Package raster implements the in-memory raster data model: samples,
// pixels, palettes, masks, rasters and tiles, plus the self-consistency
// matrix that constrains which (SampleType, PixelType, bands) combinations
// are legal.
package raster

import "math"

// SampleType enumerates the numeric storage kinds a Sample can hold,
// including the sub-byte widths that are packed into uint8 storage.
type SampleType byte

const (
	SampleUnknown SampleType = iota
	Sample1Bit
	Sample2Bit
	Sample4Bit
	SampleInt8
	SampleUint8
	SampleInt16
	SampleUint16
	SampleInt32
	SampleUint32
	SampleFloat32
	SampleFloat64
)

// String returns the ASCII label used on the wire (§6).
func (t SampleType) String() string {
	switch t {
	case Sample1Bit:
		return "1-BIT"
	case Sample2Bit:
		return "2-BIT"
	case Sample4Bit:
		return "4-BIT"
	case SampleInt8:
		return "INT8"
	case SampleUint8:
		return "UINT8"
	case SampleInt16:
		return "INT16"
	case SampleUint16:
		return "UINT16"
	case SampleInt32:
		return "INT32"
	case SampleUint32:
		return "UINT32"
	case SampleFloat32:
		return "FLOAT"
	case SampleFloat64:
		return "DOUBLE"
	default:
		return "UNKNOWN"
	}
}

// BitWidth returns the number of bits one sample occupies when packed,
// for the sub-byte types; for byte-and-larger types it returns the full
// bit width of the storage unit (8, 16, 32 or 64).
func (t SampleType) BitWidth() int {
	switch t {
	case Sample1Bit:
		return 1
	case Sample2Bit:
		return 2
	case Sample4Bit:
		return 4
	case SampleInt8, SampleUint8:
		return 8
	case SampleInt16, SampleUint16:
		return 16
	case SampleInt32, SampleUint32, SampleFloat32:
		return 32
	case SampleFloat64:
		return 64
	default:
		return 0
	}
}

// ByteSize returns the number of bytes one sample occupies in an
// unpacked, row-major pixel buffer. Sub-byte samples occupy one byte
// each in the unpacked in-memory representation; packing to sub-byte
// widths only happens at encode time (see internal/codec).
func (t SampleType) ByteSize() int {
	switch t {
	case Sample1Bit, Sample2Bit, Sample4Bit, SampleInt8, SampleUint8:
		return 1
	case SampleInt16, SampleUint16:
		return 2
	case SampleInt32, SampleUint32, SampleFloat32:
		return 4
	case SampleFloat64:
		return 8
	default:
		return 0
	}
}

// IsSubByte reports whether t is one of the 1/2/4-bit packed widths.
func (t SampleType) IsSubByte() bool {
	switch t {
	case Sample1Bit, Sample2Bit, Sample4Bit:
		return true
	default:
		return false
	}
}

// MaxValue returns the largest value a sample of this sub-byte width may
// hold (used to validate that packed values fit their declared width).
func (t SampleType) MaxValue() uint64 {
	switch t {
	case Sample1Bit:
		return 1
	case Sample2Bit:
		return 3
	case Sample4Bit:
		return 15
	default:
		return math.MaxUint64
	}
}

// Sample is a single numeric pixel component. It stores every variant's
// bit pattern in a fixed-width uint64 field and reinterprets it according
// to Type, mirroring the teacher's IFD tag-value storage (one field,
// many declared types) rather than a Go interface per sample kind —
// interfaces would force a heap allocation per sample in the inner pixel
// loops the spec explicitly asks to keep allocation-free (§4.7, §9).
type Sample struct {
	Type SampleType
	bits uint64
}

// NewIntSample builds a Sample for any integer SampleType (including the
// sub-byte widths) from a signed 64-bit value.
func NewIntSample(t SampleType, v int64) Sample {
	return Sample{Type: t, bits: uint64(v)}
}

// NewFloatSample builds a Sample for SampleFloat32 or SampleFloat64.
func NewFloatSample(t SampleType, v float64) Sample {
	switch t {
	case SampleFloat32:
		return Sample{Type: t, bits: uint64(math.Float32bits(float32(v)))}
	default:
		return Sample{Type: t, bits: math.Float64bits(v)}
	}
}

// Int returns the sample's value as a signed 64-bit integer. Valid for
// every integer SampleType, including the sub-byte widths.
func (s Sample) Int() int64 {
	switch s.Type {
	case SampleInt8:
		return int64(int8(s.bits))
	case SampleInt16:
		return int64(int16(s.bits))
	case SampleInt32:
		return int64(int32(s.bits))
	default:
		return int64(s.bits)
	}
}

// Uint returns the sample's value as an unsigned 64-bit integer.
func (s Sample) Uint() uint64 { return s.bits }

// Float returns the sample's value as a float64, converting integer
// types numerically.
func (s Sample) Float() float64 {
	switch s.Type {
	case SampleFloat32:
		return float64(math.Float32frombits(uint32(s.bits)))
	case SampleFloat64:
		return math.Float64frombits(s.bits)
	case SampleInt8, SampleInt16, SampleInt32:
		return float64(s.Int())
	default:
		return float64(s.bits)
	}
}

// FitsWidth reports whether the sample's integer value fits the bit
// width declared by its own Type (only meaningful for sub-byte types;
// always true otherwise).
func (s Sample) FitsWidth() bool {
	if !s.Type.IsSubByte() {
		return true
	}
	return s.bits <= s.Type.MaxValue()
}

// Equal reports whether two samples of the same Type carry the same
// bit pattern. Used by NoData comparison (§4.1) and by Property P1's
// bit-for-bit round trip check.
func (s Sample) Equal(o Sample) bool {
	return s.Type == o.Type && s.bits == o.bits
}
