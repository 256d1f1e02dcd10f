package raster

// Compression mirrors the codec identifiers of §4.3/§6. Declared here
// (rather than in internal/compress) so the self-consistency matrix can
// reference it without an import cycle — internal/compress imports
// internal/raster, not the other way around.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionDeflate
	CompressionLZMA
	CompressionGIF
	CompressionPNG
	CompressionJPEG
	CompressionLossyWebP
	CompressionLosslessWebP
	CompressionCCITTFax4
)

// String returns the ASCII label used on the wire (§6).
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "NONE"
	case CompressionDeflate:
		return "DEFLATE"
	case CompressionLZMA:
		return "LZMA"
	case CompressionGIF:
		return "GIF"
	case CompressionPNG:
		return "PNG"
	case CompressionJPEG:
		return "JPEG"
	case CompressionLossyWebP:
		return "LOSSY_WEBP"
	case CompressionLosslessWebP:
		return "LOSSLESS_WEBP"
	case CompressionCCITTFax4:
		return "CCITTFAX4"
	default:
		return "UNKNOWN"
	}
}

type matrixKey struct {
	pixel  PixelType
	sample SampleType
}

// matrixEntry describes one legal row of the §4.6 table: the allowed
// band counts (a predicate, since MultiBand allows any count >= 2) and
// the allowed compressions.
type matrixEntry struct {
	bandsOK      func(n int) bool
	compressions map[Compression]bool
}

func exactly(n int) func(int) bool { return func(x int) bool { return x == n } }
func atLeast(n int) func(int) bool { return func(x int) bool { return x >= n } }

func set(cs ...Compression) map[Compression]bool {
	m := make(map[Compression]bool, len(cs))
	for _, c := range cs {
		m[c] = true
	}
	return m
}

// matrix implements the self-consistency table of §4.6. Grayscale and
// Palette accept the same four sample types (1/2/4-bit and uint8); they are
// listed as separate keys because their allowed compressions differ
// (Grayscale alone permits JPEG/WebP).
var matrix = map[matrixKey]matrixEntry{
	{Monochrome, Sample1Bit}: {
		bandsOK:      exactly(1),
		compressions: set(CompressionNone, CompressionPNG, CompressionCCITTFax4, CompressionDeflate, CompressionLZMA, CompressionGIF),
	},
	{PalettePixel, Sample1Bit}: {bandsOK: exactly(1), compressions: paletteCompressions},
	{PalettePixel, Sample2Bit}: {bandsOK: exactly(1), compressions: paletteCompressions},
	{PalettePixel, Sample4Bit}: {bandsOK: exactly(1), compressions: paletteCompressions},
	{PalettePixel, SampleUint8}: {bandsOK: exactly(1), compressions: paletteCompressions},

	{Grayscale, Sample1Bit}:  {bandsOK: exactly(1), compressions: grayscaleCompressions},
	{Grayscale, Sample2Bit}:  {bandsOK: exactly(1), compressions: grayscaleCompressions},
	{Grayscale, Sample4Bit}:  {bandsOK: exactly(1), compressions: grayscaleCompressions},
	{Grayscale, SampleUint8}: {bandsOK: exactly(1), compressions: grayscaleCompressions},

	{RGB, SampleUint8}: {
		bandsOK:      exactly(3),
		compressions: set(CompressionNone, CompressionDeflate, CompressionLZMA, CompressionPNG, CompressionJPEG, CompressionLossyWebP, CompressionLosslessWebP),
	},

	{MultiBand, SampleUint8}:  {bandsOK: atLeast(2), compressions: rawOnlyCompressions},
	{MultiBand, SampleUint16}: {bandsOK: atLeast(2), compressions: rawOnlyCompressions},

	{DataGrid, SampleInt8}:    {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleUint8}:   {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleInt16}:   {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleUint16}:  {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleInt32}:   {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleUint32}:  {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleFloat32}: {bandsOK: exactly(1), compressions: rawOnlyCompressions},
	{DataGrid, SampleFloat64}: {bandsOK: exactly(1), compressions: rawOnlyCompressions},
}

var (
	paletteCompressions   = set(CompressionNone, CompressionDeflate, CompressionLZMA, CompressionGIF, CompressionPNG)
	grayscaleCompressions = set(CompressionNone, CompressionDeflate, CompressionLZMA, CompressionGIF, CompressionPNG, CompressionJPEG, CompressionLossyWebP, CompressionLosslessWebP)
	rawOnlyCompressions   = set(CompressionNone, CompressionDeflate, CompressionLZMA)
)

// MatrixAllows reports whether (sampleType, pixelType, bands) is a legal
// combination, ignoring compression — used by Pixel/Raster construction.
func MatrixAllows(st SampleType, pt PixelType, bands int) bool {
	e, ok := matrix[matrixKey{pixel: pt, sample: st}]
	if !ok {
		return false
	}
	return e.bandsOK(bands)
}

// MatrixAllowsCompression reports whether (sampleType, pixelType, bands,
// compression) is legal for encoding (§4.6). Decoders are more lenient
// (§4.6: "Decoders accept any historically-written combination") and
// should not call this.
func MatrixAllowsCompression(st SampleType, pt PixelType, bands int, c Compression) bool {
	e, ok := matrix[matrixKey{pixel: pt, sample: st}]
	if !ok || !e.bandsOK(bands) {
		return false
	}
	return e.compressions[c]
}
