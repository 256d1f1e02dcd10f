// Package compress implements the uniform compression back-end facade of
// §4.3: RAW, DEFLATE, LZMA, GIF, PNG, JPEG, LOSSY_WEBP, LOSSLESS_WEBP and
// CCITTFAX4, each exposing the same encode/decode contract over raw
// pixel bytes.
package compress

import (
	"fmt"

	"github.com/rl2go/rl2/internal/raster"
)

// Backend is the uniform contract every compression back-end implements
// (§4.3). Payload bytes are the row-major pixel buffer (little-endian for
// multi-byte types). Sub-byte samples arrive bit-packed (§4.2) at the
// byte-stream backends (RAW, DEFLATE, LZMA) and unpacked, one byte per
// sample, at the backends IsImageCodec reports; image-aware
// backends (PNG, GIF, JPEG, WebP) build an image.Image from it and let
// their own format pick the most compact on-disk representation (e.g.
// Go's png encoder automatically narrows a small Palette to a 1/2/4-bit
// PNG bit depth).
type Backend interface {
	Code() raster.Compression
	Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error)
	Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error)
}

// IsImageCodec reports whether c decodes to a whole image in one shot
// (as opposed to operating on an arbitrary byte stream). Sub-byte sample
// packing (§4.2) is skipped for these, since their own container format
// carries bit depth natively. CCITTFAX4 is included here too: its backend
// already works one pixel per byte over the whole row (it produces its
// own bit-level run-length framing), so it must see the same unpacked
// payload an image codec would rather than the §4.2 bit-packed form.
func IsImageCodec(c raster.Compression) bool {
	switch c {
	case raster.CompressionGIF, raster.CompressionPNG, raster.CompressionJPEG,
		raster.CompressionLossyWebP, raster.CompressionLosslessWebP,
		raster.CompressionCCITTFax4:
		return true
	default:
		return false
	}
}

var registry = map[raster.Compression]Backend{}

func register(b Backend) { registry[b.Code()] = b }

// Get returns the Backend for the given compression code.
func Get(c raster.Compression) (Backend, error) {
	b, ok := registry[c]
	if !ok {
		return nil, fmt.Errorf("compress: no backend registered for compression %s", c)
	}
	return b, nil
}

func init() {
	register(rawBackend{})
	register(deflateBackend{})
	register(lzmaBackend{})
	register(gifBackend{})
	register(pngBackend{})
	register(jpegBackend{Quality: 85})
	register(webpBackend{lossless: false, quality: 85})
	register(webpBackend{lossless: true, quality: 100})
	register(ccittFax4Backend{})
}
