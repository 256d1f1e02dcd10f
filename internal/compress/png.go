package compress

import (
	"bytes"
	"image/png"

	"github.com/rl2go/rl2/internal/raster"
)

// pngBackend wraps stdlib image/png, matching the teacher's own
// internal/encode/png.go. Go's png encoder automatically narrows a small
// color.Palette to a 1/2/4-bit PNG, giving sub-byte samples (§4.2) their
// native on-disk bit depth for free.
type pngBackend struct{}

func (pngBackend) Code() raster.Compression { return raster.CompressionPNG }

func (pngBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	img, err := toImage(payload, width, height, st, pt, pal)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pngBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return fromImage(img, pt), nil
}
