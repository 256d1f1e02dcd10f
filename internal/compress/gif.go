package compress

import (
	"bytes"
	"image/gif"

	"github.com/rl2go/rl2/internal/raster"
)

// gifBackend wraps stdlib image/gif. GIF is always 8-bit indexed, so
// sub-byte samples round-trip correctly but without a packed on-disk
// representation (§4.2 packing only matters for RAW/DEFLATE/LZMA, which
// operate on the packed bitstream directly).
type gifBackend struct{}

func (gifBackend) Code() raster.Compression { return raster.CompressionGIF }

func (gifBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	img, err := toImage(payload, width, height, st, pt, pal)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, &gif.Options{NumColors: 256}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gifBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	img, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return fromImage(img, pt), nil
}
