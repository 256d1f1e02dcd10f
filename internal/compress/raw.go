package compress

import "github.com/rl2go/rl2/internal/raster"

// rawBackend is the identity compressor: every other backend falls back
// to it when its own output would inflate the payload (§4.3).
type rawBackend struct{}

func (rawBackend) Code() raster.Compression { return raster.CompressionNone }

func (rawBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (rawBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
