//go:build !cgo

package compress

import (
	"bytes"
	"fmt"

	"github.com/gen2brain/webp"

	"github.com/rl2go/rl2/internal/raster"
)

// webpBackend without CGo can still decode (via the pure-Go
// github.com/gen2brain/webp binding) but cannot encode, mirroring the
// teacher's webp_stub.go exactly.
type webpBackend struct {
	lossless bool
	quality  int
}

func (b webpBackend) Code() raster.Compression {
	if b.lossless {
		return raster.CompressionLosslessWebP
	}
	return raster.CompressionLossyWebP
}

func (b webpBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	return nil, fmt.Errorf("webp: native libwebp encoder requires CGO (install libwebp-dev and build with CGO_ENABLED=1)")
}

func (b webpBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return fromImage(img, pt), nil
}
