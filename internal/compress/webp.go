package compress

/*
#cgo pkg-config: libwebp
#include <stdlib.h>
#include <webp/encode.h>
#include <webp/decode.h>
*/
import "C"
import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"unsafe"

	"github.com/gen2brain/webp"

	"github.com/rl2go/rl2/internal/raster"
)

// webpBackend encodes via native libwebp through CGo (mirroring the
// teacher's internal/encode/webp.go exactly: requires libwebp-dev and
// CGO_ENABLED=1) and decodes via the pure-Go github.com/gen2brain/webp
// binding (mirroring the teacher's decode.go), so decode keeps working
// even in a CGO-disabled build.
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
	img, err := toImage(payload, width, height, st, pt, pal)
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("webp: empty image")
	}
	rgba := imageToRGBA(img)
	if quality <= 0 {
		quality = b.quality
	}

	var output *C.uint8_t
	var size C.size_t
	if b.lossless {
		size = C.WebPEncodeLosslessRGBA(
			(*C.uint8_t)(unsafe.Pointer(&rgba.Pix[0])),
			C.int(width), C.int(height), C.int(rgba.Stride),
			&output,
		)
	} else {
		size = C.WebPEncodeRGBA(
			(*C.uint8_t)(unsafe.Pointer(&rgba.Pix[0])),
			C.int(width), C.int(height), C.int(rgba.Stride),
			C.float(quality),
			&output,
		)
	}
	if size == 0 || output == nil {
		return nil, fmt.Errorf("webp: encode failed")
	}
	defer C.WebPFree(unsafe.Pointer(output))
	return C.GoBytes(unsafe.Pointer(output), C.int(size)), nil
}

func (b webpBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return fromImage(img, pt), nil
}

func imageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
