package compress

import (
	"bytes"
	"image/jpeg"

	"github.com/rl2go/rl2/internal/raster"
)

// jpegBackend wraps stdlib image/jpeg, matching the teacher's
// internal/encode/jpeg.go. JPEG only appears in the matrix for RGB and
// Grayscale uint8 (§4.6); it is an image codec, so its Odd block embeds
// the whole tile (no Even block, §4.4).
type jpegBackend struct {
	Quality int
}

func (jpegBackend) Code() raster.Compression { return raster.CompressionJPEG }

func (b jpegBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	img, err := toImage(payload, width, height, st, pt, pal)
	if err != nil {
		return nil, err
	}
	if quality <= 0 {
		quality = b.Quality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (jpegBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return fromImage(img, pt), nil
}
