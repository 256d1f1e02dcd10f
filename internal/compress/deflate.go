package compress

import (
	"bytes"
	"compress/flate"
	"io"

	"github.com/rl2go/rl2/internal/raster"
)

// deflateBackend wraps stdlib compress/flate, matching the teacher's own
// preference for stdlib image/compression codecs over third-party ones
// wherever the standard library already covers the concern.
type deflateBackend struct{}

func (deflateBackend) Code() raster.Compression { return raster.CompressionDeflate }

func (deflateBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}
