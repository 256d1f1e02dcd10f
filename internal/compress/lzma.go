package compress

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/rl2go/rl2/internal/raster"
)

// lzmaBackend wraps github.com/ulikunitz/xz/lzma, the LZMA implementation
// surfaced by the brawer-wikidata-qrank example repo — the only pack
// repo with a real LZMA dependency.
type lzmaBackend struct{}

func (lzmaBackend) Code() raster.Compression { return raster.CompressionLZMA }

func (lzmaBackend) Encode(payload []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
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

func (lzmaBackend) Decode(data []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
