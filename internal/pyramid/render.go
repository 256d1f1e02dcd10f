package pyramid

import (
	"context"
	"math"

	"github.com/rl2go/rl2/internal/blit"
	"github.com/rl2go/rl2/internal/codec"
	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/envelope"
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
	"github.com/rl2go/rl2/internal/store"
)

// Request describes one render call (§2 data flow "render"): the
// geographic window to reconstruct and the resolution it should be
// reconstructed at. Width and Height are derived from Envelope and the
// chosen resolution when left zero.
type Request struct {
	Envelope   envelope.Rect
	XRes, YRes float64
	Width      int
	Height     int
}

// Render reconstructs the geographic window req.Envelope at a stored
// resolution matching req.(XRes,YRes) within 1% (§4.9): it chooses a
// (pyramid level, decode scale) pair via ChooseResolution (NoMatch when
// none matches), queries q for every tile intersecting the
// envelope at that level, decodes and blits each into the output
// buffer. A tile that fails to decode (CorruptBlock or DecodeFailure,
// §7) leaves its footprint as NoData rather than aborting the render;
// every other error kind propagates and aborts.
func Render(ctx context.Context, cov *coverage.Descriptor, levels []store.LevelRow, q store.Query, req Request) (*raster.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.IO(err, "pyramid: render canceled")
	}

	sel, err := ChooseResolution(levels, req.XRes, req.YRes)
	if err != nil {
		return nil, err
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = int(math.Round(req.Envelope.Width() / sel.HRes))
	}
	if height == 0 {
		height = int(math.Round(req.Envelope.Height() / sel.VRes))
	}
	if width <= 0 || height <= 0 {
		return nil, errs.Invalid("pyramid: computed destination size (%d,%d) from envelope/resolution is not positive", width, height)
	}

	dst, err := filledDest(cov, width, height)
	if err != nil {
		return nil, err
	}

	rows, err := q.Intersecting(sel.Level, req.Envelope)
	if err != nil {
		return nil, errs.IO(err, "pyramid: querying tiles intersecting the requested envelope at level %d", sel.Level)
	}

	d := blit.Dest{MinX: req.Envelope.MinX, MaxY: req.Envelope.MaxY, ResX: sel.HRes, ResY: sel.VRes}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, errs.IO(err, "pyramid: render canceled mid-query")
		}
		tile, err := codec.Decode(row.Odd, row.Even, sel.Scale, cov.Palette)
		if err != nil {
			if errs.Is(err, errs.KindCorruptBlock) || errs.Is(err, errs.KindDecodeFailure) {
				continue
			}
			return nil, errs.WithTile(err, sel.Level, 0, 0)
		}
		tile.NoData = cov.NoData
		if err := blit.Blit(dst, d, tile, row.Envelope.MinX, row.Envelope.MaxY); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// filledDest allocates an output Raster of (width,height) pre-filled
// with cov's NoData pixel (or the zero pixel, if cov carries none), so
// footprints no stored tile covers — or whose tile failed to decode —
// read back as no_data rather than zero-valued data.
func filledDest(cov *coverage.Descriptor, width, height int) (*raster.Raster, error) {
	bw := cov.SampleType.ByteSize()
	sampleBytes := cov.Bands * bw
	pix := make([]byte, width*height*sampleBytes)

	if cov.NoData != nil {
		fill := make([]byte, sampleBytes)
		for b := 0; b < cov.Bands; b++ {
			s, err := cov.NoData.Get(b)
			if err != nil {
				return nil, err
			}
			raster.EncodeSampleBytes(fill[b*bw:(b+1)*bw], s)
		}
		for i := 0; i < width*height; i++ {
			copy(pix[i*sampleBytes:(i+1)*sampleBytes], fill)
		}
	}

	return raster.New(raster.Config{
		Width: width, Height: height,
		SampleType: cov.SampleType, PixelType: cov.PixelType, Bands: cov.Bands,
		Pix: pix, NoData: cov.NoData, Palette: cov.Palette,
	})
}
