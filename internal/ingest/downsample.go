package ingest

import (
	"math"

	"github.com/rl2go/rl2/internal/raster"
)

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Downsample builds scale's sibling raster from r by box-filtering
// scale×scale blocks of samples (§4.10 step 4): the arithmetic mean of
// every non-transparent sample in the block for DataGrid/MultiBand/RGB/
// Grayscale pixels, or a nearest-neighbor pick (the block's top-left
// sample) for Palette/Monochrome pixels, since averaging palette
// indices is not meaningful. Blocks that run past r's edge (when r's
// size isn't an exact multiple of scale) are simply smaller.
func Downsample(r *raster.Raster, scale int) (*raster.Raster, error) {
	outW := ceilDiv(r.Width, scale)
	outH := ceilDiv(r.Height, scale)
	bw := r.SampleType.ByteSize()
	sampleBytes := r.Bands * bw
	nearest := r.PixelType == raster.PalettePixel || r.PixelType == raster.Monochrome

	pix := make([]byte, outW*outH*sampleBytes)
	var maskBytes []byte
	if r.Mask != nil {
		maskBytes = make([]byte, outW*outH)
	}

	sums := make([]float64, r.Bands)
	for oy := 0; oy < outH; oy++ {
		y0 := oy * scale
		y1 := y0 + scale
		if y1 > r.Height {
			y1 = r.Height
		}
		for ox := 0; ox < outW; ox++ {
			x0 := ox * scale
			x1 := x0 + scale
			if x1 > r.Width {
				x1 = r.Width
			}

			outOff := (oy*outW + ox) * sampleBytes
			opaque := false

			if nearest {
				p, err := r.GetPixel(y0, x0)
				if err != nil {
					return nil, err
				}
				for b := 0; b < r.Bands; b++ {
					s, err := p.Get(b)
					if err != nil {
						return nil, err
					}
					writeSampleBytes(pix[outOff+b*bw:outOff+(b+1)*bw], s)
				}
				opaque = !p.Transparent
			} else {
				for i := range sums {
					sums[i] = 0
				}
				n := 0
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						p, err := r.GetPixel(y, x)
						if err != nil {
							return nil, err
						}
						if p.Transparent {
							continue
						}
						for b := 0; b < r.Bands; b++ {
							s, err := p.Get(b)
							if err != nil {
								return nil, err
							}
							sums[b] += s.Float()
						}
						n++
					}
				}
				opaque = n > 0
				for b := 0; b < r.Bands; b++ {
					avg := 0.0
					if n > 0 {
						avg = sums[b] / float64(n)
					}
					writeSampleBytes(pix[outOff+b*bw:outOff+(b+1)*bw], sampleFromFloat(r.SampleType, avg))
				}
			}

			if maskBytes != nil {
				if opaque {
					maskBytes[oy*outW+ox] = 1
				}
			}
		}
	}

	var mask *raster.Mask
	if maskBytes != nil {
		m, err := raster.NewMask(outW, outH, maskBytes)
		if err != nil {
			return nil, err
		}
		mask = m
	}

	var geo *raster.Georeference
	if r.Geo != nil {
		geo = &raster.Georeference{
			SRID: r.Geo.SRID,
			MinX: r.Geo.MinX,
			MaxY: r.Geo.MaxY,
			MaxX: r.Geo.MinX + float64(outW)*r.Geo.HRes*float64(scale),
			MinY: r.Geo.MaxY - float64(outH)*r.Geo.VRes*float64(scale),
			HRes: r.Geo.HRes * float64(scale),
			VRes: r.Geo.VRes * float64(scale),
		}
	}

	return raster.New(raster.Config{
		Width: outW, Height: outH,
		SampleType: r.SampleType, PixelType: r.PixelType, Bands: r.Bands,
		Pix: pix, Mask: mask, Palette: r.Palette, Geo: geo,
	})
}

func sampleFromFloat(t raster.SampleType, v float64) raster.Sample {
	switch t {
	case raster.SampleFloat32, raster.SampleFloat64:
		return raster.NewFloatSample(t, v)
	default:
		return raster.NewIntSample(t, int64(math.Round(v)))
	}
}
