package ingest

import (
	"github.com/rl2go/rl2/internal/raster"
)

// writeSampleBytes encodes s into b in the little-endian unpacked
// layout internal/raster.Raster.Pix uses for s.Type.
func writeSampleBytes(b []byte, s raster.Sample) { raster.EncodeSampleBytes(b, s) }

// pad returns r unchanged if it already fills (tileW, tileH); otherwise
// it returns a new Raster of exactly that size, with r's pixels copied
// into its top-left corner and every other pixel set to nodata (or the
// zero pixel, if nodata is nil) — §4.10 step 2.
func pad(r *raster.Raster, tileW, tileH int, nodata *raster.Pixel) (*raster.Raster, error) {
	if r.Width == tileW && r.Height == tileH {
		return r, nil
	}

	bw := r.SampleType.ByteSize()
	sampleBytes := r.Bands * bw
	rowBytes := tileW * sampleBytes

	fill := make([]byte, sampleBytes)
	if nodata != nil {
		for b := 0; b < nodata.Bands(); b++ {
			s, err := nodata.Get(b)
			if err != nil {
				return nil, err
			}
			writeSampleBytes(fill[b*bw:(b+1)*bw], s)
		}
	}

	pix := make([]byte, tileH*rowBytes)
	for row := 0; row < tileH; row++ {
		for col := 0; col < tileW; col++ {
			off := row*rowBytes + col*sampleBytes
			copy(pix[off:off+sampleBytes], fill)
		}
	}

	srcRowBytes := r.Width * sampleBytes
	for row := 0; row < r.Height; row++ {
		copy(pix[row*rowBytes:row*rowBytes+srcRowBytes], r.Pix[row*srcRowBytes:(row+1)*srcRowBytes])
	}

	var mask *raster.Mask
	if r.Mask != nil {
		maskBytes := make([]byte, tileW*tileH)
		for row := 0; row < r.Height; row++ {
			copy(maskBytes[row*tileW:row*tileW+r.Width], r.Mask.Bytes[row*r.Width:(row+1)*r.Width])
		}
		m, err := raster.NewMask(tileW, tileH, maskBytes)
		if err != nil {
			return nil, err
		}
		mask = m
	}

	return raster.New(raster.Config{
		Width: tileW, Height: tileH,
		SampleType: r.SampleType, PixelType: r.PixelType, Bands: r.Bands,
		Pix: pix, Mask: mask, Palette: r.Palette, NoData: nodata, Geo: r.Geo,
	})
}
