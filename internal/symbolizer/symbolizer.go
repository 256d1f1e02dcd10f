// Package symbolizer implements the raster symbolizer pipeline of §4.8:
// contrast-stretched triple-band false color, mono-band grayscale or
// colormap, and shaded relief, applied on top of the blitter's raw copy.
package symbolizer

import (
	"math"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
	"github.com/rl2go/rl2/internal/stats"
)

// Mode selects which of the three symbolizer strategies Apply uses.
type Mode int

const (
	// RawCopy means no symbolizer: the caller should use the blitter
	// directly and never reach Apply.
	RawCopy Mode = iota
	TripleBand
	MonoBand
)

// ContrastEnhancement is one of the four per-band stretch kinds of §4.8.
type ContrastEnhancement int

const (
	ContrastNone ContrastEnhancement = iota
	ContrastNormalize
	ContrastGamma
	ContrastHistogram
)

// BandStyle configures one band's contrast stretch: MinValue/MaxValue
// define the domain mapped onto the 256-entry LUT index, and
// GammaValue is only consulted when Enhancement is ContrastGamma.
type BandStyle struct {
	Enhancement ContrastEnhancement
	GammaValue  float64
	MinValue    float64
	MaxValue    float64
}

// Style is a fully-resolved symbolizer descriptor (§4.8).
type Style struct {
	Mode Mode

	RedBand, GreenBand, BlueBand    int
	RedStyle, GreenStyle, BlueStyle BandStyle

	MonoBand  int
	MonoStyle BandStyle
	ColorMap  ColorMap // if non-nil, overrides MonoStyle and outputs RGB
}

// scaledIndex maps a raw sample value onto a LUT index in [0,255], per
// §4.8: "(sample − minValue) / scaleFactor clamped into [0,255]".
func scaledIndex(v, min, max float64) int {
	scale := (max - min) / 255
	if scale == 0 {
		scale = 1
	}
	idx := int(math.Round((v - min) / scale))
	if idx < 0 {
		idx = 0
	}
	if idx > 255 {
		idx = 255
	}
	return idx
}

// BuildLUT computes the 256-entry lookup table for style. band supplies
// the histogram needed by ContrastNormalize and ContrastHistogram; when
// band is nil or its histogram is not meaningful for its sample type,
// those two enhancements degrade to ContrastNone (§7: "Invalid
// symbolizer parameters degrade to the next simpler mode").
func BuildLUT(style BandStyle, band *stats.Band) [256]byte {
	enh := style.Enhancement
	if (enh == ContrastNormalize || enh == ContrastHistogram) &&
		(band == nil || !stats.HistogramMeaningful(band.SampleType)) {
		enh = ContrastNone
	}

	var lut [256]byte
	switch enh {
	case ContrastGamma:
		gamma := style.GammaValue
		if gamma <= 0 {
			gamma = 1
		}
		for i := 0; i < 256; i++ {
			v := math.Pow(float64(i)/255, 1/gamma) * 255
			lut[i] = clampByte(math.Round(v))
		}
	case ContrastNormalize:
		p2, p98 := percentileBounds(band.Histogram, 0.02, 0.98)
		span := p98 - p2
		if span <= 0 {
			span = 1
		}
		for i := 0; i < 256; i++ {
			v := (float64(i) - p2) / span * 255
			lut[i] = clampByte(math.Round(v))
		}
	case ContrastHistogram:
		total := 0.0
		for _, c := range band.Histogram {
			total += c
		}
		if total == 0 {
			total = 1
		}
		cum := 0.0
		for i := 0; i < 256 && i < len(band.Histogram); i++ {
			cum += band.Histogram[i]
			lut[i] = clampByte(math.Round(255 * cum / total))
		}
	default:
		for i := 0; i < 256; i++ {
			lut[i] = byte(i)
		}
	}
	return lut
}

// percentileBounds returns the histogram-bin indices at which the
// cumulative distribution crosses loFrac and hiFrac of the total count.
func percentileBounds(hist []float64, loFrac, hiFrac float64) (lo, hi float64) {
	total := 0.0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0, float64(len(hist) - 1)
	}
	loTarget, hiTarget := total*loFrac, total*hiFrac
	cum := 0.0
	lo, hi = 0, float64(len(hist)-1)
	loFound, hiFound := false, false
	for i, c := range hist {
		cum += c
		if !loFound && cum >= loTarget {
			lo = float64(i)
			loFound = true
		}
		if !hiFound && cum >= hiTarget {
			hi = float64(i)
			hiFound = true
			break
		}
	}
	return lo, hi
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// Apply renders tile through style, consulting bandStats (which may be
// nil) for the enhancements that need a histogram, and returns a new
// uint8 Raster: RGB for TripleBand and colormapped MonoBand, Grayscale
// for a LUT-only MonoBand.
func Apply(tile *raster.Raster, style Style, bandStats []*stats.Band) (*raster.Raster, error) {
	switch style.Mode {
	case TripleBand:
		return applyTripleBand(tile, style, bandStats)
	case MonoBand:
		return applyMonoBand(tile, style, bandStats)
	default:
		return nil, errs.Invalid("symbolizer: RawCopy has no Apply path, use the blitter directly")
	}
}

func bandOf(bandStats []*stats.Band, i int) *stats.Band {
	if i < 0 || i >= len(bandStats) {
		return nil
	}
	return bandStats[i]
}

func applyTripleBand(tile *raster.Raster, style Style, bandStats []*stats.Band) (*raster.Raster, error) {
	if style.RedBand >= tile.Bands || style.GreenBand >= tile.Bands || style.BlueBand >= tile.Bands {
		return nil, errs.Invalid("symbolizer: band index out of range for a %d-band tile", tile.Bands)
	}
	redLUT := BuildLUT(style.RedStyle, bandOf(bandStats, style.RedBand))
	greenLUT := BuildLUT(style.GreenStyle, bandOf(bandStats, style.GreenBand))
	blueLUT := BuildLUT(style.BlueStyle, bandOf(bandStats, style.BlueBand))

	pix := make([]byte, tile.Width*tile.Height*3)
	for row := 0; row < tile.Height; row++ {
		for col := 0; col < tile.Width; col++ {
			p, err := tile.GetPixel(row, col)
			if err != nil {
				return nil, err
			}
			off := (row*tile.Width + col) * 3
			pix[off] = sampleToLUT(p, style.RedBand, style.RedStyle, redLUT)
			pix[off+1] = sampleToLUT(p, style.GreenBand, style.GreenStyle, greenLUT)
			pix[off+2] = sampleToLUT(p, style.BlueBand, style.BlueStyle, blueLUT)
		}
	}
	return raster.New(raster.Config{
		Width: tile.Width, Height: tile.Height,
		SampleType: raster.SampleUint8, PixelType: raster.RGB, Bands: 3,
		Pix: pix, Geo: tile.Geo,
	})
}

func sampleToLUT(p raster.Pixel, band int, style BandStyle, lut [256]byte) byte {
	s, err := p.Get(band)
	if err != nil {
		return 0
	}
	return lut[scaledIndex(s.Float(), style.MinValue, style.MaxValue)]
}

func applyMonoBand(tile *raster.Raster, style Style, bandStats []*stats.Band) (*raster.Raster, error) {
	if style.MonoBand >= tile.Bands {
		return nil, errs.Invalid("symbolizer: mono band index %d out of range for a %d-band tile", style.MonoBand, tile.Bands)
	}
	if style.ColorMap != nil {
		pix := make([]byte, tile.Width*tile.Height*3)
		for row := 0; row < tile.Height; row++ {
			for col := 0; col < tile.Width; col++ {
				p, err := tile.GetPixel(row, col)
				if err != nil {
					return nil, err
				}
				s, err := p.Get(style.MonoBand)
				if err != nil {
					return nil, err
				}
				r, g, b := style.ColorMap.Eval(s.Float())
				off := (row*tile.Width + col) * 3
				pix[off], pix[off+1], pix[off+2] = r, g, b
			}
		}
		return raster.New(raster.Config{
			Width: tile.Width, Height: tile.Height,
			SampleType: raster.SampleUint8, PixelType: raster.RGB, Bands: 3,
			Pix: pix, Geo: tile.Geo,
		})
	}

	lut := BuildLUT(style.MonoStyle, bandOf(bandStats, style.MonoBand))
	pix := make([]byte, tile.Width*tile.Height)
	for row := 0; row < tile.Height; row++ {
		for col := 0; col < tile.Width; col++ {
			p, err := tile.GetPixel(row, col)
			if err != nil {
				return nil, err
			}
			pix[row*tile.Width+col] = sampleToLUT(p, style.MonoBand, style.MonoStyle, lut)
		}
	}
	return raster.New(raster.Config{
		Width: tile.Width, Height: tile.Height,
		SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1,
		Pix: pix, Geo: tile.Geo,
	})
}
