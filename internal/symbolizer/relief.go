package symbolizer

import (
	"math"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// ReliefOptions configures ShadedRelief (§4.8). Altitude and Azimuth are
// in degrees; the engine's own rendering always uses altitude=45,
// azimuth=315, but both are exposed so tests can exercise the formula
// directly.
type ReliefOptions struct {
	ReliefFactor float64 // default 55 (z-factor 0.0033333333)
	ScaleFactor  float64 // horizontal unit-per-pixel distance, default 1
	Altitude     float64 // degrees
	Azimuth      float64 // degrees
}

// noDataMarker is returned for any 3x3 window touching a NoData sample.
const noDataMarker = -1.0

// ShadedRelief computes Horn's-formula hillshade (§4.8) for a single-band
// DataGrid raster. The output is a W*H float32 buffer: one shade value
// per interior cell of tile, clamped to [0,1], or noDataMarker where the
// 3x3 neighborhood touches NoData.
func ShadedRelief(tile *raster.Raster, opts ReliefOptions) ([]float32, error) {
	if tile.PixelType != raster.DataGrid || tile.Bands != 1 {
		return nil, errs.Invalid("symbolizer: shaded relief requires a single-band DataGrid raster, got (%s,bands=%d)", tile.PixelType, tile.Bands)
	}
	if opts.ScaleFactor == 0 {
		opts.ScaleFactor = 1
	}
	if opts.ReliefFactor == 0 {
		opts.ReliefFactor = 55
	}
	altitude, azimuth := opts.Altitude, opts.Azimuth
	if altitude == 0 && azimuth == 0 {
		altitude, azimuth = 45, 315
	}
	altRad := altitude * math.Pi / 180
	azRad := azimuth * math.Pi / 180
	zFactor := 0.0033333333 * (opts.ReliefFactor / 55.0)

	w, h := tile.Width, tile.Height
	padded := make([]float64, (w+2)*(h+2))
	hasNoData := make([]bool, (w+2)*(h+2))
	for y := 0; y < h+2; y++ {
		for x := 0; x < w+2; x++ {
			idx := y*(w+2) + x
			srcRow, srcCol := y-1, x-1
			if srcRow < 0 || srcRow >= h || srcCol < 0 || srcCol >= w {
				hasNoData[idx] = true
				continue
			}
			p, err := tile.GetPixel(srcRow, srcCol)
			if err != nil {
				return nil, err
			}
			if p.Transparent {
				hasNoData[idx] = true
				continue
			}
			s, err := p.Get(0)
			if err != nil {
				return nil, err
			}
			padded[idx] = s.Float()
		}
	}

	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var e [9]float64
			nodata := false
			k := 0
			for dy := 0; dy < 3; dy++ {
				for dx := 0; dx < 3; dx++ {
					idx := (y+dy)*(w+2) + (x + dx)
					if hasNoData[idx] {
						nodata = true
					}
					e[k] = padded[idx]
					k++
				}
			}
			if nodata {
				out[y*w+x] = noDataMarker
				continue
			}
			out[y*w+x] = float32(hornShade(e, zFactor, opts.ScaleFactor, altRad, azRad))
		}
	}
	return out, nil
}

// hornShade computes one cell's shade value from its 3x3 neighborhood
// (row-major e[0..8]) via Horn's formula (§4.8, grounded on
// compute_shaded_relief in the reference raster symbolizer).
func hornShade(e [9]float64, zFactor, scaleFactor, altRad, azRad float64) float64 {
	x := zFactor * ((e[0] + 2*e[3] + e[6]) - (e[2] + 2*e[5] + e[8])) / scaleFactor
	y := zFactor * ((e[6] + 2*e[7] + e[8]) - (e[0] + 2*e[1] + e[2])) / scaleFactor
	slope := math.Pi/2 - math.Atan(math.Sqrt(x*x+y*y))
	aspect := math.Atan2(x, y)
	value := math.Sin(altRad)*math.Sin(slope) +
		math.Cos(altRad)*math.Cos(slope)*math.Cos(azRad-math.Pi/2-aspect)
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return value
}
