package source

import (
	"image"

	"github.com/rl2go/rl2/internal/cog"
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// GeoTiffReader adapts a Cloud-Optimized GeoTIFF into the TiffReader
// contract of §4.13: ingest pulls arbitrary tile-aligned windows out of
// the COG's full-resolution IFD via internal/cog's ReadRegion, and this
// wrapper converts the RGBA decode into the coverage's declared
// SampleType/PixelType/Bands.
type GeoTiffReader struct {
	r         *cog.Reader
	pixelType raster.PixelType
	bands     int
}

// OpenGeoTiff opens path as a COG and wraps it for ingest as an RGB
// (3-band) or Grayscale (1-band, luma of R/G/B) source (§4.13). Other
// PixelTypes aren't supported since the underlying decode always
// yields 8-bit RGBA.
func OpenGeoTiff(path string, pixelType raster.PixelType) (*GeoTiffReader, error) {
	bands := 0
	switch pixelType {
	case raster.RGB:
		bands = 3
	case raster.Grayscale:
		bands = 1
	default:
		return nil, errs.Invalid("source: GeoTiffReader supports RGB or Grayscale only, got %s", pixelType)
	}
	r, err := cog.Open(path)
	if err != nil {
		return nil, errs.IO(err, "source: opening GeoTIFF %s", path)
	}
	return &GeoTiffReader{r: r, pixelType: pixelType, bands: bands}, nil
}

func (g *GeoTiffReader) Size() (int, int)             { return g.r.Width(), g.r.Height() }
func (g *GeoTiffReader) SampleType() raster.SampleType { return raster.SampleUint8 }
func (g *GeoTiffReader) PixelType() raster.PixelType   { return g.pixelType }
func (g *GeoTiffReader) Bands() int                    { return g.bands }
func (g *GeoTiffReader) SRID() int                     { return g.r.EPSG() }
func (g *GeoTiffReader) Close() error                  { return g.r.Close() }

func (g *GeoTiffReader) Resolution() (float64, float64) {
	ps := g.r.PixelSize()
	return ps, ps
}

func (g *GeoTiffReader) Extent() (minX, minY, maxX, maxY float64) {
	return g.r.BoundsInCRS()
}

// ReadTile reads the (startRow,startCol,tileWidth,tileHeight) window
// out of the COG's level-0 IFD, truncating (not padding) at the image's
// edge, matching AsciiReader's convention — padding is internal/
// ingest's job (§4.10 step 2).
func (g *GeoTiffReader) ReadTile(startRow, startCol, tileWidth, tileHeight int) (*raster.Raster, error) {
	w, h := g.r.Width(), g.r.Height()
	rows := tileHeight
	if startRow+rows > h {
		rows = h - startRow
	}
	cols := tileWidth
	if startCol+cols > w {
		cols = w - startCol
	}
	if rows <= 0 || cols <= 0 {
		return nil, errs.Invalid("source: ReadTile window (row=%d,col=%d) lies outside the GeoTIFF's %dx%d bounds", startRow, startCol, w, h)
	}

	img, err := g.r.ReadRegion(0, startCol, startRow, cols, rows)
	if err != nil {
		return nil, errs.IO(err, "source: reading GeoTIFF region (row=%d,col=%d,%dx%d)", startRow, startCol, cols, rows)
	}

	pix := rgbaToPix(img, g.pixelType, g.bands)
	return raster.New(raster.Config{
		Width: cols, Height: rows,
		SampleType: raster.SampleUint8, PixelType: g.pixelType, Bands: g.bands,
		Pix: pix,
	})
}

// rgbaToPix converts an *image.RGBA region into the row-major,
// unpacked uint8 pixel buffer raster.Raster expects, selecting either
// the raw R/G/B triple (PixelType RGB) or the ITU-R BT.601 luma of R/G/B
// (PixelType Grayscale).
func rgbaToPix(img *image.RGBA, pixelType raster.PixelType, bands int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*bands)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			off := (y*w + x) * bands
			switch pixelType {
			case raster.RGB:
				pix[off], pix[off+1], pix[off+2] = c.R, c.G, c.B
			case raster.Grayscale:
				pix[off] = byte((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000)
			}
		}
	}
	return pix
}
