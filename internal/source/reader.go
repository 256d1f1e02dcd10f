// Package source defines the source-reader contracts of §6/§4.13: the
// interfaces external image-file readers must satisfy so
// internal/ingest can pull tile-aligned Raster windows from them, plus
// a concrete AsciiReader for the one source format (ESRI ASCII grids)
// the original specifies precisely rather than delegating to an
// external decoder.
package source

import (
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// Reader is the accessor surface every source-reader contract exposes
// (§6): report the source's shape and georeferencing, then deliver
// tile-aligned Raster windows on demand.
type Reader interface {
	// Size returns the source's full pixel dimensions.
	Size() (width, height int)
	SampleType() raster.SampleType
	PixelType() raster.PixelType
	Bands() int
	SRID() int
	// Resolution returns the per-axis ground resolution of one pixel.
	Resolution() (hRes, vRes float64)
	// Extent returns the source's geographic bounding box.
	Extent() (minX, minY, maxX, maxY float64)
	// ReadTile returns the window of at most (tileWidth, tileHeight)
	// pixels starting at (startRow, startCol); windows that run past
	// the source's own extent are truncated to what remains, not
	// padded (padding to the coverage's full tile size is
	// internal/ingest's job, §4.10 step 2).
	ReadTile(startRow, startCol, tileWidth, tileHeight int) (*raster.Raster, error)
	Close() error
}

// TiffReader is the contract named in §6 for an external TIFF/JPEG/PNG/
// GIF/WEBP image-file reader: open(path, force_srid?,
// force_sample_type?, force_pixel_type?, force_bands?), report the
// decoded geometry, then deliver tile-sized Raster windows aligned to
// the coverage's own tile grid. Opening and decoding those image
// formats is outside this core (§1 Non-goals: "the raw image-file
// readers ... only the contracts they must honor for the core are
// specified"); this package only consumes the interface.
type TiffReader interface {
	Reader
}

// NopTiffReader is a TiffReader test double: it reports a fixed shape
// but carries no pixel data, for exercising internal/ingest's wiring
// against the TiffReader contract without a real TIFF decoder.
type NopTiffReader struct {
	Width, Height          int
	ST                     raster.SampleType
	PT                     raster.PixelType
	NBands                 int
	SRIDVal                int
	HRes, VRes             float64
	MinX, MinY, MaxX, MaxY float64
}

func (n *NopTiffReader) Size() (int, int)                    { return n.Width, n.Height }
func (n *NopTiffReader) SampleType() raster.SampleType        { return n.ST }
func (n *NopTiffReader) PixelType() raster.PixelType          { return n.PT }
func (n *NopTiffReader) Bands() int                           { return n.NBands }
func (n *NopTiffReader) SRID() int                            { return n.SRIDVal }
func (n *NopTiffReader) Resolution() (float64, float64)       { return n.HRes, n.VRes }
func (n *NopTiffReader) Extent() (float64, float64, float64, float64) {
	return n.MinX, n.MinY, n.MaxX, n.MaxY
}

func (n *NopTiffReader) ReadTile(startRow, startCol, tileWidth, tileHeight int) (*raster.Raster, error) {
	return nil, errs.Unsupported("source: NopTiffReader carries no pixel data; TIFF decoding is outside the core")
}

func (n *NopTiffReader) Close() error { return nil }
