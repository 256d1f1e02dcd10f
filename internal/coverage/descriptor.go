// Package coverage implements the coverage descriptor of §3/§4.6: an
// immutable, validated description of a persisted raster pyramid and
// its four per-scale resolution levels.
package coverage

import (
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// Descriptor is the immutable description of a persisted pyramid
// coverage (§3 Coverage).
type Descriptor struct {
	Name        string
	SampleType  raster.SampleType
	PixelType   raster.PixelType
	Bands       int
	Compression raster.Compression
	Quality     int
	TileWidth   int
	TileHeight  int
	SRID        int
	HRes, VRes  float64 // level-0 (1:1) resolution
	NoData      *raster.Pixel
	Palette     *raster.Palette
}

// NewDescriptor validates cfg against §4.6's encode self-consistency
// matrix, the tile size bounds of §3, and the [0,100] quality range.
func NewDescriptor(cfg Descriptor) (*Descriptor, error) {
	if !raster.MatrixAllowsCompression(cfg.SampleType, cfg.PixelType, cfg.Bands, cfg.Compression) {
		return nil, errs.Invalid("coverage: (%s,%s,bands=%d,%s) is outside the encode self-consistency matrix", cfg.SampleType, cfg.PixelType, cfg.Bands, cfg.Compression)
	}
	if !raster.ValidTileSize(cfg.TileWidth) || !raster.ValidTileSize(cfg.TileHeight) {
		return nil, errs.Invalid("coverage: tile size %dx%d violates the [256,1024] divisible-by-16 constraint", cfg.TileWidth, cfg.TileHeight)
	}
	if cfg.Quality < 0 || cfg.Quality > 100 {
		return nil, errs.Invalid("coverage: quality %d out of range [0,100]", cfg.Quality)
	}
	if cfg.HRes <= 0 || cfg.VRes <= 0 {
		return nil, errs.Invalid("coverage: level-0 resolution must be positive, got (%v,%v)", cfg.HRes, cfg.VRes)
	}
	if cfg.PixelType == raster.PalettePixel && cfg.Palette == nil {
		return nil, errs.Invalid("coverage: PixelType is PALETTE but no palette was supplied")
	}
	if cfg.NoData != nil {
		if cfg.NoData.SampleType != cfg.SampleType || cfg.NoData.PixelType != cfg.PixelType || cfg.NoData.Bands() != cfg.Bands {
			return nil, errs.Invalid("coverage: NoData pixel shape does not match the coverage's declared shape")
		}
	}
	d := cfg
	return &d, nil
}

// Level is one of a coverage's four resolution levels: 1:1, 1:2, 1:4,
// 1:8 (§3 Coverage, §4.4 scale policy).
type Level struct {
	Scale      int // 1, 2, 4 or 8
	HRes, VRes float64
}

// Levels returns the coverage's four resolution levels, each inheriting
// the descriptor's shape with proportionally larger per-pixel resolution
// (§3: "Levels 1:2, 1:4, 1:8 inherit the same descriptor with
// proportionally larger resolutions").
func (d *Descriptor) Levels() []Level {
	scales := []int{1, 2, 4, 8}
	levels := make([]Level, len(scales))
	for i, s := range scales {
		levels[i] = Level{Scale: s, HRes: d.HRes * float64(s), VRes: d.VRes * float64(s)}
	}
	return levels
}

// LevelForScale returns the Level matching scale (1, 2, 4 or 8).
func (d *Descriptor) LevelForScale(scale int) (Level, error) {
	for _, l := range d.Levels() {
		if l.Scale == scale {
			return l, nil
		}
	}
	return Level{}, errs.Invalid("coverage: scale must be one of 1,2,4,8, got %d", scale)
}
