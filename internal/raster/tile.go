package raster

import "github.com/rl2go/rl2/internal/errs"

// Tile is a Raster plus its pyramid coordinates (§3). Tile width and
// height are bounded to [256,1024] and must be divisible by 16.
type Tile struct {
	*Raster
	Level  int
	Row    int
	Col    int
}

// ValidTileSize reports whether size is a legal tile width/height.
func ValidTileSize(size int) bool {
	return size >= 256 && size <= 1024 && size%16 == 0
}

// NewTile wraps r as a Tile at the given pyramid coordinates, validating
// the tile-size constraint.
func NewTile(r *Raster, level, row, col int) (*Tile, error) {
	if !ValidTileSize(r.Width) || !ValidTileSize(r.Height) {
		return nil, errs.Invalid("tile: size %dx%d must be in [256,1024] and divisible by 16", r.Width, r.Height)
	}
	if level < 0 {
		return nil, errs.Invalid("tile: level %d must be >= 0", level)
	}
	if row < 0 || col < 0 {
		return nil, errs.Invalid("tile: (row=%d,col=%d) must be >= 0", row, col)
	}
	return &Tile{Raster: r, Level: level, Row: row, Col: col}, nil
}
