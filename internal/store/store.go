// Package store defines the persistence-adapter contracts of §4.14: the
// minimal interfaces a host database must satisfy so internal/ingest can
// write tiles and internal/pyramid can read them back. The core never
// implements these against a concrete database itself (§6: "consumed
// not implemented here"); internal/store/sqlite is a reference adapter
// used to exercise the core end-to-end in tests.
package store

import (
	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/envelope"
	"github.com/rl2go/rl2/internal/stats"
)

// LevelRow is one row of a coverage's <name>_levels table (§6): the four
// resolution pairs stored for one pyramid level.
type LevelRow struct {
	PyramidLevel int
	XRes1, YRes1 float64
	XRes2, YRes2 float64
	XRes4, YRes4 float64
	XRes8, YRes8 float64
}

// TileRow is one row joining <name>_tiles and <name>_tile_data (§6/§4.9):
// a tile's identity, its pyramid level, its full envelope, and its
// encoded Odd/Even blocks.
type TileRow struct {
	TileID       int64
	PyramidLevel int
	Envelope     envelope.Rect
	Odd, Even    []byte
}

// Coverages persists and retrieves raster_coverages rows (§6).
type Coverages interface {
	PutCoverage(name string, d *coverage.Descriptor) error
	GetCoverage(name string) (*coverage.Descriptor, error)
}

// Levels persists and retrieves a coverage's <name>_levels rows.
type Levels interface {
	PutLevels(coverageName string, levels []LevelRow) error
	GetLevels(coverageName string) ([]LevelRow, error)
}

// Tiles persists a coverage's <name>_tiles/<name>_tile_data rows and
// exposes the spatial Query abstraction named in §4.9.
type Tiles interface {
	PutTile(coverageName string, row TileRow) error
	Query(coverageName string) Query
}

// Query is the "prepared-statement abstraction yielding rows of
// (tile_id, tile_minx, tile_maxy, odd_blob, even_blob)" of §4.9.
type Query interface {
	// Intersecting returns every TileRow at pyramidLevel whose envelope
	// intersects r (§4.9's spatial predicate).
	Intersecting(pyramidLevel int, r envelope.Rect) ([]TileRow, error)
}

// TileData persists per-level RasterStatistics blobs alongside a
// coverage (§6, §4.10 step 7).
type TileData interface {
	PutStatistics(coverageName string, pyramidLevel int, s *stats.Raster) error
	GetStatistics(coverageName string, pyramidLevel int) (*stats.Raster, error)
}
