// Package sqlite is a reference store.Coverages/Levels/Tiles/TileData
// adapter backed by modernc.org/sqlite, the pure-Go SQLite driver (§4.14).
// It exists to exercise internal/pyramid and internal/ingest end-to-end
// in tests; a host embedding the engine is free to swap it for a real
// SpatiaLite-backed store without touching any other package.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/envelope"
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
	"github.com/rl2go/rl2/internal/stats"
	"github.com/rl2go/rl2/internal/store"
)

// Store is a single open database handle implementing every store
// interface. The core never shares a Store across goroutines without
// the host's own serialization, per §5's concurrency model.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.IO(err, "sqlite: opening %s", path)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS raster_coverages (
	name TEXT PRIMARY KEY,
	sample_type TEXT NOT NULL,
	pixel_type TEXT NOT NULL,
	num_bands INTEGER NOT NULL,
	compression TEXT NOT NULL,
	quality INTEGER NOT NULL,
	tile_width INTEGER NOT NULL,
	tile_height INTEGER NOT NULL,
	hres REAL NOT NULL,
	vres REAL NOT NULL,
	srid INTEGER NOT NULL
);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return errs.IO(err, "sqlite: creating raster_coverages")
	}
	return nil
}

func levelsTable(name string) string   { return fmt.Sprintf("%s_levels", name) }
func tilesTable(name string) string    { return fmt.Sprintf("%s_tiles", name) }
func tileDataTable(name string) string { return fmt.Sprintf("%s_tile_data", name) }
func statsTable(name string) string    { return fmt.Sprintf("%s_stats", name) }

func (s *Store) ensureCoverageTables(name string) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	pyramid_level INTEGER PRIMARY KEY,
	x_resolution_1_1 REAL, y_resolution_1_1 REAL,
	x_resolution_1_2 REAL, y_resolution_1_2 REAL,
	x_resolution_1_4 REAL, y_resolution_1_4 REAL,
	x_resolution_1_8 REAL, y_resolution_1_8 REAL
);
CREATE TABLE IF NOT EXISTS %s (
	tile_id INTEGER PRIMARY KEY,
	pyramid_level INTEGER NOT NULL,
	minx REAL NOT NULL, miny REAL NOT NULL,
	maxx REAL NOT NULL, maxy REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS %s_bbox ON %s (pyramid_level, minx, maxx, miny, maxy);
CREATE TABLE IF NOT EXISTS %s (
	tile_id INTEGER PRIMARY KEY,
	tile_data_odd BLOB,
	tile_data_even BLOB
);
CREATE TABLE IF NOT EXISTS %s (
	pyramid_level INTEGER PRIMARY KEY,
	blob BLOB NOT NULL
);
`, levelsTable(name), tilesTable(name), tilesTable(name), tilesTable(name), tileDataTable(name), statsTable(name))
	if _, err := s.db.Exec(ddl); err != nil {
		return errs.IO(err, "sqlite: creating tables for coverage %s", name)
	}
	return nil
}

// PutCoverage implements store.Coverages.
func (s *Store) PutCoverage(name string, d *coverage.Descriptor) error {
	if err := s.ensureCoverageTables(name); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO raster_coverages
	(name, sample_type, pixel_type, num_bands, compression, quality, tile_width, tile_height, hres, vres, srid)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
	sample_type=excluded.sample_type, pixel_type=excluded.pixel_type, num_bands=excluded.num_bands,
	compression=excluded.compression, quality=excluded.quality, tile_width=excluded.tile_width,
	tile_height=excluded.tile_height, hres=excluded.hres, vres=excluded.vres, srid=excluded.srid`,
		name, d.SampleType.String(), d.PixelType.String(), d.Bands, d.Compression.String(),
		d.Quality, d.TileWidth, d.TileHeight, d.HRes, d.VRes, d.SRID)
	if err != nil {
		return errs.IO(err, "sqlite: inserting coverage %s", name)
	}
	return nil
}

// GetCoverage implements store.Coverages.
func (s *Store) GetCoverage(name string) (*coverage.Descriptor, error) {
	row := s.db.QueryRow(`SELECT sample_type, pixel_type, num_bands, compression, quality, tile_width, tile_height, hres, vres, srid
		FROM raster_coverages WHERE name = ?`, name)
	var sampleType, pixelType, compression string
	var bands, quality, tw, th, srid int
	var hres, vres float64
	if err := row.Scan(&sampleType, &pixelType, &bands, &compression, &quality, &tw, &th, &hres, &vres, &srid); err != nil {
		return nil, errs.IO(err, "sqlite: reading coverage %s", name)
	}
	st, err := parseSampleType(sampleType)
	if err != nil {
		return nil, err
	}
	pt, err := parsePixelType(pixelType)
	if err != nil {
		return nil, err
	}
	c, err := parseCompression(compression)
	if err != nil {
		return nil, err
	}
	return coverage.NewDescriptor(coverage.Descriptor{
		Name: name, SampleType: st, PixelType: pt, Bands: bands, Compression: c,
		Quality: quality, TileWidth: tw, TileHeight: th, SRID: srid, HRes: hres, VRes: vres,
	})
}

// PutLevels implements store.Levels.
func (s *Store) PutLevels(coverageName string, levels []store.LevelRow) error {
	if err := s.ensureCoverageTables(coverageName); err != nil {
		return err
	}
	table := levelsTable(coverageName)
	stmt := fmt.Sprintf(`INSERT OR REPLACE INTO %s
		(pyramid_level, x_resolution_1_1, y_resolution_1_1, x_resolution_1_2, y_resolution_1_2,
		 x_resolution_1_4, y_resolution_1_4, x_resolution_1_8, y_resolution_1_8)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
	for _, l := range levels {
		_, err := s.db.Exec(stmt, l.PyramidLevel, l.XRes1, l.YRes1, l.XRes2, l.YRes2, l.XRes4, l.YRes4, l.XRes8, l.YRes8)
		if err != nil {
			return errs.IO(err, "sqlite: inserting level %d for %s", l.PyramidLevel, coverageName)
		}
	}
	return nil
}

// GetLevels implements store.Levels.
func (s *Store) GetLevels(coverageName string) ([]store.LevelRow, error) {
	rows, err := s.db.Query(fmt.Sprintf(`SELECT pyramid_level, x_resolution_1_1, y_resolution_1_1,
		x_resolution_1_2, y_resolution_1_2, x_resolution_1_4, y_resolution_1_4,
		x_resolution_1_8, y_resolution_1_8 FROM %s ORDER BY pyramid_level`, levelsTable(coverageName)))
	if err != nil {
		return nil, errs.IO(err, "sqlite: querying levels for %s", coverageName)
	}
	defer rows.Close()
	var out []store.LevelRow
	for rows.Next() {
		var l store.LevelRow
		if err := rows.Scan(&l.PyramidLevel, &l.XRes1, &l.YRes1, &l.XRes2, &l.YRes2, &l.XRes4, &l.YRes4, &l.XRes8, &l.YRes8); err != nil {
			return nil, errs.IO(err, "sqlite: scanning level row for %s", coverageName)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// PutTile implements store.Tiles.
func (s *Store) PutTile(coverageName string, row store.TileRow) error {
	if err := s.ensureCoverageTables(coverageName); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return errs.IO(err, "sqlite: beginning tile insert transaction")
	}
	_, err = tx.Exec(fmt.Sprintf(`INSERT OR REPLACE INTO %s (tile_id, pyramid_level, minx, miny, maxx, maxy)
		VALUES (?, ?, ?, ?, ?, ?)`, tilesTable(coverageName)),
		row.TileID, row.PyramidLevel, row.Envelope.MinX, row.Envelope.MinY, row.Envelope.MaxX, row.Envelope.MaxY)
	if err != nil {
		tx.Rollback()
		return errs.IO(err, "sqlite: inserting tile %d", row.TileID)
	}
	_, err = tx.Exec(fmt.Sprintf(`INSERT OR REPLACE INTO %s (tile_id, tile_data_odd, tile_data_even)
		VALUES (?, ?, ?)`, tileDataTable(coverageName)), row.TileID, row.Odd, row.Even)
	if err != nil {
		tx.Rollback()
		return errs.IO(err, "sqlite: inserting tile_data %d", row.TileID)
	}
	if err := tx.Commit(); err != nil {
		return errs.IO(err, "sqlite: committing tile %d", row.TileID)
	}
	return nil
}

// Query implements store.Tiles.
func (s *Store) Query(coverageName string) store.Query {
	return &sqliteQuery{db: s.db, coverage: coverageName}
}

type sqliteQuery struct {
	db       *sql.DB
	coverage string
}

// Intersecting implements store.Query via the indexed-columns
// bounding-box predicate described in §4.14.
func (q *sqliteQuery) Intersecting(pyramidLevel int, r envelope.Rect) ([]store.TileRow, error) {
	rows, err := q.db.Query(fmt.Sprintf(`
		SELECT t.tile_id, t.minx, t.miny, t.maxx, t.maxy, d.tile_data_odd, d.tile_data_even
		FROM %s t JOIN %s d ON t.tile_id = d.tile_id
		WHERE t.pyramid_level = ? AND t.minx <= ? AND t.maxx >= ? AND t.miny <= ? AND t.maxy >= ?`,
		tilesTable(q.coverage), tileDataTable(q.coverage)),
		pyramidLevel, r.MaxX, r.MinX, r.MaxY, r.MinY)
	if err != nil {
		return nil, errs.IO(err, "sqlite: querying intersecting tiles for %s", q.coverage)
	}
	defer rows.Close()
	var out []store.TileRow
	for rows.Next() {
		var tr store.TileRow
		tr.PyramidLevel = pyramidLevel
		if err := rows.Scan(&tr.TileID, &tr.Envelope.MinX, &tr.Envelope.MinY, &tr.Envelope.MaxX, &tr.Envelope.MaxY, &tr.Odd, &tr.Even); err != nil {
			return nil, errs.IO(err, "sqlite: scanning tile row for %s", q.coverage)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// PutStatistics implements store.TileData.
func (s *Store) PutStatistics(coverageName string, pyramidLevel int, st *stats.Raster) error {
	if err := s.ensureCoverageTables(coverageName); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf(`INSERT OR REPLACE INTO %s (pyramid_level, blob) VALUES (?, ?)`, statsTable(coverageName)),
		pyramidLevel, st.Encode())
	if err != nil {
		return errs.IO(err, "sqlite: inserting statistics for %s level %d", coverageName, pyramidLevel)
	}
	return nil
}

// GetStatistics implements store.TileData.
func (s *Store) GetStatistics(coverageName string, pyramidLevel int) (*stats.Raster, error) {
	row := s.db.QueryRow(fmt.Sprintf(`SELECT blob FROM %s WHERE pyramid_level = ?`, statsTable(coverageName)), pyramidLevel)
	var blob []byte
	if err := row.Scan(&blob); err != nil {
		return nil, errs.IO(err, "sqlite: reading statistics for %s level %d", coverageName, pyramidLevel)
	}
	return stats.Decode(blob)
}

func parseSampleType(s string) (raster.SampleType, error) {
	for _, t := range []raster.SampleType{
		raster.Sample1Bit, raster.Sample2Bit, raster.Sample4Bit, raster.SampleInt8, raster.SampleUint8,
		raster.SampleInt16, raster.SampleUint16, raster.SampleInt32, raster.SampleUint32,
		raster.SampleFloat32, raster.SampleFloat64,
	} {
		if t.String() == s {
			return t, nil
		}
	}
	return raster.SampleUnknown, errs.Corrupt("sqlite: unknown sample_type %q", s)
}

func parsePixelType(s string) (raster.PixelType, error) {
	for _, t := range []raster.PixelType{
		raster.Monochrome, raster.PalettePixel, raster.Grayscale, raster.RGB, raster.MultiBand, raster.DataGrid,
	} {
		if t.String() == s {
			return t, nil
		}
	}
	return raster.PixelUnknown, errs.Corrupt("sqlite: unknown pixel_type %q", s)
}

func parseCompression(s string) (raster.Compression, error) {
	for _, c := range []raster.Compression{
		raster.CompressionNone, raster.CompressionDeflate, raster.CompressionLZMA, raster.CompressionGIF,
		raster.CompressionPNG, raster.CompressionJPEG, raster.CompressionLossyWebP, raster.CompressionLosslessWebP,
		raster.CompressionCCITTFax4,
	} {
		if c.String() == s {
			return c, nil
		}
	}
	return raster.CompressionNone, errs.Corrupt("sqlite: unknown compression %q", s)
}
