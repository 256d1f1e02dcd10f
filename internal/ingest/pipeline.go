// Package ingest implements the ingest pipeline of §4.10: pulling
// tile-aligned Raster windows from a source.Reader, padding edge tiles,
// accumulating statistics, building the 1:2/1:4/1:8 downsampled
// siblings used only for their own statistics (the physical Odd/Even
// block encoded at full resolution already serves every decode scale,
// §4.4), and encoding each tile for persistence.
package ingest

import (
	"github.com/rl2go/rl2/internal/codec"
	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/envelope"
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
	"github.com/rl2go/rl2/internal/source"
	"github.com/rl2go/rl2/internal/stats"
)

// Section is a named logical import unit from one source file (§3): a
// reader plus the name the host wants recorded in error messages.
type Section struct {
	Name   string
	Reader source.Reader
}

// Tuple is one encoded tile ready for persistence (§4.10 step 6). The
// host persists it via the store interfaces of §4.14; TileID is a
// monotonically increasing counter scoped to one ingest run and is
// free to be remapped to a database-assigned primary key.
type Tuple struct {
	TileID   int64
	Level    int
	Envelope envelope.Rect
	Odd      []byte
	Even     []byte
}

// Result is what IngestSection returns once a section is fully
// consumed (§4.10 step 7): the finished statistics keyed by scale
// (1, 2, 4, 8), each accumulated over that scale's own sibling raster.
type Result struct {
	Stats map[int]*stats.Raster
}

// Pipeline drives one coverage's ingest data flow (§2, §4.10).
type Pipeline struct {
	Coverage   *coverage.Descriptor
	nextTileID int64
}

// NewPipeline returns a Pipeline that will encode tiles for cov.
func NewPipeline(cov *coverage.Descriptor) *Pipeline {
	return &Pipeline{Coverage: cov}
}

// scales is the fixed set of decode scales statistics are tracked for,
// matching the four resolution pairs a coverage.Level carries.
var scales = [...]int{1, 2, 4, 8}

// IngestSection runs §4.10 steps 1-7 over sec, invoking sink once per
// encoded tile as it is produced. Any reader or encode error aborts the
// section and is returned (§7: "Ingest failures are fatal for the
// section being loaded").
func (p *Pipeline) IngestSection(sec Section, sink func(Tuple) error) (*Result, error) {
	result := &Result{Stats: make(map[int]*stats.Raster, len(scales))}
	for _, s := range scales {
		result.Stats[s] = stats.NewRaster(p.Coverage.SampleType, p.Coverage.Bands)
	}

	width, height := sec.Reader.Size()
	tw, th := p.Coverage.TileWidth, p.Coverage.TileHeight
	minX, _, _, maxY := sec.Reader.Extent()
	hRes, vRes := p.Coverage.HRes, p.Coverage.VRes

	for startRow := 0; startRow < height; startRow += th {
		for startCol := 0; startCol < width; startCol += tw {
			window, err := sec.Reader.ReadTile(startRow, startCol, tw, th)
			if err != nil {
				return nil, errs.IO(err, "ingest: reading section %q tile (row=%d,col=%d)", sec.Name, startRow, startCol)
			}
			if err := p.accumulate(result.Stats[1], window); err != nil {
				return nil, err
			}

			for _, scale := range scales[1:] {
				sibling, err := Downsample(window, scale)
				if err != nil {
					return nil, err
				}
				if err := p.accumulate(result.Stats[scale], sibling); err != nil {
					return nil, err
				}
			}

			padded, err := pad(window, tw, th, p.Coverage.NoData)
			if err != nil {
				return nil, err
			}
			odd, even, err := codec.Encode(padded, p.Coverage.Compression, p.Coverage.Quality)
			if err != nil {
				return nil, errs.IO(err, "ingest: encoding section %q tile (row=%d,col=%d)", sec.Name, startRow, startCol)
			}

			tileMinX := minX + float64(startCol)*hRes
			tileMaxY := maxY - float64(startRow)*vRes
			env := envelope.Rect{
				MinX: tileMinX,
				MaxY: tileMaxY,
				MaxX: tileMinX + float64(tw)*hRes,
				MinY: tileMaxY - float64(th)*vRes,
			}
			tuple := Tuple{TileID: p.nextTileID, Level: 0, Envelope: env, Odd: odd, Even: even}
			p.nextTileID++
			if err := sink(tuple); err != nil {
				return nil, errs.IO(err, "ingest: persisting tile %d", tuple.TileID)
			}
		}
	}
	return result, nil
}

// accumulate folds every sample of r into acc, treating a pixel as
// no_data when it is masked transparent or matches the coverage's
// NoData pixel exactly (§4.5), even though r itself (fresh off a
// source.Reader) carries no NoData of its own.
func (p *Pipeline) accumulate(acc *stats.Raster, r *raster.Raster) error {
	for row := 0; row < r.Height; row++ {
		for col := 0; col < r.Width; col++ {
			px, err := r.GetPixel(row, col)
			if err != nil {
				return err
			}
			if !px.Transparent && p.Coverage.NoData != nil && px.EqualSamples(*p.Coverage.NoData) {
				px.Transparent = true
			}
			if err := acc.Update(px); err != nil {
				return err
			}
		}
	}
	return nil
}
