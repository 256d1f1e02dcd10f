package pyramid

import (
	"context"
	"testing"

	"github.com/rl2go/rl2/internal/codec"
	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/envelope"
	"github.com/rl2go/rl2/internal/raster"
	"github.com/rl2go/rl2/internal/store"
)

type fakeQuery struct {
	rows []store.TileRow
}

func (q *fakeQuery) Intersecting(pyramidLevel int, r envelope.Rect) ([]store.TileRow, error) {
	var out []store.TileRow
	for _, row := range q.rows {
		if row.PyramidLevel != pyramidLevel {
			continue
		}
		if !envelope.Intersects(row.Envelope, r) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func newTestCoverage(t *testing.T) *coverage.Descriptor {
	t.Helper()
	cov, err := coverage.NewDescriptor(coverage.Descriptor{
		Name: "t", SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1,
		Compression: raster.CompressionDeflate, Quality: 0,
		TileWidth: 256, TileHeight: 256, SRID: 0, HRes: 1, VRes: 1,
	})
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	return cov
}

func TestRenderDecodesAndBlitsMatchingTile(t *testing.T) {
	cov := newTestCoverage(t)
	pix := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	tile, err := raster.New(raster.Config{Width: 4, Height: 4, SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1, Pix: pix})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	odd, even, err := codec.Encode(tile, cov.Compression, cov.Quality)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	env := envelope.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}
	q := &fakeQuery{rows: []store.TileRow{{TileID: 1, PyramidLevel: 0, Envelope: env, Odd: odd, Even: even}}}
	levels := []store.LevelRow{LevelRowFor(cov, 0)}

	out, err := Render(context.Background(), cov, levels, q, Request{Envelope: env, XRes: 1, YRes: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Width != 4 || out.Height != 4 {
		t.Fatalf("output size = (%d,%d), want (4,4)", out.Width, out.Height)
	}
	for i, want := range pix {
		if out.Pix[i] != want {
			t.Errorf("pix[%d] = %d, want %d", i, out.Pix[i], want)
		}
	}
}

func TestRenderLeavesCorruptTileFootprintAsNoData(t *testing.T) {
	cov := newTestCoverage(t)
	env := envelope.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}
	q := &fakeQuery{rows: []store.TileRow{{TileID: 1, PyramidLevel: 0, Envelope: env, Odd: []byte("not a real block")}}}
	levels := []store.LevelRow{LevelRowFor(cov, 0)}

	out, err := Render(context.Background(), cov, levels, q, Request{Envelope: env, XRes: 1, YRes: 1})
	if err != nil {
		t.Fatalf("Render should tolerate a corrupt tile, got error: %v", err)
	}
	for i, v := range out.Pix {
		if v != 0 {
			t.Errorf("pix[%d] = %d, want 0 (untouched, no NoData configured)", i, v)
		}
	}
}

func TestRenderNoMatchingResolutionPropagates(t *testing.T) {
	cov := newTestCoverage(t)
	env := envelope.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}
	q := &fakeQuery{}
	levels := []store.LevelRow{LevelRowFor(cov, 0)}

	_, err := Render(context.Background(), cov, levels, q, Request{Envelope: env, XRes: 1000, YRes: 1000})
	if err == nil {
		t.Fatal("expected an error for an unmatched resolution")
	}
}
