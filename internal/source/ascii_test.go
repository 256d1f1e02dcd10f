package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rl2go/rl2/internal/raster"
)

func writeAsciiGrid(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.asc")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const sampleGrid = `ncols 3
nrows 2
xllcorner 10
yllcorner 20
cellsize 5
NODATA_value -9999
1 2 3
4 -9999 6
`

func TestAsciiReaderHeaderAndExtent(t *testing.T) {
	path := writeAsciiGrid(t, sampleGrid)
	r, err := OpenAscii(path, 4326, raster.SampleFloat64)
	if err != nil {
		t.Fatalf("OpenAscii: %v", err)
	}
	defer r.Close()

	w, h := r.Size()
	if w != 3 || h != 2 {
		t.Fatalf("Size() = (%d,%d), want (3,2)", w, h)
	}
	minX, minY, maxX, maxY := r.Extent()
	if minX != 10 || minY != 20 || maxX != 25 || maxY != 30 {
		t.Fatalf("Extent() = (%v,%v,%v,%v), want (10,20,25,30)", minX, minY, maxX, maxY)
	}
	hRes, vRes := r.Resolution()
	if hRes != 5 || vRes != 5 {
		t.Fatalf("Resolution() = (%v,%v), want (5,5)", hRes, vRes)
	}
}

func TestAsciiReaderReadTile(t *testing.T) {
	path := writeAsciiGrid(t, sampleGrid)
	r, err := OpenAscii(path, 0, raster.SampleFloat64)
	if err != nil {
		t.Fatalf("OpenAscii: %v", err)
	}
	defer r.Close()

	tile, err := r.ReadTile(0, 0, 3, 2)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	want := [][]float64{{1, 2, 3}, {4, -9999, 6}}
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			p, err := tile.GetPixel(row, col)
			if err != nil {
				t.Fatalf("GetPixel(%d,%d): %v", row, col, err)
			}
			if got := p.Samples[0].Float(); got != want[row][col] {
				t.Errorf("pixel(%d,%d) = %v, want %v", row, col, got, want[row][col])
			}
		}
	}
}

func TestAsciiReaderReadTileTruncatesAtEdge(t *testing.T) {
	path := writeAsciiGrid(t, sampleGrid)
	r, err := OpenAscii(path, 0, raster.SampleFloat64)
	if err != nil {
		t.Fatalf("OpenAscii: %v", err)
	}
	defer r.Close()

	tile, err := r.ReadTile(1, 1, 4, 4)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	if tile.Width != 2 || tile.Height != 1 {
		t.Fatalf("edge tile size = (%d,%d), want (2,1)", tile.Width, tile.Height)
	}
}

func TestAsciiReaderUint8AboveInt8Range(t *testing.T) {
	// §9(b): a value > 127 must survive a UINT8 round trip; the original
	// source's int8-local-variable bug would have corrupted it.
	grid := `ncols 1
nrows 1
xllcorner 0
yllcorner 0
cellsize 1
NODATA_value -1
200
`
	path := writeAsciiGrid(t, grid)
	r, err := OpenAscii(path, 0, raster.SampleUint8)
	if err != nil {
		t.Fatalf("OpenAscii: %v", err)
	}
	defer r.Close()

	tile, err := r.ReadTile(0, 0, 1, 1)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	p, err := tile.GetPixel(0, 0)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if got := p.Samples[0].Uint(); got != 200 {
		t.Fatalf("pixel value = %d, want 200", got)
	}
}

func TestOpenAsciiRejectsNonDataGridSampleType(t *testing.T) {
	path := writeAsciiGrid(t, sampleGrid)
	if _, err := OpenAscii(path, 0, raster.Sample1Bit); err == nil {
		t.Fatal("expected error for a non-DataGrid sample type")
	}
}
