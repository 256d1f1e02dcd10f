package ingest

import (
	"testing"

	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/raster"
)

// fakeReader is an in-memory source.Reader test double backed by one
// full-size Raster, used to exercise Pipeline without a real file.
type fakeReader struct {
	r *raster.Raster
}

func (f *fakeReader) Size() (int, int)                     { return f.r.Width, f.r.Height }
func (f *fakeReader) SampleType() raster.SampleType         { return f.r.SampleType }
func (f *fakeReader) PixelType() raster.PixelType           { return f.r.PixelType }
func (f *fakeReader) Bands() int                            { return f.r.Bands }
func (f *fakeReader) SRID() int                             { return 0 }
func (f *fakeReader) Resolution() (float64, float64)        { return 1, 1 }
func (f *fakeReader) Extent() (float64, float64, float64, float64) {
	return 0, 0, float64(f.r.Width), float64(f.r.Height)
}
func (f *fakeReader) Close() error { return nil }

func (f *fakeReader) ReadTile(startRow, startCol, tileWidth, tileHeight int) (*raster.Raster, error) {
	rows := tileHeight
	if startRow+rows > f.r.Height {
		rows = f.r.Height - startRow
	}
	cols := tileWidth
	if startCol+cols > f.r.Width {
		cols = f.r.Width - startCol
	}
	bw := f.r.SampleType.ByteSize()
	sampleBytes := f.r.Bands * bw
	pix := make([]byte, rows*cols*sampleBytes)
	srcRowBytes := f.r.Width * sampleBytes
	dstRowBytes := cols * sampleBytes
	for row := 0; row < rows; row++ {
		srcOff := (startRow+row)*srcRowBytes + startCol*sampleBytes
		copy(pix[row*dstRowBytes:(row+1)*dstRowBytes], f.r.Pix[srcOff:srcOff+dstRowBytes])
	}
	return raster.New(raster.Config{
		Width: cols, Height: rows,
		SampleType: f.r.SampleType, PixelType: f.r.PixelType, Bands: f.r.Bands,
		Pix: pix,
	})
}

func TestIngestSectionEncodesEveryTileAndAccumulatesStats(t *testing.T) {
	// A 384x256 grayscale source over a 256x256 tile grid: one full
	// tile plus one partial edge column, each requiring padding.
	w, h := 384, 256
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = byte((i % 50) + 10)
	}
	src, err := raster.New(raster.Config{Width: w, Height: h, SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1, Pix: pix})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cov, err := coverage.NewDescriptor(coverage.Descriptor{
		Name: "test", SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1,
		Compression: raster.CompressionDeflate, Quality: 0,
		TileWidth: 256, TileHeight: 256, SRID: 0, HRes: 1, VRes: 1,
	})
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}

	p := NewPipeline(cov)
	var tuples []Tuple
	res, err := p.IngestSection(Section{Name: "sec", Reader: &fakeReader{r: src}}, func(tu Tuple) error {
		tuples = append(tuples, tu)
		return nil
	})
	if err != nil {
		t.Fatalf("IngestSection: %v", err)
	}
	if len(tuples) != 2 {
		t.Fatalf("got %d tuples, want 2 (one full tile, one partial column)", len(tuples))
	}
	for i, tu := range tuples {
		if tu.TileID != int64(i) {
			t.Errorf("tuple %d has TileID %d, want %d", i, tu.TileID, i)
		}
		if len(tu.Odd) == 0 {
			t.Errorf("tuple %d has empty Odd block", i)
		}
	}

	for _, scale := range scales {
		b := res.Stats[scale]
		if b == nil {
			t.Fatalf("missing stats for scale %d", scale)
		}
		if b.Bands[0].Count == 0 {
			t.Errorf("scale %d: expected non-zero sample count", scale)
		}
	}
	if res.Stats[1].Bands[0].Count != uint64(w*h) {
		t.Errorf("scale 1 count = %d, want %d (every source sample, unpadded)", res.Stats[1].Bands[0].Count, w*h)
	}
}

func TestIngestSectionPropagatesSinkFailure(t *testing.T) {
	pix := make([]byte, 256*256)
	src, err := raster.New(raster.Config{Width: 256, Height: 256, SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1, Pix: pix})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cov, err := coverage.NewDescriptor(coverage.Descriptor{
		Name: "test", SampleType: raster.SampleUint8, PixelType: raster.Grayscale, Bands: 1,
		Compression: raster.CompressionDeflate, Quality: 0,
		TileWidth: 256, TileHeight: 256, SRID: 0, HRes: 1, VRes: 1,
	})
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	p := NewPipeline(cov)
	wantErr := errTestSink
	_, err = p.IngestSection(Section{Name: "sec", Reader: &fakeReader{r: src}}, func(Tuple) error {
		return wantErr
	})
	if err == nil {
		t.Fatal("expected an error when the sink fails")
	}
}

var errTestSink = &testError{"sink failed"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
