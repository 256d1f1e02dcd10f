package stats

import (
	"math"
	"testing"

	"github.com/rl2go/rl2/internal/raster"
)

func TestWelfordMeanAndVariance(t *testing.T) {
	b := NewBand(raster.SampleUint8)
	values := []int64{2, 4, 4, 4, 5, 5, 7, 9}
	for _, v := range values {
		b.update(raster.NewIntSample(raster.SampleUint8, v))
	}
	if math.Abs(b.Mean()-5.0) > 1e-9 {
		t.Fatalf("mean = %v, want 5.0", b.Mean())
	}
	// population variance of this set is 4.0; sample variance (n-1) is 32/7.
	wantVar := 32.0 / 7.0
	if math.Abs(b.Variance()-wantVar) > 1e-9 {
		t.Fatalf("variance = %v, want %v", b.Variance(), wantVar)
	}
	if b.Min != 2 || b.Max != 9 {
		t.Fatalf("min/max = %v/%v, want 2/9", b.Min, b.Max)
	}
}

func TestHistogramBinning(t *testing.T) {
	b := NewBand(raster.SampleUint8)
	b.update(raster.NewIntSample(raster.SampleUint8, 10))
	b.update(raster.NewIntSample(raster.SampleUint8, 10))
	b.update(raster.NewIntSample(raster.SampleUint8, 200))
	if b.Histogram[10] != 2 || b.Histogram[200] != 1 {
		t.Fatalf("unexpected histogram: bin10=%v bin200=%v", b.Histogram[10], b.Histogram[200])
	}
}

func TestHistogramNotMeaningfulForWideTypes(t *testing.T) {
	if HistogramMeaningful(raster.SampleFloat32) {
		t.Fatalf("expected float32 histogram to be non-meaningful")
	}
	b := NewBand(raster.SampleFloat32)
	b.update(raster.NewFloatSample(raster.SampleFloat32, 3.5))
	for _, h := range b.Histogram {
		if h != 0 {
			t.Fatalf("expected float32 histogram to stay all-zero")
		}
	}
}

func sampleRasterPixels(st raster.SampleType, vals []int64) *Raster {
	r := NewRaster(st, 1)
	for _, v := range vals {
		s := raster.NewIntSample(st, v)
		p := raster.Pixel{SampleType: st, Samples: []raster.Sample{s}}
		r.Update(p)
	}
	return r
}

// TestMergeAssociativity is Property P6: merging partial statistics in
// either grouping order yields the same min, max, mean, histogram and
// variance.
func TestMergeAssociativity(t *testing.T) {
	a := sampleRasterPixels(raster.SampleUint8, []int64{1, 2, 3, 4})
	b := sampleRasterPixels(raster.SampleUint8, []int64{10, 20, 30})
	c := sampleRasterPixels(raster.SampleUint8, []int64{5, 6, 7, 8, 9})

	abThenC, err := Merge(mustMerge(t, a, b), c)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	aThenBC, err := Merge(a, mustMerge(t, b, c))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	band1, band2 := abThenC.Bands[0], aThenBC.Bands[0]
	if band1.Min != band2.Min || band1.Max != band2.Max {
		t.Fatalf("min/max mismatch: (%v,%v) vs (%v,%v)", band1.Min, band1.Max, band2.Min, band2.Max)
	}
	if math.Abs(band1.Mean()-band2.Mean()) > 1e-9 {
		t.Fatalf("mean mismatch: %v vs %v", band1.Mean(), band2.Mean())
	}
	if math.Abs(band1.Variance()-band2.Variance()) > 1e-9 {
		t.Fatalf("variance mismatch: %v vs %v", band1.Variance(), band2.Variance())
	}
	for i := range band1.Histogram {
		if band1.Histogram[i] != band2.Histogram[i] {
			t.Fatalf("histogram bin %d mismatch: %v vs %v", i, band1.Histogram[i], band2.Histogram[i])
		}
	}
	if abThenC.Count != aThenBC.Count || abThenC.Count != 12 {
		t.Fatalf("count mismatch: %d vs %d", abThenC.Count, aThenBC.Count)
	}
}

func mustMerge(t *testing.T, a, b *Raster) *Raster {
	t.Helper()
	m, err := Merge(a, b)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := sampleRasterPixels(raster.SampleUint8, []int64{1, 2, 3, 250})
	blob := r.Encode()
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SampleType != r.SampleType || got.Count != r.Count || len(got.Bands) != len(r.Bands) {
		t.Fatalf("decoded shape mismatch")
	}
	if got.Bands[0].Min != r.Bands[0].Min || got.Bands[0].Max != r.Bands[0].Max {
		t.Fatalf("decoded min/max mismatch")
	}
	if math.Abs(got.Bands[0].Mean()-r.Bands[0].Mean()) > 1e-9 {
		t.Fatalf("decoded mean mismatch")
	}
	for i := range r.Bands[0].Histogram {
		if got.Bands[0].Histogram[i] != r.Bands[0].Histogram[i] {
			t.Fatalf("decoded histogram bin %d mismatch", i)
		}
	}
}

func TestEncodeDecodeDetectsCorruption(t *testing.T) {
	r := sampleRasterPixels(raster.SampleUint8, []int64{1, 2, 3})
	blob := r.Encode()
	blob[5] ^= 0xFF
	if _, err := Decode(blob); err == nil {
		t.Fatalf("expected corruption to be detected")
	}
}
