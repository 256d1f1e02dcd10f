// Package stats implements the statistics engine of §4.5: per-band
// running min/max/mean/variance via Welford's method, fixed-bin
// histograms, and pooled-variance merging of independently accumulated
// RasterStatistics (used to fold ingest sections together, §4.10).
package stats

import (
	"math"

	"github.com/rl2go/rl2/internal/raster"
)

// BinCount returns the fixed histogram bin count for a sample type: 2
// for 1-bit, 4 for 2-bit, 16 for 4-bit, else 256 (§3 BandStatistics).
func BinCount(st raster.SampleType) int {
	switch st {
	case raster.Sample1Bit:
		return 2
	case raster.Sample2Bit:
		return 4
	case raster.Sample4Bit:
		return 16
	default:
		return 256
	}
}

// HistogramMeaningful reports whether a sample type's histogram bins
// are actually populated. Per §4.5/§9 Open Question (a), the baseline
// engine only buckets 1/2/4-bit and 8-bit (signed or unsigned) samples;
// wider integer and floating-point types allocate a histogram (so the
// wire format and merge logic stay uniform) but never update it.
func HistogramMeaningful(st raster.SampleType) bool {
	switch st {
	case raster.Sample1Bit, raster.Sample2Bit, raster.Sample4Bit, raster.SampleInt8, raster.SampleUint8:
		return true
	default:
		return false
	}
}

func histogramBin(st raster.SampleType, s raster.Sample) int {
	if st == raster.SampleInt8 {
		return int(s.Int()) + 128
	}
	return int(s.Uint())
}

// PooledRecord is one contribution to a Band's pooled-variance list
// (§4.5): a sample count and the variance computed over just those
// samples.
type PooledRecord struct {
	Count    uint64
	Variance float64
}

// Band is the running statistics for one band of a coverage (§3
// BandStatistics).
type Band struct {
	SampleType raster.SampleType
	Min, Max   float64
	Count      uint64
	Histogram  []float64
	Pooled     []PooledRecord

	mean      float64
	sumSqDiff float64
}

// NewBand returns a zeroed Band ready for Update, with Min/Max seeded
// to +/-Inf so the first sample always sets both.
func NewBand(st raster.SampleType) *Band {
	return &Band{
		SampleType: st,
		Min:        math.Inf(1),
		Max:        math.Inf(-1),
		Histogram:  make([]float64, BinCount(st)),
	}
}

// Mean returns the running mean.
func (b *Band) Mean() float64 { return b.mean }

// Variance returns the reported band variance (§4.5): the pooled
// variance over b.Pooled when non-empty, else sum_sq_diff/(n-1).
func (b *Band) Variance() float64 {
	if len(b.Pooled) > 0 {
		return pooledVariance(b.Pooled)
	}
	if b.Count < 2 {
		return 0
	}
	return b.sumSqDiff / float64(b.Count-1)
}

// update folds one sample into the band's running statistics via
// Welford's method (§4.5) and, when meaningful, its histogram bin.
func (b *Band) update(s raster.Sample) {
	x := s.Float()
	b.Count++
	if b.Count == 1 {
		b.Min, b.Max = x, x
	} else {
		if x < b.Min {
			b.Min = x
		}
		if x > b.Max {
			b.Max = x
		}
	}
	delta := x - b.mean
	n := float64(b.Count)
	b.sumSqDiff += ((n - 1) / n) * delta * delta
	b.mean += delta / n

	if HistogramMeaningful(b.SampleType) {
		bin := histogramBin(b.SampleType, s)
		if bin >= 0 && bin < len(b.Histogram) {
			b.Histogram[bin]++
		}
	}
}

func pooledVariance(records []PooledRecord) float64 {
	var num, den float64
	for _, r := range records {
		if r.Count < 2 {
			continue
		}
		num += r.Variance * float64(r.Count-1)
		den += float64(r.Count - 1)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// recordsOf returns the leaf pooled-variance records a Band contributes
// to a merge: its own existing Pooled list when non-empty (it has
// already been merged at least once), or a single record summarizing
// its own sum_sq_diff otherwise.
func recordsOf(b *Band) []PooledRecord {
	if len(b.Pooled) > 0 {
		return b.Pooled
	}
	if b.Count < 2 {
		return nil
	}
	return []PooledRecord{{Count: b.Count, Variance: b.sumSqDiff / float64(b.Count-1)}}
}

func mergeBand(a, c *Band) *Band {
	m := &Band{
		SampleType: a.SampleType,
		Min:        math.Min(a.Min, c.Min),
		Max:        math.Max(a.Max, c.Max),
		Count:      a.Count + c.Count,
		Histogram:  make([]float64, len(a.Histogram)),
	}
	if m.Count > 0 {
		m.mean = (a.mean*float64(a.Count) + c.mean*float64(c.Count)) / float64(m.Count)
	}
	m.Pooled = append(append([]PooledRecord{}, recordsOf(a)...), recordsOf(c)...)
	for i := range m.Histogram {
		m.Histogram[i] = a.Histogram[i] + c.Histogram[i]
	}
	return m
}
