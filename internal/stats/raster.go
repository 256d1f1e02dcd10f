package stats

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// Raster is the running statistics for every band of a coverage level
// (§3 RasterStatistics): a shared no_data/total sample count plus one
// Band per band, since a pixel's transparency applies uniformly across
// all of its bands.
type Raster struct {
	SampleType  raster.SampleType
	Bands       []*Band
	NoDataCount uint64
	Count       uint64
}

// NewRaster allocates a zeroed Raster for a coverage with the given
// sample type and band count.
func NewRaster(st raster.SampleType, bands int) *Raster {
	r := &Raster{SampleType: st, Bands: make([]*Band, bands)}
	for i := range r.Bands {
		r.Bands[i] = NewBand(st)
	}
	return r
}

// Update folds one pixel into the running statistics, skipping it
// (and counting it as no_data) if it is marked Transparent (§4.5). It
// does not compare against a NoData value itself; the ingest pipeline
// marks pixels equal to the coverage's NoData as Transparent first.
func (r *Raster) Update(p raster.Pixel) error {
	if p.Transparent {
		r.NoDataCount++
		return nil
	}
	if len(p.Samples) != len(r.Bands) {
		return errs.Invalid("stats: pixel has %d bands, statistics has %d", len(p.Samples), len(r.Bands))
	}
	r.Count++
	for i, s := range p.Samples {
		r.Bands[i].update(s)
	}
	return nil
}

// Merge combines two independently accumulated Rasters for the same
// coverage via pooled-variance aggregation (§4.5). It does not mutate
// either input.
func Merge(a, b *Raster) (*Raster, error) {
	if a.SampleType != b.SampleType || len(a.Bands) != len(b.Bands) {
		return nil, errs.Invalid("stats: cannot merge statistics of differing shape")
	}
	m := &Raster{
		SampleType:  a.SampleType,
		NoDataCount: a.NoDataCount + b.NoDataCount,
		Count:       a.Count + b.Count,
		Bands:       make([]*Band, len(a.Bands)),
	}
	for i := range a.Bands {
		m.Bands[i] = mergeBand(a.Bands[i], b.Bands[i])
	}
	return m, nil
}

// Wire markers for the RasterStatistics serialization (§6).
const (
	statsStart       = 0x00
	statsTag1        = 0x27
	statsTag2        = 0x01
	bandStart        = 0x37
	histogramStart   = 0x47
	histogramEnd     = 0x4A
	bandEnd          = 0x3A
	statsFinalMarker = 0x2A
)

// Encode serializes r to its wire representation (§6).
func (r *Raster) Encode() []byte {
	buf := make([]byte, 0, 32+len(r.Bands)*(40+8*BinCount(r.SampleType)))
	put8 := func(v byte) { buf = append(buf, v) }
	put16 := func(v int) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		buf = append(buf, b[:]...)
	}
	put64f := func(v float64) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf = append(buf, b[:]...)
	}

	put8(statsStart)
	put8(statsTag1)
	put8(statsTag2)
	put8(byte(r.SampleType))
	put8(byte(len(r.Bands)))
	put64f(float64(r.NoDataCount))
	put64f(float64(r.Count))

	for _, band := range r.Bands {
		put8(bandStart)
		put64f(band.Min)
		put64f(band.Max)
		put64f(band.mean)
		put64f(band.sumSqDiff)
		put16(len(band.Histogram))
		put8(histogramStart)
		for _, h := range band.Histogram {
			put64f(h)
		}
		put8(histogramEnd)
		put8(bandEnd)
	}

	crc := crc32.ChecksumIEEE(buf)
	var crcBytes [4]byte
	binary.LittleEndian.PutUint32(crcBytes[:], crc)
	buf = append(buf, crcBytes[:]...)
	put8(statsFinalMarker)
	return buf
}

// Decode parses the wire representation written by Encode, validating
// its CRC32 and framing markers.
func Decode(data []byte) (*Raster, error) {
	if len(data) < 14 {
		return nil, errs.Corrupt("stats: buffer too short (%d bytes)", len(data))
	}
	if data[len(data)-1] != statsFinalMarker {
		return nil, errs.Corrupt("stats: missing final marker")
	}
	storedCRC := binary.LittleEndian.Uint32(data[len(data)-5 : len(data)-1])
	if got := crc32.ChecksumIEEE(data[:len(data)-5]); got != storedCRC {
		return nil, errs.Corrupt("stats: CRC32 mismatch: stored=%08x computed=%08x", storedCRC, got)
	}

	pos := 0
	get8 := func() byte { v := data[pos]; pos++; return v }
	get16 := func() int { v := binary.LittleEndian.Uint16(data[pos:]); pos += 2; return int(v) }
	get64f := func() float64 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
		pos += 8
		return v
	}

	if get8() != statsStart || get8() != statsTag1 || get8() != statsTag2 {
		return nil, errs.Corrupt("stats: bad header markers")
	}
	st := raster.SampleType(get8())
	numBands := int(get8())
	r := &Raster{SampleType: st, Bands: make([]*Band, numBands)}
	r.NoDataCount = uint64(get64f())
	r.Count = uint64(get64f())

	for i := 0; i < numBands; i++ {
		if get8() != bandStart {
			return nil, errs.Corrupt("stats: missing band start marker at band %d", i)
		}
		b := &Band{SampleType: st}
		b.Min = get64f()
		b.Max = get64f()
		b.mean = get64f()
		b.sumSqDiff = get64f()
		n := get16()
		if get8() != histogramStart {
			return nil, errs.Corrupt("stats: missing histogram start marker at band %d", i)
		}
		b.Histogram = make([]float64, n)
		for j := 0; j < n; j++ {
			b.Histogram[j] = get64f()
		}
		if get8() != histogramEnd {
			return nil, errs.Corrupt("stats: missing histogram end marker at band %d", i)
		}
		if get8() != bandEnd {
			return nil, errs.Corrupt("stats: missing band end marker at band %d", i)
		}
		r.Bands[i] = b
	}
	return r, nil
}
