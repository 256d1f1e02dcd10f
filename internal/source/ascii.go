package source

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// AsciiReader implements Reader over an ESRI ASCII grid (§6, §4.13): a
// fixed 6-line header (ncols, nrows, xllcorner, yllcorner, cellsize,
// NODATA_value) followed by nrows rows of ncols whitespace-separated
// values. Pixel values are spilled to a temporary file encoded in the
// declared SampleType's byte layout rather than held fully in memory,
// mirroring the teacher's disk-spill pattern (internal/tile/diskstore.go)
// for sources too large to buffer.
type AsciiReader struct {
	width, height          int
	minX, minY, maxX, maxY float64
	hRes, vRes             float64
	srid                   int
	sampleType             raster.SampleType
	noData                 float64

	tmp      *os.File
	rowBytes int
}

var asciiHeaderFields = [6]string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "NODATA_value"}

// OpenAscii parses path's 6-line header and spills its pixel values to
// a temporary file encoded as sampleType, which must be one of the
// DataGrid-legal sample types of §4.6. srid is supplied by the caller:
// ASCII grids carry no georeferencing authority of their own.
func OpenAscii(path string, srid int, sampleType raster.SampleType) (*AsciiReader, error) {
	if !raster.MatrixAllows(sampleType, raster.DataGrid, 1) {
		return nil, errs.Invalid("source: sample type %s is not a legal DataGrid sample type", sampleType)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(err, "source: opening ascii grid %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16<<20)

	header := make(map[string]float64, len(asciiHeaderFields))
	for _, name := range asciiHeaderFields {
		if !sc.Scan() {
			return nil, errs.Invalid("source: ascii grid %s: truncated header (expected %s)", path, name)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 || !strings.EqualFold(fields[0], name) {
			return nil, errs.Invalid("source: ascii grid %s: expected header line %q, got %q", path, name, sc.Text())
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errs.Invalid("source: ascii grid %s: invalid %s value %q", path, name, fields[1])
		}
		header[name] = v
	}

	width := int(header["ncols"])
	height := int(header["nrows"])
	if width < 1 || width > 65535 || height < 1 || height > 65535 {
		return nil, errs.Invalid("source: ascii grid %s: size %dx%d out of range [1,65535]", path, width, height)
	}
	cellsize := header["cellsize"]
	if cellsize <= 0 {
		return nil, errs.Invalid("source: ascii grid %s: cellsize must be positive, got %v", path, cellsize)
	}
	minX, minY := header["xllcorner"], header["yllcorner"]
	// The original grammar carries a single cellsize for both axes
	// (§6/§9): maxX/maxY and the vertical resolution are derived from
	// it, never read separately.
	maxX := minX + float64(width)*cellsize
	maxY := minY + float64(height)*cellsize

	tmp, err := os.CreateTemp("", "rl2-ascii-*.tmp")
	if err != nil {
		return nil, errs.IO(err, "source: creating spill file for %s", path)
	}

	bw := sampleType.ByteSize()
	rowBuf := make([]byte, width*bw)
	w := bufio.NewWriter(tmp)
	for row := 0; row < height; row++ {
		if !sc.Scan() {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, errs.Invalid("source: ascii grid %s: truncated at row %d of %d", path, row, height)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != width {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, errs.Invalid("source: ascii grid %s: row %d has %d values, want %d", path, row, len(fields), width)
		}
		for col, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				tmp.Close()
				os.Remove(tmp.Name())
				return nil, errs.Invalid("source: ascii grid %s: row %d col %d: invalid value %q", path, row, col, tok)
			}
			// §9(b): the parsed float64 is written directly into its
			// declared byte width; no int8 intermediate exists here to
			// truncate a UINT8 value above 127.
			putSample(rowBuf[col*bw:(col+1)*bw], sampleType, v)
		}
		if _, err := w.Write(rowBuf); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, errs.IO(err, "source: spilling row %d of %s", row, path)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, errs.IO(err, "source: flushing spill file for %s", path)
	}

	return &AsciiReader{
		width: width, height: height,
		minX: minX, minY: minY, maxX: maxX, maxY: maxY,
		hRes: cellsize, vRes: cellsize,
		srid: srid, sampleType: sampleType, noData: header["NODATA_value"],
		tmp: tmp, rowBytes: width * bw,
	}, nil
}

func putSample(b []byte, t raster.SampleType, v float64) {
	switch t {
	case raster.SampleInt8:
		b[0] = byte(int8(math.Round(v)))
	case raster.SampleUint8:
		b[0] = byte(uint8(math.Round(v)))
	case raster.SampleInt16:
		binary.LittleEndian.PutUint16(b, uint16(int16(math.Round(v))))
	case raster.SampleUint16:
		binary.LittleEndian.PutUint16(b, uint16(math.Round(v)))
	case raster.SampleInt32:
		binary.LittleEndian.PutUint32(b, uint32(int32(math.Round(v))))
	case raster.SampleUint32:
		binary.LittleEndian.PutUint32(b, uint32(math.Round(v)))
	case raster.SampleFloat32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case raster.SampleFloat64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

func (a *AsciiReader) Size() (int, int)             { return a.width, a.height }
func (a *AsciiReader) SampleType() raster.SampleType { return a.sampleType }
func (a *AsciiReader) PixelType() raster.PixelType   { return raster.DataGrid }
func (a *AsciiReader) Bands() int                    { return 1 }
func (a *AsciiReader) SRID() int                     { return a.srid }
func (a *AsciiReader) Resolution() (float64, float64) { return a.hRes, a.vRes }
func (a *AsciiReader) Extent() (float64, float64, float64, float64) {
	return a.minX, a.minY, a.maxX, a.maxY
}

// NoDataPixel returns the grid's declared NODATA_value as a Pixel
// matching this reader's shape, for the caller to use as a coverage's
// NoData when building the descriptor it ingests into.
func (a *AsciiReader) NoDataPixel() (raster.Pixel, error) {
	var s raster.Sample
	switch a.sampleType {
	case raster.SampleFloat32, raster.SampleFloat64:
		s = raster.NewFloatSample(a.sampleType, a.noData)
	default:
		s = raster.NewIntSample(a.sampleType, int64(math.Round(a.noData)))
	}
	return raster.NewPixel(a.sampleType, raster.DataGrid, []raster.Sample{s})
}

// ReadTile implements Reader, reading straight out of the spill file
// produced by OpenAscii.
func (a *AsciiReader) ReadTile(startRow, startCol, tileWidth, tileHeight int) (*raster.Raster, error) {
	if startRow < 0 || startCol < 0 || startRow >= a.height || startCol >= a.width {
		return nil, errs.Invalid("source: tile origin (row=%d,col=%d) out of range (%d,%d)", startRow, startCol, a.height, a.width)
	}
	rows := tileHeight
	if startRow+rows > a.height {
		rows = a.height - startRow
	}
	cols := tileWidth
	if startCol+cols > a.width {
		cols = a.width - startCol
	}

	bw := a.sampleType.ByteSize()
	pix := make([]byte, rows*cols*bw)
	rowBuf := make([]byte, cols*bw)
	for i := 0; i < rows; i++ {
		off := int64(startRow+i)*int64(a.rowBytes) + int64(startCol*bw)
		if _, err := a.tmp.ReadAt(rowBuf, off); err != nil && err != io.EOF {
			return nil, errs.IO(err, "source: reading ascii tile row %d", startRow+i)
		}
		copy(pix[i*cols*bw:(i+1)*cols*bw], rowBuf)
	}

	geo := &raster.Georeference{
		SRID: a.srid,
		MinX: a.minX + float64(startCol)*a.hRes,
		MaxY: a.maxY - float64(startRow)*a.vRes,
		HRes: a.hRes, VRes: a.vRes,
	}
	geo.MaxX = geo.MinX + float64(cols)*a.hRes
	geo.MinY = geo.MaxY - float64(rows)*a.vRes

	return raster.New(raster.Config{
		Width: cols, Height: rows,
		SampleType: a.sampleType, PixelType: raster.DataGrid, Bands: 1,
		Pix: pix, Geo: geo,
	})
}

// Close releases the temporary spill file.
func (a *AsciiReader) Close() error {
	name := a.tmp.Name()
	err := a.tmp.Close()
	os.Remove(name)
	return err
}
