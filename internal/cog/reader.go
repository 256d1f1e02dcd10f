// Package cog opens a tiled GeoTIFF and serves tile-aligned RGB/Grayscale
// pixel windows: IFD/tag parsing, Raw/LZW/Deflate/JPEG tile decompression
// and GeoTIFF/TFW georeferencing. internal/source.GeoTiffReader consumes
// it to feed the ingest pipeline arbitrary pixel windows of a source
// image.
package cog

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Reader provides tile-level access to a tiled GeoTIFF file. The file is
// memory-mapped for lock-free concurrent access.
type Reader struct {
	data []byte // memory-mapped file contents
	bo   binary.ByteOrder
	ifds []IFD
	geo  GeoInfo
	path string
}

// Open opens a GeoTIFF file by memory-mapping it and parsing its IFDs. If
// a TFW (TIFF World File) sidecar is found, it is used for georeferencing
// when the TIFF lacks embedded GeoTIFF tags. Only tiled layouts are
// supported — a strip-based TIFF must be re-tiled upstream before
// ingest.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	data, err := mmapFile(f.Fd(), int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	ifds, bo, err := parseTIFF(bytes.NewReader(data))
	if err != nil {
		munmapFile(data)
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(ifds) == 0 {
		munmapFile(data)
		return nil, fmt.Errorf("%s: no IFDs found", path)
	}

	first := &ifds[0]
	if first.TileWidth == 0 || first.TileHeight == 0 {
		munmapFile(data)
		return nil, fmt.Errorf("%s: not tiled (strip-based TIFFs are not supported; re-tile the source first)", path)
	}

	switch first.Compression {
	case 1, 5, 7, 8, 32946:
		// Supported: None, LZW, JPEG, Deflate/zlib.
	default:
		munmapFile(data)
		return nil, fmt.Errorf("%s: unsupported compression type %d", path, first.Compression)
	}

	geo := parseGeoInfo(first)
	if geo.PixelSizeX == 0 && geo.PixelSizeY == 0 {
		if tfwPath := findTFW(path); tfwPath != "" {
			tfw, err := parseTFW(tfwPath)
			if err != nil {
				munmapFile(data)
				return nil, err
			}
			geo = tfw.toGeoInfo()
		}
	}
	if geo.EPSG == 0 && geo.PixelSizeX > 0 {
		geo.EPSG = inferEPSG(geo, first.Width, first.Height)
	}

	return &Reader{data: data, bo: bo, ifds: ifds, geo: geo, path: path}, nil
}

// Close unmaps the memory-mapped file.
func (r *Reader) Close() error {
	if r.data != nil {
		err := munmapFile(r.data)
		r.data = nil
		return err
	}
	return nil
}

// Path returns the file path.
func (r *Reader) Path() string { return r.path }

// GeoInfo returns the parsed geographic metadata.
func (r *Reader) GeoInfo() GeoInfo { return r.geo }

// Width returns the full-resolution image width.
func (r *Reader) Width() int { return int(r.ifds[0].Width) }

// Height returns the full-resolution image height.
func (r *Reader) Height() int { return int(r.ifds[0].Height) }

// PixelSize returns the pixel size in CRS units.
func (r *Reader) PixelSize() float64 { return r.geo.PixelSizeX }

// EPSG returns the detected EPSG code.
func (r *Reader) EPSG() int { return r.geo.EPSG }

// TileSize returns the on-disk tile dimensions of the full-resolution IFD.
func (r *Reader) TileSize() (int, int) {
	return int(r.ifds[0].TileWidth), int(r.ifds[0].TileHeight)
}

// BoundsInCRS returns the bounding box in the source CRS.
func (r *Reader) BoundsInCRS() (minX, minY, maxX, maxY float64) {
	ifd := &r.ifds[0]
	minX = r.geo.OriginX
	maxY = r.geo.OriginY
	maxX = minX + float64(ifd.Width)*r.geo.PixelSizeX
	minY = maxY - float64(ifd.Height)*r.geo.PixelSizeY
	return
}

// undoHorizontalDifferencing reverses TIFF predictor=2 (horizontal
// differencing): each sample is stored as the delta from the previous
// sample in the same row, so this accumulates the deltas back.
func undoHorizontalDifferencing(data []byte, width, samplesPerPixel int) {
	rowBytes := width * samplesPerPixel
	for off := 0; off+rowBytes <= len(data); off += rowBytes {
		row := data[off : off+rowBytes]
		for x := samplesPerPixel; x < rowBytes; x++ {
			row[x] += row[x-samplesPerPixel]
		}
	}
}

// ReadTile reads and decodes a single tile at the given column and row
// from the specified IFD level. Safe for concurrent use: the underlying
// data is memory-mapped read-only.
func (r *Reader) ReadTile(level, col, row int) (image.Image, error) {
	if level < 0 || level >= len(r.ifds) {
		return nil, fmt.Errorf("invalid IFD level %d (have %d)", level, len(r.ifds))
	}
	ifd := &r.ifds[level]
	tilesAcross := ifd.TilesAcross()
	tilesDown := ifd.TilesDown()
	if col < 0 || col >= tilesAcross || row < 0 || row >= tilesDown {
		return nil, fmt.Errorf("tile (%d,%d) out of range (%dx%d)", col, row, tilesAcross, tilesDown)
	}

	tileIdx := row*tilesAcross + col
	if tileIdx >= len(ifd.TileOffsets) || tileIdx >= len(ifd.TileByteCounts) {
		return nil, fmt.Errorf("tile index %d out of range", tileIdx)
	}
	offset := ifd.TileOffsets[tileIdx]
	size := ifd.TileByteCounts[tileIdx]
	if size == 0 {
		return image.NewRGBA(image.Rect(0, 0, int(ifd.TileWidth), int(ifd.TileHeight))), nil
	}
	end := offset + size
	if end > uint64(len(r.data)) {
		return nil, fmt.Errorf("tile data [%d:%d] exceeds file size %d", offset, end, len(r.data))
	}
	data := r.data[offset:end]

	switch ifd.Compression {
	case 7: // JPEG
		return r.decodeJPEGTile(ifd, data)
	case 1: // None
		if ifd.Predictor == 2 {
			buf := append([]byte(nil), data...)
			undoHorizontalDifferencing(buf, int(ifd.TileWidth), int(ifd.SamplesPerPixel))
			return r.decodeRawTile(ifd, buf)
		}
		return r.decodeRawTile(ifd, data)
	case 8, 32946: // Deflate/zlib
		decompressed, err := decompressDeflate(data)
		if err != nil {
			return nil, fmt.Errorf("decompressing deflate tile: %w", err)
		}
		if ifd.Predictor == 2 {
			undoHorizontalDifferencing(decompressed, int(ifd.TileWidth), int(ifd.SamplesPerPixel))
		}
		return r.decodeRawTile(ifd, decompressed)
	case 5: // LZW
		decompressed, err := decompressTIFFLZW(data)
		if err != nil {
			return nil, fmt.Errorf("decompressing LZW tile: %w", err)
		}
		if ifd.Predictor == 2 {
			undoHorizontalDifferencing(decompressed, int(ifd.TileWidth), int(ifd.SamplesPerPixel))
		}
		return r.decodeRawTile(ifd, decompressed)
	default:
		return nil, fmt.Errorf("unsupported compression: %d", ifd.Compression)
	}
}

// decompressDeflate decompresses TIFF compression 8/32946 data. TIFF uses
// zlib framing (deflate plus a 2-byte header); some writers omit it, so a
// raw-deflate fallback covers those too.
func decompressDeflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		defer zr.Close()
		if result, err := io.ReadAll(zr); err == nil {
			return result, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}

// decodeJPEGTile decodes a JPEG-compressed tile, prepending shared JPEG
// tables (quantization/Huffman) when the IFD carries them separately.
func (r *Reader) decodeJPEGTile(ifd *IFD, data []byte) (image.Image, error) {
	jpegData := data
	if len(ifd.JPEGTables) > 0 {
		tables := ifd.JPEGTables
		if len(tables) >= 2 && tables[len(tables)-2] == 0xFF && tables[len(tables)-1] == 0xD9 {
			tables = tables[:len(tables)-2] // drop trailing EOI
		}
		tileData := data
		if len(tileData) >= 2 && tileData[0] == 0xFF && tileData[1] == 0xD8 {
			tileData = tileData[2:] // drop leading SOI, tables carry their own
		}
		jpegData = make([]byte, len(tables)+len(tileData))
		copy(jpegData, tables)
		copy(jpegData[len(tables):], tileData)
	}

	img, err := jpeg.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return nil, fmt.Errorf("decoding JPEG tile: %w", err)
	}
	return img, nil
}

// decodeRawTile decodes an uncompressed (or already-inflated) tile into
// RGBA. Single/dual-band tiles are expanded to grayscale; pixels matching
// the GDAL nodata value get alpha=0 so downstream blitting treats them as
// empty.
func (r *Reader) decodeRawTile(ifd *IFD, data []byte) (image.Image, error) {
	w := int(ifd.TileWidth)
	h := int(ifd.TileHeight)
	spp := int(ifd.SamplesPerPixel)

	var hasNodata bool
	var nodataVal uint8
	if spp <= 2 && ifd.NoData != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(ifd.NoData), 64); err == nil && v >= 0 && v <= 255 && v == math.Floor(v) {
			nodataVal = uint8(v)
			hasNodata = true
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := (y*w + x) * spp
			if idx+spp > len(data) {
				break
			}
			var c color.RGBA
			switch spp {
			case 1:
				v := data[idx]
				c.R, c.G, c.B = v, v, v
				c.A = 255
				if hasNodata && v == nodataVal {
					c.A = 0
				}
			case 2:
				v := data[idx]
				c.R, c.G, c.B = v, v, v
				c.A = data[idx+1]
				if hasNodata && v == nodataVal {
					c.A = 0
				}
			default:
				c.R = data[idx]
				if spp > 1 {
					c.G = data[idx+1]
				}
				if spp > 2 {
					c.B = data[idx+2]
				}
				if spp > 3 {
					c.A = data[idx+3]
				} else {
					c.A = 255
				}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

// ReadRegion reads a rectangular pixel window from the given IFD level,
// stitched together from whichever tiles it overlaps, and returns it as
// one RGBA image. Coordinates are in that level's pixel space.
func (r *Reader) ReadRegion(level, startX, startY, width, height int) (*image.RGBA, error) {
	if level < 0 || level >= len(r.ifds) {
		return nil, fmt.Errorf("invalid level %d", level)
	}
	ifd := &r.ifds[level]
	tw := int(ifd.TileWidth)
	th := int(ifd.TileHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	colStart := startX / tw
	colEnd := (startX + width - 1) / tw
	rowStart := startY / th
	rowEnd := (startY + height - 1) / th

	for row := rowStart; row <= rowEnd; row++ {
		for col := colStart; col <= colEnd; col++ {
			tile, err := r.ReadTile(level, col, row)
			if err != nil {
				return nil, err
			}

			tileMinX := col * tw
			tileMinY := row * th
			srcMinX := max(startX, tileMinX) - tileMinX
			srcMinY := max(startY, tileMinY) - tileMinY
			srcMaxX := min(startX+width, tileMinX+tw) - tileMinX
			srcMaxY := min(startY+height, tileMinY+th) - tileMinY
			dstMinX := max(startX, tileMinX) - startX
			dstMinY := max(startY, tileMinY) - startY

			for y := srcMinY; y < srcMaxY; y++ {
				for x := srcMinX; x < srcMaxX; x++ {
					rr, g, b, a := tile.At(x, y).RGBA()
					dst.SetRGBA(dstMinX+(x-srcMinX), dstMinY+(y-srcMinY), color.RGBA{
						R: uint8(rr >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8),
					})
				}
			}
		}
	}

	return dst, nil
}
