package codec

import (
	"encoding/binary"

	"github.com/rl2go/rl2/internal/compress"
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// Block framing markers (§4.4).
const (
	startSentinel = 0x00
	oddMarker     = 0xFA
	oddEndMarker  = 0xF0
	evenMarker    = 0xDB
	evenEndMarker = 0xD0

	dataStartMarker = 0xC8
	dataEndMarker   = 0xC9
	maskStartMarker = 0xB6
	maskEndMarker   = 0xB7
)

// rowSplit reports whether a tile of the given shape splits its rows
// across separate Odd/Even blocks (§4.4 scale policy). Sub-byte sample
// types and the whole-image codecs (JPEG/WebP) instead pack the entire
// raster into the Odd block alone.
func rowSplit(st raster.SampleType, c raster.Compression) bool {
	if st.IsSubByte() {
		return false
	}
	switch c {
	case raster.CompressionJPEG, raster.CompressionLossyWebP, raster.CompressionLosslessWebP:
		return false
	default:
		return true
	}
}

// Encode serializes tile into an Odd block and, when the tile's shape
// requires a row split (§4.4), an Even block. compression is the
// coverage's declared compression; the block header records whichever
// compression was actually used after the §4.3 inflation fallback.
func Encode(tile *raster.Raster, compression raster.Compression, quality int) (odd, even []byte, err error) {
	if tile.Height%2 != 0 {
		return nil, nil, errs.Invalid("codec: tile height %d must be even", tile.Height)
	}
	if !raster.MatrixAllowsCompression(tile.SampleType, tile.PixelType, tile.Bands, compression) {
		return nil, nil, errs.Unsupported("codec: (%s,%s,bands=%d,%s) is outside the encode self-consistency matrix", tile.SampleType, tile.PixelType, tile.Bands, compression)
	}

	split := rowSplit(tile.SampleType, compression)
	if !split {
		odd, err = encodeBlock(tile, 0, tile.Height, compression, quality, true, nil)
		return odd, nil, err
	}

	oddRows := tile.Height / 2
	evenRows := tile.Height / 2
	odd, err = encodeBlock(tile, 0, oddRows, compression, quality, false, nil)
	if err != nil {
		return nil, nil, err
	}
	oddCRC := codecCRCOfBlock(odd)
	even, err = encodeBlock(tile, 1, evenRows, compression, quality, false, &oddCRC)
	if err != nil {
		return nil, nil, err
	}
	return odd, even, nil
}

// encodeBlock builds one block (Odd when startRow==0, Even when
// startRow==1) covering every `step`=2-th row starting at startRow, for
// `rows` rows, or — when full is true — the entire raster in one shot.
func encodeBlock(tile *raster.Raster, startRow, rows int, compression raster.Compression, quality int, full bool, linkedOddCRC *uint32) ([]byte, error) {
	width := tile.Width
	bw := tile.SampleType.ByteSize()
	rowBytes := width * tile.Bands * bw

	raw := make([]byte, rows*rowBytes)
	maskRaw := make([]byte, 0, rows*width)
	hasMask := tile.Mask != nil
	for i := 0; i < rows; i++ {
		srcRow := i
		if !full {
			srcRow = startRow + i*2
		}
		copy(raw[i*rowBytes:(i+1)*rowBytes], tile.Pix[srcRow*rowBytes:(srcRow+1)*rowBytes])
		if hasMask {
			maskRaw = append(maskRaw, tile.Mask.Bytes[srcRow*width:(srcRow+1)*width]...)
		}
	}

	payload := raw
	packed := tile.SampleType.IsSubByte() && !compress.IsImageCodec(compression)
	if packed {
		p, err := PackRows(raw, width*tile.Bands, rows, tile.SampleType.BitWidth())
		if err != nil {
			return nil, err
		}
		payload = p
	}

	backend, err := compress.Get(compression)
	if err != nil {
		return nil, errs.Unsupported("%v", err)
	}
	compressed, err := backend.Encode(payload, width, rows, tile.SampleType, tile.PixelType, tile.Palette, quality)
	if err != nil {
		return nil, errs.Unsupported("codec: %s encode failed: %v", compression, err)
	}
	usedCompression := compression
	if len(compressed) >= len(payload) {
		compressed = append([]byte(nil), payload...)
		usedCompression = raster.CompressionNone
	}

	var maskCompressed []byte
	if hasMask {
		rle, err := EncodeRLEMask(maskRaw, width, rows)
		if err != nil {
			return nil, err
		}
		maskCompressed = rle
	}

	rowStride := 0
	if rows > 0 {
		rowStride = len(payload) / rows
	}

	return assembleBlock(blockFields{
		isOdd:          startRow == 0,
		endian:         WriterEndian,
		compression:    usedCompression,
		sampleType:     tile.SampleType,
		pixelType:      tile.PixelType,
		bands:          tile.Bands,
		width:          width,
		fullHeight:     tile.Height,
		rowStride:      rowStride,
		rowCount:       rows,
		uncompressed:   len(payload),
		payload:        compressed,
		uncompMaskSize: len(maskRaw),
		maskPayload:    maskCompressed,
		linkedOddCRC:   linkedOddCRC,
	}), nil
}

type blockFields struct {
	isOdd          bool
	endian         Endian
	compression    raster.Compression
	sampleType     raster.SampleType
	pixelType      raster.PixelType
	bands          int
	width          int
	fullHeight     int
	rowStride      int
	rowCount       int
	uncompressed   int
	payload        []byte
	uncompMaskSize int
	maskPayload    []byte
	linkedOddCRC   *uint32 // set only for Even blocks
}

func assembleBlock(f blockFields) []byte {
	buf := make([]byte, 0, 40+len(f.payload)+len(f.maskPayload))
	put8 := func(v byte) { buf = append(buf, v) }
	put16 := func(v int) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		buf = append(buf, b[:]...)
	}
	put32 := func(v int) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		buf = append(buf, b[:]...)
	}

	put8(startSentinel)
	if f.isOdd {
		put8(oddMarker)
	} else {
		put8(evenMarker)
	}
	put8(byte(f.endian))
	put8(byte(f.compression))
	put8(byte(f.sampleType))
	put8(byte(f.pixelType))
	put8(byte(f.bands))
	put16(f.width)
	put16(f.fullHeight)
	put16(f.rowStride)
	put16(f.rowCount)
	if !f.isOdd {
		var crc uint32
		if f.linkedOddCRC != nil {
			crc = *f.linkedOddCRC
		}
		put32(int(crc))
	}
	put32(f.uncompressed)
	put32(len(f.payload))
	put32(f.uncompMaskSize)
	put32(len(f.maskPayload))

	put8(dataStartMarker)
	buf = append(buf, f.payload...)
	put8(dataEndMarker)
	put8(maskStartMarker)
	buf = append(buf, f.maskPayload...)
	put8(maskEndMarker)

	crc := ComputeCRC32(buf)
	put32(int(crc))
	if f.isOdd {
		put8(oddEndMarker)
	} else {
		put8(evenEndMarker)
	}
	return buf
}

// codecCRCOfBlock returns the CRC32 recorded at the tail of an already
// assembled block (used to link the Even block to its Odd counterpart).
func codecCRCOfBlock(block []byte) uint32 {
	// CRC is the 4 bytes immediately before the trailing end-sentinel.
	return binary.LittleEndian.Uint32(block[len(block)-5 : len(block)-1])
}

// parsedBlock is a validated, framed-apart Odd or Even block.
type parsedBlock struct {
	isOdd          bool
	endian         Endian
	compression    raster.Compression
	sampleType     raster.SampleType
	pixelType      raster.PixelType
	bands          int
	width          int
	fullHeight     int
	rowStride      int
	rowCount       int
	linkedOddCRC   uint32 // only meaningful when !isOdd
	uncompressed   int
	payload        []byte
	uncompMaskSize int
	maskPayload    []byte
}

// parseBlock verifies a block's framing and CRC32 (§4.4, Property P4)
// and splits it into its header fields and data/mask sections.
func parseBlock(block []byte) (*parsedBlock, error) {
	if len(block) < 10 {
		return nil, errs.Corrupt("codec: block too short (%d bytes)", len(block))
	}
	storedCRC := binary.LittleEndian.Uint32(block[len(block)-5 : len(block)-1])
	computed := ComputeCRC32(block[:len(block)-5])
	if storedCRC != computed {
		return nil, errs.Corrupt("codec: CRC32 mismatch: stored=%08x computed=%08x", storedCRC, computed)
	}

	p := &parsedBlock{}
	pos := 0
	get8 := func() byte { v := block[pos]; pos++; return v }
	get16 := func() int { v := binary.LittleEndian.Uint16(block[pos:]); pos += 2; return int(v) }
	get32 := func() int { v := binary.LittleEndian.Uint32(block[pos:]); pos += 4; return int(v) }

	if get8() != startSentinel {
		return nil, errs.Corrupt("codec: missing start sentinel")
	}
	marker := get8()
	switch marker {
	case oddMarker:
		p.isOdd = true
	case evenMarker:
		p.isOdd = false
	default:
		return nil, errs.Corrupt("codec: unrecognized block marker 0x%02x", marker)
	}
	p.endian = Endian(get8())
	p.compression = raster.Compression(get8())
	p.sampleType = raster.SampleType(get8())
	p.pixelType = raster.PixelType(get8())
	p.bands = int(get8())
	p.width = get16()
	p.fullHeight = get16()
	p.rowStride = get16()
	p.rowCount = get16()
	if !p.isOdd {
		p.linkedOddCRC = uint32(get32())
	}
	p.uncompressed = get32()
	compLen := get32()
	p.uncompMaskSize = get32()
	maskLen := get32()

	if get8() != dataStartMarker {
		return nil, errs.Corrupt("codec: missing data start marker")
	}
	if pos+compLen > len(block) {
		return nil, errs.Corrupt("codec: truncated payload")
	}
	p.payload = block[pos : pos+compLen]
	pos += compLen
	if get8() != dataEndMarker {
		return nil, errs.Corrupt("codec: missing data end marker")
	}
	if get8() != maskStartMarker {
		return nil, errs.Corrupt("codec: missing mask start marker")
	}
	if pos+maskLen > len(block) {
		return nil, errs.Corrupt("codec: truncated mask payload")
	}
	p.maskPayload = block[pos : pos+maskLen]
	pos += maskLen
	if get8() != maskEndMarker {
		return nil, errs.Corrupt("codec: missing mask end marker")
	}

	endMarker := block[len(block)-1]
	wantEnd := byte(oddEndMarker)
	if !p.isOdd {
		wantEnd = evenEndMarker
	}
	if endMarker != wantEnd {
		return nil, errs.Corrupt("codec: missing end sentinel")
	}
	return p, nil
}

// decodeRows fully decompresses a parsed block's payload (and, if
// present, its RLE-encoded mask) back into one unpacked, row-major raw
// pixel buffer plus an optional parallel mask byte buffer.
func decodeRows(p *parsedBlock, pal *raster.Palette) (raw []byte, mask []byte, err error) {
	backend, err := compress.Get(p.compression)
	if err != nil {
		return nil, nil, errs.Unsupported("%v", err)
	}
	payload, err := backend.Decode(p.payload, p.width, p.rowCount, p.sampleType, p.pixelType, pal)
	if err != nil {
		return nil, nil, errs.Decode(err, "codec: %s decode failed", p.compression)
	}
	if !compress.IsImageCodec(p.compression) && hostNeedsSwap(p.endian) {
		swapSamples(payload, p.sampleType)
	}
	if p.sampleType.IsSubByte() && !compress.IsImageCodec(p.compression) {
		payload, err = UnpackRows(payload, p.width*p.bands, p.rowCount, p.sampleType.BitWidth())
		if err != nil {
			return nil, nil, err
		}
	}
	if len(p.maskPayload) > 0 {
		mask, err = DecodeRLEMask(p.maskPayload, p.width, p.rowCount)
		if err != nil {
			return nil, nil, err
		}
	}
	return payload, mask, nil
}

// Decode reconstructs a Raster from its Odd block (and, when the tile
// used a row split and scale==1, its Even block) at the requested
// decode scale (1, 2, 4 or 8), per the algebra derived from Property P3:
// Odd.row[j] == R.row(rowStride0*j), so decoding at scale requires
// every (scale/rowStride0)-th row of the decoded Odd buffer, each
// row further subsampled by taking every scale-th column.
func Decode(odd, even []byte, scale int, pal *raster.Palette) (*raster.Raster, error) {
	switch scale {
	case 1, 2, 4, 8:
	default:
		return nil, errs.Invalid("codec: scale must be one of 1,2,4,8, got %d", scale)
	}

	op, err := parseBlock(odd)
	if err != nil {
		return nil, err
	}
	if !op.isOdd {
		return nil, errs.Invalid("codec: expected an Odd block")
	}

	split := op.rowCount*2 == op.fullHeight
	if !split && op.rowCount != op.fullHeight {
		return nil, errs.Corrupt("codec: Odd block row count %d matches neither full (%d) nor half-split of the tile height", op.rowCount, op.fullHeight)
	}
	if !split && scale != 1 && op.sampleType.IsSubByte() {
		return nil, errs.Unsupported("codec: scale=%d decode is not supported for sub-byte sample types (%s); use the coverage's own 1:%d level instead", scale, op.sampleType, scale)
	}

	oddRaw, oddMask, err := decodeRows(op, pal)
	if err != nil {
		return nil, err
	}

	if scale == 1 {
		if !split {
			return buildRaster(op, op.width, op.fullHeight, oddRaw, oddMask, pal)
		}
		if even == nil {
			return nil, errs.Invalid("codec: scale=1 on a row-split tile requires the Even block")
		}
		ep, err := parseBlock(even)
		if err != nil {
			return nil, err
		}
		if ep.isOdd {
			return nil, errs.Invalid("codec: expected an Even block")
		}
		if ep.linkedOddCRC != ComputeCRC32(odd[:len(odd)-5]) {
			return nil, errs.Corrupt("codec: Even block's linked Odd CRC32 does not match the supplied Odd block")
		}
		evenRaw, evenMask, err := decodeRows(ep, pal)
		if err != nil {
			return nil, err
		}
		rowBytes := op.width * op.bands * op.sampleType.ByteSize()
		raw := make([]byte, op.fullHeight*rowBytes)
		var maskOut []byte
		if oddMask != nil || evenMask != nil {
			maskOut = make([]byte, op.fullHeight*op.width)
		}
		for i := 0; i < op.rowCount; i++ {
			copy(raw[(2*i)*rowBytes:(2*i+1)*rowBytes], oddRaw[i*rowBytes:(i+1)*rowBytes])
			if maskOut != nil && oddMask != nil {
				copy(maskOut[(2*i)*op.width:(2*i+1)*op.width], oddMask[i*op.width:(i+1)*op.width])
			}
		}
		for i := 0; i < ep.rowCount; i++ {
			copy(raw[(2*i+1)*rowBytes:(2*i+2)*rowBytes], evenRaw[i*rowBytes:(i+1)*rowBytes])
			if maskOut != nil && evenMask != nil {
				copy(maskOut[(2*i+1)*op.width:(2*i+2)*op.width], evenMask[i*op.width:(i+1)*op.width])
			}
		}
		return buildRaster(op, op.width, op.fullHeight, raw, maskOut, pal)
	}

	rowStride0 := 1
	if split {
		rowStride0 = 2
	}
	v := scale / rowStride0
	if v == 0 || scale%rowStride0 != 0 {
		return nil, errs.Invalid("codec: scale %d is not a multiple of the block's row stride %d", scale, rowStride0)
	}
	outHeight := op.rowCount / v
	outWidth := op.width / scale
	rowBytes := op.width * op.bands * op.sampleType.ByteSize()
	sampleBytes := op.bands * op.sampleType.ByteSize()
	outRowBytes := outWidth * sampleBytes

	raw := make([]byte, outHeight*outRowBytes)
	var maskOut []byte
	if oddMask != nil {
		maskOut = make([]byte, outHeight*outWidth)
	}
	for i := 0; i < outHeight; i++ {
		srcRow := oddRaw[(v*i)*rowBytes : (v*i+1)*rowBytes]
		dstRow := raw[i*outRowBytes : (i+1)*outRowBytes]
		for j := 0; j < outWidth; j++ {
			copy(dstRow[j*sampleBytes:(j+1)*sampleBytes], srcRow[(scale*j)*sampleBytes:(scale*j+1)*sampleBytes])
		}
		if maskOut != nil {
			srcMaskRow := oddMask[(v*i)*op.width : (v*i+1)*op.width]
			dstMaskRow := maskOut[i*outWidth : (i+1)*outWidth]
			for j := 0; j < outWidth; j++ {
				dstMaskRow[j] = srcMaskRow[scale*j]
			}
		}
	}
	return buildRaster(op, outWidth, outHeight, raw, maskOut, pal)
}

func buildRaster(p *parsedBlock, width, height int, raw []byte, mask []byte, pal *raster.Palette) (*raster.Raster, error) {
	var m *raster.Mask
	if mask != nil {
		var err error
		m, err = raster.NewMask(width, height, mask)
		if err != nil {
			return nil, err
		}
	}
	return raster.New(raster.Config{
		Width:      width,
		Height:     height,
		SampleType: p.sampleType,
		PixelType:  p.pixelType,
		Bands:      p.bands,
		Pix:        raw,
		Mask:       m,
		Palette:    pal,
	})
}
