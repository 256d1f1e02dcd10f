package compress

import (
	"bytes"
	"testing"

	"github.com/rl2go/rl2/internal/raster"
)

func TestDeflateRoundTrip(t *testing.T) {
	b, _ := Get(raster.CompressionDeflate)
	payload := bytes.Repeat([]byte{1, 2, 3}, 100)
	enc, err := b.Encode(payload, 10, 30, raster.SampleUint8, raster.RGB, nil, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := b.Decode(enc, 10, 30, raster.SampleUint8, raster.RGB, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, payload) {
		t.Fatalf("round trip mismatch")
	}
}

func TestLZMARoundTrip(t *testing.T) {
	b, _ := Get(raster.CompressionLZMA)
	payload := bytes.Repeat([]byte{7, 8, 9, 10}, 64)
	enc, err := b.Encode(payload, 16, 16, raster.SampleUint8, raster.DataGrid, nil, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := b.Decode(enc, 16, 16, raster.SampleUint8, raster.DataGrid, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, payload) {
		t.Fatalf("round trip mismatch")
	}
}

func TestPNGRoundTripRGB(t *testing.T) {
	b, _ := Get(raster.CompressionPNG)
	w, h := 8, 8
	payload := make([]byte, w*h*3)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	enc, err := b.Encode(payload, w, h, raster.SampleUint8, raster.RGB, nil, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := b.Decode(enc, w, h, raster.SampleUint8, raster.RGB, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, payload) {
		t.Fatalf("PNG round trip mismatch")
	}
}

func TestCCITTFax4RoundTrip(t *testing.T) {
	b, _ := Get(raster.CompressionCCITTFax4)
	w, h := 16, 16
	payload := make([]byte, w*h)
	for r := 0; r < h; r++ {
		payload[r*w+r%w] = 1 // diagonal line
	}
	enc, err := b.Encode(payload, w, h, raster.Sample1Bit, raster.Monochrome, nil, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(enc) >= len(payload) {
		t.Fatalf("expected CCITTFAX4 to compress a sparse diagonal below raw size: enc=%d raw=%d", len(enc), len(payload))
	}
	dec, err := b.Decode(enc, w, h, raster.Sample1Bit, raster.Monochrome, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, payload) {
		t.Fatalf("CCITTFAX4 round trip mismatch")
	}
}

func TestGIFRoundTripPalette(t *testing.T) {
	pal, _ := raster.NewPalette([]raster.RGBA{{0, 0, 0, 255}, {255, 0, 0, 255}, {0, 255, 0, 255}})
	b, _ := Get(raster.CompressionGIF)
	w, h := 4, 4
	payload := make([]byte, w*h)
	for i := range payload {
		payload[i] = byte(i % 3)
	}
	enc, err := b.Encode(payload, w, h, raster.SampleUint8, raster.PalettePixel, pal, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := b.Decode(enc, w, h, raster.SampleUint8, raster.PalettePixel, pal)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, payload) {
		t.Fatalf("GIF round trip mismatch: got %v want %v", dec, payload)
	}
}
