package codec

import (
	"testing"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

func rgbTile(t *testing.T, w, h int) *raster.Raster {
	t.Helper()
	pix := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		row := (i / w)
		col := i % w
		pix[i*3] = byte(row)
		pix[i*3+1] = byte(col)
		pix[i*3+2] = byte(row + col)
	}
	r, err := raster.New(raster.Config{
		Width: w, Height: h,
		SampleType: raster.SampleUint8, PixelType: raster.RGB, Bands: 3,
		Pix: pix,
	})
	if err != nil {
		t.Fatalf("New raster: %v", err)
	}
	return r
}

// TestRawRoundTripScale1 is Property P1: encoding then decoding at scale 1
// with RAW compression returns the original raster bit for bit.
func TestRawRoundTripScale1(t *testing.T) {
	r := rgbTile(t, 16, 16)
	odd, even, err := Encode(r, raster.CompressionNone, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if even == nil {
		t.Fatalf("expected an Even block for a byte-sample RAW tile")
	}
	got, err := Decode(odd, even, 1, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width != 16 || got.Height != 16 {
		t.Fatalf("unexpected decoded size %dx%d", got.Width, got.Height)
	}
	for i := range r.Pix {
		if got.Pix[i] != r.Pix[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got.Pix[i], r.Pix[i])
		}
	}
}

// TestPNGRoundTripScale1 is Property P2: a lossless image codec round
// trips exactly through the block format at scale 1.
func TestPNGRoundTripScale1(t *testing.T) {
	r := rgbTile(t, 16, 16)
	odd, even, err := Encode(r, raster.CompressionPNG, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(odd, even, 1, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range r.Pix {
		if got.Pix[i] != r.Pix[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got.Pix[i], r.Pix[i])
		}
	}
}

// TestScaleSubsamplingStride is Property P3: decoding the Odd block
// alone at scale 2/4/8 yields every scale-th row and column of the
// original raster.
func TestScaleSubsamplingStride(t *testing.T) {
	r := rgbTile(t, 32, 32)
	odd, _, err := Encode(r, raster.CompressionDeflate, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, scale := range []int{2, 4, 8} {
		got, err := Decode(odd, nil, scale, nil)
		if err != nil {
			t.Fatalf("Decode scale=%d: %v", scale, err)
		}
		wantW, wantH := 32/scale, 32/scale
		if got.Width != wantW || got.Height != wantH {
			t.Fatalf("scale=%d: got size %dx%d, want %dx%d", scale, got.Width, got.Height, wantW, wantH)
		}
		for i := 0; i < wantH; i++ {
			for j := 0; j < wantW; j++ {
				wantPix, err := r.GetPixel(i*scale, j*scale)
				if err != nil {
					t.Fatalf("GetPixel: %v", err)
				}
				gotPix, err := got.GetPixel(i, j)
				if err != nil {
					t.Fatalf("GetPixel decoded: %v", err)
				}
				if !gotPix.EqualSamples(wantPix) {
					t.Fatalf("scale=%d (%d,%d): got %+v want %+v", scale, i, j, gotPix, wantPix)
				}
			}
		}
	}
}

// TestCRCDetectsCorruption is Property P4: flipping any payload bit
// causes Decode to fail with a CorruptBlock error.
func TestCRCDetectsCorruption(t *testing.T) {
	r := rgbTile(t, 16, 16)
	odd, _, err := Encode(r, raster.CompressionNone, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	corrupt := append([]byte(nil), odd...)
	corrupt[20] ^= 0x01
	if _, err := parseBlock(corrupt); errs.KindOf(err) != errs.KindCorruptBlock {
		t.Fatalf("expected CorruptBlock, got %v", err)
	}
}

// TestScenarioRGBDeflateRoundTrip is Scenario S1: a 512x512 RGB/DEFLATE
// tile round trips at scale 1 (needs both blocks) and scale 2 (Odd alone).
func TestScenarioRGBDeflateRoundTrip(t *testing.T) {
	r := rgbTile(t, 512, 512)
	odd, even, err := Encode(r, raster.CompressionDeflate, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	full, err := Decode(odd, even, 1, nil)
	if err != nil {
		t.Fatalf("Decode scale=1: %v", err)
	}
	for i := range r.Pix {
		if full.Pix[i] != r.Pix[i] {
			t.Fatalf("scale=1 byte %d mismatch", i)
		}
	}
	half, err := Decode(odd, nil, 2, nil)
	if err != nil {
		t.Fatalf("Decode scale=2: %v", err)
	}
	if half.Width != 256 || half.Height != 256 {
		t.Fatalf("scale=2: got %dx%d, want 256x256", half.Width, half.Height)
	}
}

// TestScenarioCCITTFax4MonochromeRoundTrip is Scenario S2: a 256x256
// monochrome raster with a diagonal line round trips through the actual
// codec path (Encode/Decode framing around the CCITTFAX4 backend, which
// receives the unpacked one-byte-per-pixel payload), not just the backend
// called directly, and compresses below raw size.
func TestScenarioCCITTFax4MonochromeRoundTrip(t *testing.T) {
	w, h := 256, 256
	pix := make([]byte, w*h)
	for i := 0; i < h; i++ {
		pix[i*w+i] = 1
	}
	r, err := raster.New(raster.Config{
		Width: w, Height: h,
		SampleType: raster.Sample1Bit, PixelType: raster.Monochrome, Bands: 1,
		Pix: pix,
	})
	if err != nil {
		t.Fatalf("New raster: %v", err)
	}

	odd, even, err := Encode(r, raster.CompressionCCITTFax4, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if even != nil {
		t.Fatalf("expected no Even block for a sub-byte CCITTFAX4 tile")
	}
	if len(odd) >= w*h {
		t.Fatalf("expected the CCITTFAX4 block to compress below raw size: block=%d raw=%d", len(odd), w*h)
	}

	got, err := Decode(odd, nil, 1, nil)
	if err != nil {
		t.Fatalf("Decode scale=1: %v", err)
	}
	for i := range pix {
		if got.Pix[i] != pix[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got.Pix[i], pix[i])
		}
	}
}

// TestScenarioJPEGScale8 is Scenario S3: a 1024x1024 RGB/JPEG tile has
// no Even block, and decoding at scale 8 yields a 128x128 raster from
// the Odd block alone.
func TestScenarioJPEGScale8(t *testing.T) {
	r := rgbTile(t, 1024, 1024)
	odd, even, err := Encode(r, raster.CompressionJPEG, 85)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if even != nil {
		t.Fatalf("expected no Even block for a JPEG tile")
	}
	got, err := Decode(odd, nil, 8, nil)
	if err != nil {
		t.Fatalf("Decode scale=8: %v", err)
	}
	if got.Width != 128 || got.Height != 128 {
		t.Fatalf("got %dx%d, want 128x128", got.Width, got.Height)
	}
}
