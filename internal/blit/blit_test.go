package blit

import (
	"testing"

	"github.com/rl2go/rl2/internal/raster"
)

func newRGB(t *testing.T, w, h int, fill [3]byte) *raster.Raster {
	t.Helper()
	pix := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		pix[i*3], pix[i*3+1], pix[i*3+2] = fill[0], fill[1], fill[2]
	}
	r, err := raster.New(raster.Config{Width: w, Height: h, SampleType: raster.SampleUint8, PixelType: raster.RGB, Bands: 3, Pix: pix})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestBlitCopiesAlignedTile(t *testing.T) {
	dst := newRGB(t, 8, 8, [3]byte{0, 0, 0})
	tile := newRGB(t, 4, 4, [3]byte{10, 20, 30})
	d := Dest{MinX: 0, MaxY: 8, ResX: 1, ResY: 1}
	if err := Blit(dst, d, tile, 2, 6); err != nil {
		t.Fatalf("Blit: %v", err)
	}
	p, err := dst.GetPixel(2, 2)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if p.Samples[0].Int() != 10 || p.Samples[1].Int() != 20 || p.Samples[2].Int() != 30 {
		t.Fatalf("unexpected blitted pixel %+v", p)
	}
	p0, _ := dst.GetPixel(0, 0)
	if p0.Samples[0].Int() != 0 {
		t.Fatalf("expected untouched corner to remain 0, got %+v", p0)
	}
}

func TestBlitSkipsMaskedPixels(t *testing.T) {
	dst := newRGB(t, 4, 4, [3]byte{9, 9, 9})
	tile := newRGB(t, 4, 4, [3]byte{1, 2, 3})
	mask, err := raster.NewMask(4, 4, []byte{
		1, 0, 1, 1,
		1, 1, 1, 1,
		1, 1, 1, 1,
		1, 1, 1, 1,
	})
	if err != nil {
		t.Fatalf("NewMask: %v", err)
	}
	tile.Mask = mask
	d := Dest{MinX: 0, MaxY: 4, ResX: 1, ResY: 1}
	if err := Blit(dst, d, tile, 0, 4); err != nil {
		t.Fatalf("Blit: %v", err)
	}
	masked, _ := dst.GetPixel(0, 1)
	if masked.Samples[0].Int() != 9 {
		t.Fatalf("expected masked destination pixel to stay untouched, got %+v", masked)
	}
	copied, _ := dst.GetPixel(0, 0)
	if copied.Samples[0].Int() != 1 {
		t.Fatalf("expected unmasked destination pixel to be overwritten, got %+v", copied)
	}
}

// TestBlitIdempotence is Property P7: blitting the same tile onto the
// same destination twice yields the same result as blitting it once.
func TestBlitIdempotence(t *testing.T) {
	dst1 := newRGB(t, 8, 8, [3]byte{0, 0, 0})
	dst2 := newRGB(t, 8, 8, [3]byte{0, 0, 0})
	tile := newRGB(t, 4, 4, [3]byte{5, 6, 7})
	d := Dest{MinX: 0, MaxY: 8, ResX: 1, ResY: 1}

	if err := Blit(dst1, d, tile, 0, 8); err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if err := Blit(dst2, d, tile, 0, 8); err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if err := Blit(dst2, d, tile, 0, 8); err != nil {
		t.Fatalf("second Blit: %v", err)
	}
	for i := range dst1.Pix {
		if dst1.Pix[i] != dst2.Pix[i] {
			t.Fatalf("byte %d differs after repeated blit: %d vs %d", i, dst1.Pix[i], dst2.Pix[i])
		}
	}
}
