package source

import (
	"image"
	"image/color"
	"testing"

	"github.com/rl2go/rl2/internal/raster"
)

func TestRgbaToPixRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	pix := rgbaToPix(img, raster.RGB, 3)
	want := []byte{10, 20, 30, 40, 50, 60}
	if len(pix) != len(want) {
		t.Fatalf("len(pix) = %d, want %d", len(pix), len(want))
	}
	for i := range want {
		if pix[i] != want[i] {
			t.Errorf("pix[%d] = %d, want %d", i, pix[i], want[i])
		}
	}
}

func TestRgbaToPixGrayscaleIsLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	pix := rgbaToPix(img, raster.Grayscale, 1)
	if len(pix) != 1 || pix[0] != 100 {
		t.Fatalf("gray(100,100,100) = %d, want 100", pix)
	}
}

func TestRgbaToPixHonorsBoundsOffset(t *testing.T) {
	// A sub-image whose Bounds().Min isn't (0,0), as ReadRegion never
	// produces but rgbaToPix must still handle correctly.
	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	full.SetRGBA(2, 2, color.RGBA{R: 7, G: 8, B: 9, A: 255})
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	pix := rgbaToPix(sub, raster.RGB, 3)
	if pix[0] != 7 || pix[1] != 8 || pix[2] != 9 {
		t.Fatalf("pix[0:3] = %v, want [7 8 9]", pix[0:3])
	}
}
