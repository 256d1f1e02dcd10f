package compress

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rl2go/rl2/internal/raster"
)

// toImage builds a stdlib image.Image from a raw, unpacked (one byte per
// sample) pixel buffer, for the PixelTypes the self-consistency matrix
// allows with image-aware backends: Monochrome, Palette, Grayscale, RGB.
func toImage(raw []byte, width, height int, st raster.SampleType, pt raster.PixelType, pal *raster.Palette) (image.Image, error) {
	switch pt {
	case raster.RGB:
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		for i := 0; i < width*height; i++ {
			img.Pix[i*4] = raw[i*3]
			img.Pix[i*4+1] = raw[i*3+1]
			img.Pix[i*4+2] = raw[i*3+2]
			img.Pix[i*4+3] = 255
		}
		return img, nil
	case raster.Grayscale:
		img := image.NewGray(image.Rect(0, 0, width, height))
		copy(img.Pix, raw)
		return img, nil
	case raster.Monochrome, raster.PalettePixel:
		cp := paletteColors(pal, pt)
		img := image.NewPaletted(image.Rect(0, 0, width, height), cp)
		copy(img.Pix, raw)
		return img, nil
	default:
		return nil, fmt.Errorf("compress: pixel type %s is not image-codec-compatible", pt)
	}
}

// fromImage reads raw unpacked pixel bytes back out of a decoded image.
func fromImage(img image.Image, pt raster.PixelType) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch m := img.(type) {
	case *image.Gray:
		out := make([]byte, w*h)
		copy(out, m.Pix)
		return out
	case *image.Paletted:
		out := make([]byte, w*h)
		copy(out, m.Pix)
		return out
	default:
		out := make([]byte, w*h*3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*w + x) * 3
				out[i] = byte(r >> 8)
				out[i+1] = byte(g >> 8)
				out[i+2] = byte(bl >> 8)
			}
		}
		return out
	}
}

func paletteColors(pal *raster.Palette, pt raster.PixelType) color.Palette {
	if pal == nil {
		// Monochrome without an explicit palette: canonical black/white.
		return color.Palette{color.Black, color.White}
	}
	cp := make(color.Palette, pal.Len())
	for i := 0; i < pal.Len(); i++ {
		e, _ := pal.Entry(i)
		cp[i] = color.RGBA{R: e.R, G: e.G, B: e.B, A: e.A}
	}
	return cp
}
