package raster

import (
	"testing"

	"github.com/rl2go/rl2/internal/errs"
)

func rgbRaster(t *testing.T, w, h int, fill [3]byte) *Raster {
	t.Helper()
	pix := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		pix[i*3] = fill[0]
		pix[i*3+1] = fill[1]
		pix[i*3+2] = fill[2]
	}
	r, err := New(Config{
		Width: w, Height: h,
		SampleType: SampleUint8, PixelType: RGB, Bands: 3,
		Pix: pix,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewRasterValidatesSize(t *testing.T) {
	_, err := New(Config{Width: 0, Height: 1, SampleType: SampleUint8, PixelType: RGB, Bands: 3, Pix: []byte{}})
	if errs.KindOf(err) != errs.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestNewRasterValidatesBufferSize(t *testing.T) {
	_, err := New(Config{Width: 2, Height: 2, SampleType: SampleUint8, PixelType: RGB, Bands: 3, Pix: make([]byte, 5)})
	if errs.KindOf(err) != errs.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestRasterGetSetPixel(t *testing.T) {
	r := rgbRaster(t, 4, 4, [3]byte{10, 20, 30})
	p, err := r.GetPixel(1, 1)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if p.Samples[0].Int() != 10 || p.Samples[1].Int() != 20 || p.Samples[2].Int() != 30 {
		t.Fatalf("unexpected pixel %+v", p)
	}
	p.Samples[0] = NewIntSample(SampleUint8, 99)
	if err := r.SetPixel(2, 2, p); err != nil {
		t.Fatalf("SetPixel: %v", err)
	}
	got, _ := r.GetPixel(2, 2)
	if got.Samples[0].Int() != 99 {
		t.Fatalf("SetPixel did not persist: %+v", got)
	}
}

func TestRasterNoDataMarksTransparent(t *testing.T) {
	nd, err := NewPixel(SampleUint8, RGB, []Sample{
		NewIntSample(SampleUint8, 0), NewIntSample(SampleUint8, 0), NewIntSample(SampleUint8, 0),
	})
	if err != nil {
		t.Fatalf("NewPixel: %v", err)
	}
	pix := make([]byte, 2*2*3) // all zero => matches NoData
	r, err := New(Config{
		Width: 2, Height: 2, SampleType: SampleUint8, PixelType: RGB, Bands: 3,
		Pix: pix, NoData: &nd,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p, err := r.GetPixel(0, 0)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if !p.Transparent {
		t.Fatalf("expected NoData pixel to be marked transparent")
	}
}

func TestRasterMaskMarksTransparent(t *testing.T) {
	r := rgbRaster(t, 2, 2, [3]byte{1, 2, 3})
	m, err := NewMask(2, 2, []byte{1, 0, 1, 1})
	if err != nil {
		t.Fatalf("NewMask: %v", err)
	}
	r.Mask = m
	p, err := r.GetPixel(0, 1)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	if !p.Transparent {
		t.Fatalf("expected masked pixel to be transparent")
	}
	p2, _ := r.GetPixel(0, 0)
	if p2.Transparent {
		t.Fatalf("expected unmasked pixel to be opaque")
	}
}

func TestSubByteSampleOutOfRangeRejected(t *testing.T) {
	_, err := New(Config{
		Width: 1, Height: 1, SampleType: Sample2Bit, PixelType: Grayscale, Bands: 1,
		Pix: []byte{4}, // 4 doesn't fit 2 bits (max 3)
	})
	if errs.KindOf(err) != errs.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestMatrixAllowsCompression(t *testing.T) {
	if !MatrixAllowsCompression(SampleUint8, RGB, 3, CompressionJPEG) {
		t.Fatalf("expected RGB/uint8 to allow JPEG")
	}
	if MatrixAllowsCompression(SampleUint8, MultiBand, 4, CompressionJPEG) {
		t.Fatalf("expected MultiBand to reject JPEG")
	}
	if !MatrixAllowsCompression(SampleUint16, MultiBand, 4, CompressionDeflate) {
		t.Fatalf("expected MultiBand/uint16 to allow DEFLATE")
	}
}

func TestTileSizeConstraint(t *testing.T) {
	r := rgbRaster(t, 255, 256, [3]byte{0, 0, 0})
	if _, err := NewTile(r, 0, 0, 0); errs.KindOf(err) != errs.KindInvalidArgument {
		t.Fatalf("expected tile size rejection, got %v", err)
	}
	r2 := rgbRaster(t, 256, 256, [3]byte{0, 0, 0})
	if _, err := NewTile(r2, 0, 0, 0); err != nil {
		t.Fatalf("NewTile: %v", err)
	}
}
