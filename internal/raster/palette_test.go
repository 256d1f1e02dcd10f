package raster

import "testing"

func TestParseHexRoundTrip(t *testing.T) {
	c, err := ParseHex("#1A2B3C")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c.R != 0x1A || c.G != 0x2B || c.B != 0x3C || c.A != 255 {
		t.Fatalf("unexpected color %+v", c)
	}
	if c.Hex() != "#1A2B3C" {
		t.Fatalf("Hex() = %s", c.Hex())
	}
}

func TestPaletteEffectiveMonochrome(t *testing.T) {
	p, err := NewPalette([]RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if p.EffectiveSampleType() != Sample1Bit {
		t.Fatalf("expected 1-bit effective sample type")
	}
	if p.EffectivePixelType() != Monochrome {
		t.Fatalf("expected Monochrome effective pixel type, got %v", p.EffectivePixelType())
	}
}

func TestPaletteEffectiveGrayscaleRamp(t *testing.T) {
	entries := make([]RGBA, 4)
	for i := range entries {
		v := uint8((255*i + 1) / 3)
		entries[i] = RGBA{v, v, v, 255}
	}
	p, err := NewPalette(entries)
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if p.EffectivePixelType() != Grayscale {
		t.Fatalf("expected Grayscale effective pixel type, got %v", p.EffectivePixelType())
	}
}

func TestPaletteEffectiveArbitraryIsPalette(t *testing.T) {
	p, err := NewPalette([]RGBA{{10, 20, 30, 255}, {40, 50, 60, 255}})
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if p.EffectivePixelType() != PalettePixel {
		t.Fatalf("expected Palette effective pixel type, got %v", p.EffectivePixelType())
	}
}

func TestPaletteIndexOf(t *testing.T) {
	p, _ := NewPalette([]RGBA{{1, 2, 3, 255}, {4, 5, 6, 255}})
	if idx := p.IndexOf(RGBA{4, 5, 6, 255}); idx != 1 {
		t.Fatalf("IndexOf = %d, want 1", idx)
	}
	if idx := p.IndexOf(RGBA{9, 9, 9, 255}); idx != -1 {
		t.Fatalf("IndexOf = %d, want -1", idx)
	}
}
