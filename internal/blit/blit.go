// Package blit implements the tile-to-buffer blitter of §4.7: copying a
// tile Raster's pixels into a larger destination buffer at the
// geographic position implied by their respective resolutions and
// extents, honoring the tile's mask and NoData pixel.
package blit

import (
	"math"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/raster"
)

// Dest describes the destination buffer's geo-referencing: its pixel
// resolution and the geographic coordinate of its top-left corner.
type Dest struct {
	MinX, MaxY float64
	ResX, ResY float64
}

// Blit copies tile's pixels into dst at the position implied by
// tile's own geo-referenced extent (tileMinX, tileMaxY) relative to
// dst's (§4.7). Destination pixels outside dst's bounds are skipped;
// source pixels that are masked transparent or equal NoData leave the
// destination untouched, preserving whatever was already there.
func Blit(dst *raster.Raster, d Dest, tile *raster.Raster, tileMinX, tileMaxY float64) error {
	if dst.SampleType != tile.SampleType || dst.PixelType != tile.PixelType || dst.Bands != tile.Bands {
		return errs.Invalid("blit: destination shape (%s,%s,bands=%d) does not match tile shape (%s,%s,bands=%d)",
			dst.SampleType, dst.PixelType, dst.Bands, tile.SampleType, tile.PixelType, tile.Bands)
	}
	if d.ResX <= 0 || d.ResY <= 0 {
		return errs.Invalid("blit: destination resolution must be positive, got (%v,%v)", d.ResX, d.ResY)
	}

	bw := dst.SampleType.ByteSize()
	sampleBytes := dst.Bands * bw
	copySample := copierFor(bw)

	for y := 0; y < tile.Height; y++ {
		geoY := tileMaxY - (float64(y)+0.5)*d.ResY
		dstY := int(math.Floor((d.MaxY - geoY) / d.ResY))
		if dstY < 0 || dstY >= dst.Height {
			continue
		}
		for x := 0; x < tile.Width; x++ {
			geoX := tileMinX + (float64(x)+0.5)*d.ResX
			dstX := int(math.Floor((geoX - d.MinX) / d.ResX))
			if dstX < 0 || dstX >= dst.Width {
				continue
			}

			if tile.Mask != nil {
				opaque, err := tile.Mask.At(y, x)
				if err != nil {
					return err
				}
				if !opaque {
					continue
				}
			}
			srcOff := (y*tile.Width + x) * sampleBytes
			if tile.NoData != nil && sampleEqualsNoData(tile.Pix[srcOff:srcOff+sampleBytes], tile.NoData, bw) {
				continue
			}

			dstOff := (dstY*dst.Width + dstX) * sampleBytes
			for b := 0; b < dst.Bands; b++ {
				o := b * bw
				copySample(dst.Pix[dstOff+o:dstOff+o+bw], tile.Pix[srcOff+o:srcOff+o+bw])
			}
		}
	}
	return nil
}

func sampleEqualsNoData(src []byte, nodata *raster.Pixel, bw int) bool {
	for b := 0; b < nodata.Bands(); b++ {
		s, err := nodata.Get(b)
		if err != nil {
			return false
		}
		off := b * bw
		for i := 0; i < bw; i++ {
			var want byte
			if bw == 1 {
				want = byte(s.Uint())
			} else {
				want = byte(s.Uint() >> (8 * uint(i)))
			}
			if src[off+i] != want {
				return false
			}
		}
	}
	return true
}

// copierFor returns a type-specialized single-sample copy function keyed
// by byte width, so the inner blit loop never dispatches per pixel
// (§4.7: "Type-specialized paths exist for every SampleType").
func copierFor(bw int) func(dst, src []byte) {
	switch bw {
	case 1:
		return copy1
	case 2:
		return copy2
	case 4:
		return copy4
	case 8:
		return copy8
	default:
		return func(dst, src []byte) { copy(dst, src) }
	}
}

func copy1(dst, src []byte) { dst[0] = src[0] }
func copy2(dst, src []byte) { dst[0], dst[1] = src[0], src[1] }
func copy4(dst, src []byte) { dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], src[3] }
func copy8(dst, src []byte) {
	for i := 0; i < 8; i++ {
		dst[i] = src[i]
	}
}
