package graphics

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransBlitIndexedOntoRGBA32(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatCLUT8)
	pal := NewPalette(0)
	pal.SetColor(0, 0, 0, 0)
	pal.SetColor(1, 255, 255, 255)
	src.SetPalette(pal.Data(), 0, pal.Size())
	src.SetPixelAt(1, 0, 1)
	src.SetPixelAt(0, 1, 1)

	dst := NewSurface(4, 4, PixelFormatRGBA32)
	dst.Clear(PixelFormatRGBA32.ARGBToColor(255, 0, 0, 0))

	dst.TransBlitFrom(src, image.Point{})

	black := PixelFormatRGBA32.ARGBToColor(255, 0, 0, 0)
	white := PixelFormatRGBA32.ARGBToColor(255, 255, 255, 255)
	assert.Equal(t, black, dst.PixelAt(0, 0))
	assert.Equal(t, white, dst.PixelAt(1, 0))
	assert.Equal(t, white, dst.PixelAt(0, 1))
	assert.Equal(t, black, dst.PixelAt(1, 1))

	// The rest of the destination is untouched.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 && y < 2 {
				continue
			}
			require.Equal(t, black, dst.PixelAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestTransBlitZeroAlphaIsNoOp(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatRGBA32)
	src.Clear(PixelFormatRGBA32.ARGBToColor(255, 10, 20, 30))

	dst := NewSurface(2, 2, PixelFormatRGBA32)
	fillGradient(dst)
	before := append([]byte(nil), dst.Pixels()...)

	dst.TransBlitRectFrom(src, src.Bounds(), dst.Bounds(), TransparentColorNone, false, 0)

	assert.Equal(t, before, dst.Pixels())
}

func TestTransBlitFullAlphaCopiesOpaqueSource(t *testing.T) {
	src := NewSurface(2, 1, PixelFormatRGBA32)
	src.SetPixelAt(0, 0, PixelFormatRGBA32.ARGBToColor(255, 10, 20, 30))
	src.SetPixelAt(1, 0, PixelFormatRGBA32.ARGBToColor(255, 40, 50, 60))

	dst := NewSurface(2, 1, PixelFormatRGB565)
	dst.TransBlitFrom(src, image.Point{})

	assert.Equal(t, PixelFormatRGB565.RGBToColor(10, 20, 30), dst.PixelAt(0, 0))
	assert.Equal(t, PixelFormatRGB565.RGBToColor(40, 50, 60), dst.PixelAt(1, 0))
}

func TestTransBlitColorKeyOnAlphaSource(t *testing.T) {
	// With an alpha-carrying source the key matches on decoded RGB, whatever
	// the pixel's alpha says.
	key := PixelFormatRGBA32.ARGBToColor(255, 255, 0, 255)
	src := NewSurface(2, 1, PixelFormatRGBA32)
	src.SetPixelAt(0, 0, PixelFormatRGBA32.ARGBToColor(3, 255, 0, 255))
	src.SetPixelAt(1, 0, PixelFormatRGBA32.ARGBToColor(255, 1, 2, 3))

	dst := NewSurface(2, 1, PixelFormatRGBA32)
	dst.Clear(PixelFormatRGBA32.ARGBToColor(255, 9, 9, 9))
	dst.TransBlitRectFrom(src, src.Bounds(), dst.Bounds(), key, false, 0xff)

	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(255, 9, 9, 9), dst.PixelAt(0, 0))
	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(255, 1, 2, 3), dst.PixelAt(1, 0))
}

func TestTransBlitFlipped(t *testing.T) {
	src := NewSurface(2, 1, PixelFormatRGB565)
	src.SetPixelAt(0, 0, 0x1111)
	src.SetPixelAt(1, 0, 0x2222)

	dst := NewSurface(2, 1, PixelFormatRGB565)
	dst.TransBlitRectFrom(src, src.Bounds(), dst.Bounds(), TransparentColorNone, true, 0xff)

	assert.Equal(t, uint32(0x2222), dst.PixelAt(0, 0))
	assert.Equal(t, uint32(0x1111), dst.PixelAt(1, 0))
}

func TestTransBlitScalesWithAccumulator(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatRGB565)
	fillGradient(src)

	dst := NewSurface(4, 4, PixelFormatRGB565)
	dst.TransBlitRectFrom(src, src.Bounds(), dst.Bounds(), TransparentColorNone, false, 0xff)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, src.PixelAt(x/2, y/2), dst.PixelAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestTransBlitDestKeyZeroedBeforeBlend(t *testing.T) {
	src := NewSurface(1, 1, PixelFormatRGBA32)
	src.SetPixelAt(0, 0, PixelFormatRGBA32.ARGBToColor(128, 255, 0, 0))

	key := PixelFormatRGBA32.ARGBToColor(255, 0, 255, 0)
	dst := NewSurface(1, 1, PixelFormatRGBA32)
	dst.Clear(key)
	dst.SetTransparentColor(key)

	dst.TransBlitFrom(src, image.Point{})

	// The keyed destination pixel blends against nothing, so the result is
	// the source color with only the global alpha applied.
	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(128, 255, 0, 0), dst.PixelAt(0, 0))
}

func TestTransBlitBothIndexedUsesPaletteLookup(t *testing.T) {
	src := NewSurface(2, 1, PixelFormatCLUT8)
	srcPal := NewPalette(0)
	srcPal.SetColor(0, 0, 0, 0)
	srcPal.SetColor(1, 250, 250, 250)
	src.SetPalette(srcPal.Data(), 0, srcPal.Size())
	src.SetPixelAt(1, 0, 1)

	dst := NewSurface(2, 1, PixelFormatCLUT8)
	dstPal := NewPalette(0)
	dstPal.SetColor(0, 0, 0, 0)
	dstPal.SetColor(1, 100, 100, 100)
	dstPal.SetColor(2, 255, 255, 255)
	dst.SetPalette(dstPal.Data(), 0, dstPal.Size())

	dst.TransBlitFrom(src, image.Point{})

	assert.Equal(t, uint32(0), dst.PixelAt(0, 0))
	assert.Equal(t, uint32(2), dst.PixelAt(1, 0))
}

func TestBlitFromSkipsTransparentKeepsOpaque(t *testing.T) {
	src := NewSurface(2, 1, PixelFormatRGBA32)
	src.SetPixelAt(0, 0, PixelFormatRGBA32.ARGBToColor(0, 255, 255, 255))
	src.SetPixelAt(1, 0, PixelFormatRGBA32.ARGBToColor(255, 1, 2, 3))

	dst := NewSurface(2, 1, PixelFormatRGBA32)
	dst.Clear(PixelFormatRGBA32.ARGBToColor(255, 9, 9, 9))
	dst.BlitFrom(src, image.Point{})

	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(255, 9, 9, 9), dst.PixelAt(0, 0))
	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(255, 1, 2, 3), dst.PixelAt(1, 0))
}

func TestBlitFromBlendsPartialAlpha(t *testing.T) {
	src := NewSurface(1, 1, PixelFormatRGBA32)
	src.SetPixelAt(0, 0, PixelFormatRGBA32.ARGBToColor(128, 255, 0, 0))

	dst := NewSurface(1, 1, PixelFormatRGBA32)
	dst.Clear(PixelFormatRGBA32.ARGBToColor(255, 0, 0, 255))
	dst.BlitFrom(src, image.Point{})

	// Opaque destination, integer blend path.
	wantR := uint8((uint32(0)*(255-128) + uint32(255)*128) * (257 * 257) >> 24)
	wantB := uint8((uint32(255)*(255-128) + uint32(0)*128) * (257 * 257) >> 24)
	a, r, g, b := dst.ARGBAt(0, 0)
	assert.Equal(t, uint8(255), a)
	assert.Equal(t, wantR, r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, wantB, b)
}

func TestTransBlitClipsOversizedSourceRect(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatRGB565)
	fillGradient(src)

	dst := NewSurface(3, 3, PixelFormatRGB565)
	dst.TransBlitRectFrom(src, image.Rect(0, 0, 3, 3), image.Rect(0, 0, 3, 3), TransparentColorNone, false, 0xff)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, src.PixelAt(x, y), dst.PixelAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, uint32(0), dst.PixelAt(2, 2))
}

func TestBlitRectFromClipsOversizedSourceRect(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatRGBA32)
	src.Clear(PixelFormatRGBA32.ARGBToColor(255, 5, 6, 7))

	dst := NewSurface(3, 3, PixelFormatRGBA32)
	dst.BlitRectFrom(src, image.Rect(0, 0, 3, 3), image.Rect(0, 0, 3, 3))

	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(255, 5, 6, 7), dst.PixelAt(1, 1))
	assert.Equal(t, uint32(0), dst.PixelAt(2, 2))

	// A source rect entirely outside the source is a no-op.
	dst.ClearDirtyRects()
	dst.BlitRectFrom(src, image.Rect(5, 5, 7, 7), image.Rect(0, 0, 2, 2))
	assert.Empty(t, dst.DirtyRects())
}

func TestBlitRectFromClipsAgainstDestination(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatRGBA32)
	src.Clear(PixelFormatRGBA32.ARGBToColor(255, 5, 6, 7))

	dst := NewSurface(2, 2, PixelFormatRGBA32)
	dst.BlitRectFrom(src, src.Bounds(), src.Bounds().Add(image.Pt(1, 1)))

	assert.Equal(t, uint32(0), dst.PixelAt(0, 0))
	assert.Equal(t, PixelFormatRGBA32.ARGBToColor(255, 5, 6, 7), dst.PixelAt(1, 1))
}
