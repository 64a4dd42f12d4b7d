package graphics

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurface(t *testing.T) {
	s := NewSurface(4, 3, PixelFormatRGB565)
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 3, s.Height())
	assert.Equal(t, 8, s.Pitch())
	assert.False(t, s.IsView())
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 4, 3)}, s.DirtyRects())

	for _, b := range s.Pixels() {
		require.Equal(t, byte(0), b)
	}

	assert.Panics(t, func() { NewSurface(1, 1, PixelFormat{BytesPerPixel: 5}) })
	assert.Panics(t, func() { NewSurface(-1, 1, PixelFormatCLUT8) })
}

func TestFillRectClipsAndFills(t *testing.T) {
	s := NewSurface(4, 4, PixelFormatRGB565)
	col := PixelFormatRGB565.RGBToColor(255, 0, 0)

	s.FillRect(image.Rect(2, 2, 10, 10), col)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := uint32(0)
			if x >= 2 && y >= 2 {
				want = col
			}
			assert.Equal(t, want, s.PixelAt(x, y), "pixel (%d,%d)", x, y)
		}
	}

	// Fully outside is a no-op.
	s.FillRect(image.Rect(8, 8, 12, 12), col)
}

func TestSubSurfaceSharesPixels(t *testing.T) {
	owner := NewSurface(4, 4, PixelFormatRGBA32)
	view := NewSubSurface(owner, image.Rect(1, 1, 3, 3))

	require.True(t, view.IsView())
	assert.Equal(t, 2, view.Width())
	assert.Equal(t, owner.Pitch(), view.Pitch())

	col := PixelFormatRGBA32.RGBToColor(1, 2, 3)
	view.SetPixelAt(0, 0, col)
	assert.Equal(t, col, owner.PixelAt(1, 1))

	owner.SetPixelAt(2, 2, col)
	assert.Equal(t, col, view.PixelAt(1, 1))

	assert.Panics(t, func() { NewSubSurface(owner, image.Rect(0, 0, 5, 5)) })
	// Empty rectangles are "in" every rectangle, so they need rejecting even
	// when their origin is outside the owner.
	assert.Panics(t, func() { NewSubSurface(owner, image.Rect(9, 9, 9, 9)) })
	assert.Panics(t, func() { NewSubSurface(owner, image.Rect(2, 2, 2, 2)) })
}

func TestDirtyRectPropagation(t *testing.T) {
	owner := NewSurface(8, 8, PixelFormatCLUT8)
	view := NewSubSurface(owner, image.Rect(2, 3, 6, 7))
	owner.ClearDirtyRects()

	view.AddDirtyRect(image.Rect(1, 1, 3, 2))

	// The view translates by its offset and forwards to the owner.
	assert.Nil(t, view.DirtyRects())
	assert.Equal(t, []image.Rectangle{image.Rect(3, 4, 5, 5)}, owner.DirtyRects())

	// Out-of-bounds damage is clipped against the view first.
	owner.ClearDirtyRects()
	view.AddDirtyRect(image.Rect(3, 3, 10, 10))
	assert.Equal(t, []image.Rectangle{image.Rect(5, 6, 6, 7)}, owner.DirtyRects())

	// Empty damage is dropped entirely.
	owner.ClearDirtyRects()
	view.AddDirtyRect(image.Rect(9, 9, 12, 12))
	assert.Empty(t, owner.DirtyRects())
}

func TestAssignDeepCopiesOwner(t *testing.T) {
	src := NewSurface(2, 2, PixelFormatRGB565)
	src.SetPixelAt(0, 0, 0x1234)
	src.SetTransparentColor(7)
	pal := NewPalette(0)
	pal.SetColor(0, 10, 20, 30)
	src.palette = pal

	var dst Surface
	dst.Assign(src)

	assert.Equal(t, uint32(0x1234), dst.PixelAt(0, 0))
	assert.Equal(t, uint32(7), dst.TransparentColor())

	// Pixels and palette must not alias the source.
	src.SetPixelAt(0, 0, 0xffff)
	assert.Equal(t, uint32(0x1234), dst.PixelAt(0, 0))
	src.palette.SetColor(0, 9, 9, 9)
	r, _, _ := dst.Palette().Get(0)
	assert.Equal(t, uint8(10), r)
}

func TestAssignViewStaysView(t *testing.T) {
	owner := NewSurface(4, 4, PixelFormatCLUT8)
	view := NewSubSurface(owner, image.Rect(1, 1, 3, 3))

	var dst Surface
	dst.Assign(view)

	require.True(t, dst.IsView())
	owner.SetPixelAt(1, 1, 42)
	assert.Equal(t, uint32(42), dst.PixelAt(0, 0))
}

func TestMoveFrom(t *testing.T) {
	src := NewSurface(2, 1, PixelFormatRGB24)
	src.SetPixelAt(1, 0, 0xabcdef)

	var dst Surface
	dst.MoveFrom(src)

	assert.Equal(t, uint32(0xabcdef), dst.PixelAt(1, 0))
	assert.True(t, src.Empty())
	assert.Nil(t, src.Pixels())
}

func TestCopyFromViewDetaches(t *testing.T) {
	owner := NewSurface(4, 4, PixelFormatCLUT8)
	owner.SetPixelAt(1, 1, 5)
	view := NewSubSurface(owner, image.Rect(1, 1, 3, 3))

	var dst Surface
	dst.CopyFrom(view)

	require.False(t, dst.IsView())
	assert.Equal(t, uint32(5), dst.PixelAt(0, 0))

	owner.SetPixelAt(1, 1, 9)
	assert.Equal(t, uint32(5), dst.PixelAt(0, 0))
}

func TestConvertFromIndexed(t *testing.T) {
	src := NewSurface(2, 1, PixelFormatCLUT8)
	pal := NewPalette(0)
	pal.SetColor(0, 0, 0, 0)
	pal.SetColor(1, 255, 128, 0)
	src.SetPalette(pal.Data(), 0, pal.Size())
	src.SetPixelAt(1, 0, 1)

	var dst Surface
	dst.ConvertFrom(src, PixelFormatRGBA32)

	assert.Equal(t, PixelFormatRGBA32.RGBToColor(0, 0, 0), dst.PixelAt(0, 0))
	assert.Equal(t, PixelFormatRGBA32.RGBToColor(255, 128, 0), dst.PixelAt(1, 0))
	assert.False(t, dst.HasPalette())
}

func TestConvertFromDirectColor(t *testing.T) {
	src := NewSurface(1, 1, PixelFormatRGBA32)
	src.SetPixelAt(0, 0, PixelFormatRGBA32.ARGBToColor(0x80, 0x10, 0x20, 0x30))

	var mid, out Surface
	mid.ConvertFrom(src, PixelFormatBGRA32)
	out.ConvertFrom(&mid, PixelFormatRGBA32)

	assert.Equal(t, src.PixelAt(0, 0), out.PixelAt(0, 0))

	assert.Panics(t, func() {
		var dst Surface
		dst.ConvertFrom(src, PixelFormatCLUT8)
	})
}

func TestSetPaletteForwardsToOwner(t *testing.T) {
	owner := NewSurface(4, 4, PixelFormatCLUT8)
	view := NewSubSurface(owner, image.Rect(0, 0, 2, 2))

	view.SetPalette([]byte{1, 2, 3}, 0, 1)

	require.True(t, owner.HasPalette())
	r, g, b := owner.Palette().Get(0)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestTransparentColor(t *testing.T) {
	s := NewSurface(1, 1, PixelFormatRGB565)
	assert.False(t, s.HasTransparentColor())

	s.SetTransparentColor(0xf81f)
	assert.True(t, s.HasTransparentColor())
	assert.Equal(t, uint32(0xf81f), s.TransparentColor())

	s.ClearTransparentColor()
	assert.False(t, s.HasTransparentColor())
}

func TestFree(t *testing.T) {
	s := NewSurface(2, 2, PixelFormatRGB565)
	s.SetTransparentColor(1)
	s.Free()

	assert.True(t, s.Empty())
	assert.False(t, s.HasTransparentColor())
	assert.Nil(t, s.DirtyRects())
}
