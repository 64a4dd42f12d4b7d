package graphics

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	s := FromImage(img, PixelFormatRGBA32)
	require.Equal(t, 2, s.Width())
	require.Equal(t, 2, s.Height())

	out, ok := s.ToImage().(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.SetNRGBA(6, 5, color.NRGBA{R: 9, A: 255})

	s := FromImage(img, PixelFormatRGBA32)
	require.Equal(t, image.Rect(0, 0, 2, 1), s.Bounds())
	_, r, _, _ := s.ARGBAt(1, 0)
	assert.Equal(t, uint8(9), r)
}

func TestFromImageIndexedKeepsSmallPalette(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{A: 255},
		color.NRGBA{R: 255, G: 128, B: 64, A: 255},
	}
	pm := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	pm.SetColorIndex(1, 0, 1)

	s := FromImageIndexed(pm, 256, false)
	require.True(t, s.Format().IsCLUT8())
	require.True(t, s.HasPalette())
	assert.Equal(t, 2, s.Palette().Size())
	assert.Equal(t, uint32(0), s.PixelAt(0, 0))
	assert.Equal(t, uint32(1), s.PixelAt(1, 0))

	r, g, b := s.Palette().Get(1)
	assert.Equal(t, [3]uint8{255, 128, 64}, [3]uint8{r, g, b})
}

func TestFromImageIndexedQuantizes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), A: 255})
		}
	}

	s := FromImageIndexed(img, 4, false)
	require.True(t, s.Format().IsCLUT8())
	require.True(t, s.HasPalette())
	assert.LessOrEqual(t, s.Palette().Size(), 4)
}

func TestQuantizePalette(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{A: 255})

	p := QuantizePalette(img, 8)
	require.NotNil(t, p)
	assert.Greater(t, p.Size(), 0)
	assert.LessOrEqual(t, p.Size(), 8)
}

func TestToImageIndexed(t *testing.T) {
	s := NewSurface(2, 1, PixelFormatCLUT8)
	pal := NewPalette(0)
	pal.SetColor(0, 1, 2, 3)
	pal.SetColor(1, 4, 5, 6)
	s.SetPalette(pal.Data(), 0, pal.Size())
	s.SetPixelAt(1, 0, 1)

	pm, ok := s.ToImage().(*image.Paletted)
	require.True(t, ok)
	assert.Equal(t, uint8(0), pm.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(1), pm.ColorIndexAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 4, G: 5, B: 6, A: 255}, pm.Palette[1])

	bare := NewSurface(1, 1, PixelFormatCLUT8)
	assert.Panics(t, func() { bare.ToImage() })
}
