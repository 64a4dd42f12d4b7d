package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteSetGrab(t *testing.T) {
	p := NewPalette(0)
	p.Set([]byte{1, 2, 3, 4, 5, 6}, 4, 2)
	assert.Equal(t, 6, p.Size())

	r, g, b := p.Get(5)
	assert.Equal(t, uint8(4), r)
	assert.Equal(t, uint8(5), g)
	assert.Equal(t, uint8(6), b)

	out := make([]byte, 6)
	p.Grab(out, 4, 2)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out)
}

func TestPaletteFindBestColor(t *testing.T) {
	p := NewPalette(0)
	p.SetColor(0, 0, 0, 0)
	p.SetColor(1, 255, 255, 255)

	assert.Equal(t, uint8(0), p.FindBestColor(10, 10, 10))
	assert.Equal(t, uint8(1), p.FindBestColor(200, 200, 200))
	assert.Equal(t, uint8(1), p.FindBestColor(255, 255, 255))
}

func TestPaletteFindBestColorTieBreaksLow(t *testing.T) {
	p := NewPalette(0)
	p.SetColor(0, 100, 0, 0)
	p.SetColor(1, 120, 0, 0)
	p.SetColor(2, 120, 0, 0)

	// 110 is equidistant from indices 1 and 2... and 0.
	assert.Equal(t, uint8(0), p.FindBestColor(110, 0, 0))
	assert.Equal(t, uint8(1), p.FindBestColor(115, 0, 0))
}

func TestPaletteCloneIsIndependent(t *testing.T) {
	p := NewPalette(0)
	p.SetColor(0, 1, 2, 3)

	dup := p.Clone()
	dup.SetColor(0, 9, 9, 9)

	r, g, b := p.Get(0)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestPaletteLookup(t *testing.T) {
	src := NewPalette(0)
	src.SetColor(0, 0, 0, 0)
	src.SetColor(1, 250, 250, 250)

	dst := NewPalette(0)
	dst.SetColor(0, 0, 0, 0)
	dst.SetColor(1, 128, 128, 128)
	dst.SetColor(2, 255, 255, 255)

	lookup := paletteLookup(src, dst)
	assert.Equal(t, []byte{0, 2}, lookup)

	assert.Nil(t, paletteLookup(nil, dst))
	assert.Nil(t, paletteLookup(src, NewPalette(0)))
}
