package graphics

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

// FromImage converts an image into an owning surface in the given
// direct-color format. Converting into an indexed format goes through
// FromImageIndexed with a full 256-color palette and no dithering.
func FromImage(img image.Image, format PixelFormat) *Surface {
	if format.IsCLUT8() {
		return FromImageIndexed(img, PaletteCapacity, false)
	}

	b := img.Bounds()
	s := NewSurface(b.Dx(), b.Dy(), format)
	bpp := int(format.BytesPerPixel)
	_, store := pixelAccessors(bpp)

	for y := 0; y < s.h; y++ {
		row := s.BasePtr(0, y)
		for x := 0; x < s.w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			store(row[x*bpp:], format.ARGBToColor(c.A, c.R, c.G, c.B))
		}
	}
	return s
}

// FromImageIndexed converts an image into an indexed surface. An already
// paletted image with at most maxColors colors keeps its palette; anything
// else is quantized to a median-cut palette first, optionally with
// Floyd-Steinberg dithering.
func FromImageIndexed(img image.Image, maxColors int, dither bool) *Surface {
	if maxColors < 1 || maxColors > PaletteCapacity {
		maxColors = PaletteCapacity
	}
	b := img.Bounds()

	pm, ok := img.(*image.Paletted)
	if !ok || len(pm.Palette) > maxColors {
		q := quantize.MedianCutQuantizer{}
		pal := q.Quantize(make(color.Palette, 0, maxColors), img)
		pm = image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
		if dither {
			xdraw.FloydSteinberg.Draw(pm, pm.Bounds(), img, b.Min)
		} else {
			xdraw.Draw(pm, pm.Bounds(), img, b.Min, xdraw.Src)
		}
		b = pm.Bounds()
	}

	s := NewSurface(b.Dx(), b.Dy(), PixelFormatCLUT8)
	for y := 0; y < s.h; y++ {
		row := s.BasePtr(0, y)
		for x := 0; x < s.w; x++ {
			row[x] = pm.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
		}
	}

	s.palette = NewPalette(len(pm.Palette))
	for i, c := range pm.Palette {
		r, g, bl, _ := c.RGBA()
		s.palette.SetColor(i, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
	}
	return s
}

// QuantizePalette builds a median-cut palette of up to maxColors colors
// from an image.
func QuantizePalette(img image.Image, maxColors int) *Palette {
	if maxColors < 1 || maxColors > PaletteCapacity {
		maxColors = PaletteCapacity
	}
	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, maxColors), img)

	p := NewPalette(len(cp))
	for i, c := range cp {
		r, g, b, _ := c.RGBA()
		p.SetColor(i, uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
	return p
}

// ToImage converts the surface into a stdlib image: an *image.Paletted for
// indexed surfaces (which require a palette) and an *image.NRGBA otherwise.
func (s *Surface) ToImage() image.Image {
	if s.format.IsCLUT8() {
		if !s.HasPalette() {
			panic("graphics: indexed surface has no palette")
		}
		pal := make(color.Palette, s.palette.Size())
		for i := range pal {
			r, g, b := s.palette.Get(i)
			pal[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
		}
		pm := image.NewPaletted(s.Bounds(), pal)
		for y := 0; y < s.h; y++ {
			copy(pm.Pix[y*pm.Stride:y*pm.Stride+s.w], s.BasePtr(0, y))
		}
		return pm
	}

	bpp := int(s.format.BytesPerPixel)
	load, _ := pixelAccessors(bpp)
	img := image.NewNRGBA(s.Bounds())
	for y := 0; y < s.h; y++ {
		row := s.BasePtr(0, y)
		for x := 0; x < s.w; x++ {
			a, r, g, b := s.format.ColorToARGB(load(row[x*bpp:]))
			i := y*img.Stride + x*4
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = a
		}
	}
	return img
}
