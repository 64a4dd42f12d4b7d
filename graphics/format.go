/*
Package graphics implements an in-memory raster surface model and a family
of software blit operators able to copy, key, mask, alpha-blend, scale and
flip pixel data between surfaces of arbitrary, possibly mismatched pixel
formats, including indexed (palette) color.

All operators are synchronous and run on the caller's goroutine. Surfaces
are not safe for concurrent use; the model assumes a single render thread
per frame.
*/
package graphics

// PixelFormat describes how a raw pixel value encodes its color components.
//
// For every channel the format stores a loss (8 minus the channel bit
// count) and a shift (the bit position of the channel inside the value).
// A channel is extracted as ((value >> shift) << loss) & 0xff and encoded
// as (component >> loss) << shift. A loss of 8 means the channel does not
// exist; a format without an alpha channel decodes alpha as 0xff.
//
// An indexed (CLUT8) format is one byte per pixel with no direct color
// channels at all; decoding one requires a Palette.
type PixelFormat struct {
	BytesPerPixel byte

	RLoss, GLoss, BLoss, ALoss     byte
	RShift, GShift, BShift, AShift byte
}

// NewPixelFormat builds a PixelFormat from per-channel bit counts and
// shifts. Channel bit ranges must fit within BytesPerPixel*8 bits.
func NewPixelFormat(bytesPerPixel, rBits, gBits, bBits, aBits, rShift, gShift, bShift, aShift byte) PixelFormat {
	return PixelFormat{
		BytesPerPixel: bytesPerPixel,
		RLoss:         8 - rBits,
		GLoss:         8 - gBits,
		BLoss:         8 - bBits,
		ALoss:         8 - aBits,
		RShift:        rShift,
		GShift:        gShift,
		BShift:        bShift,
		AShift:        aShift,
	}
}

// Predefined pixel formats. The 32- and 24-bit formats name their memory
// byte order on a little-endian store; RGBA32 matches the layout required
// by BlendBlitFrom.
var (
	PixelFormatCLUT8  = PixelFormat{BytesPerPixel: 1, RLoss: 8, GLoss: 8, BLoss: 8, ALoss: 8}
	PixelFormatRGBA32 = NewPixelFormat(4, 8, 8, 8, 8, 0, 8, 16, 24)
	PixelFormatBGRA32 = NewPixelFormat(4, 8, 8, 8, 8, 16, 8, 0, 24)
	PixelFormatRGB24  = NewPixelFormat(3, 8, 8, 8, 0, 0, 8, 16, 0)
	PixelFormatRGB565 = NewPixelFormat(2, 5, 6, 5, 0, 11, 5, 0, 0)
	PixelFormatRGB555 = NewPixelFormat(2, 5, 5, 5, 0, 10, 5, 0, 0)
)

// IsCLUT8 reports whether the format is indexed color.
func (f PixelFormat) IsCLUT8() bool {
	return f.BytesPerPixel == 1 && f.RLoss == 8 && f.GLoss == 8 && f.BLoss == 8
}

func (f PixelFormat) RBits() byte { return 8 - f.RLoss }
func (f PixelFormat) GBits() byte { return 8 - f.GLoss }
func (f PixelFormat) BBits() byte { return 8 - f.BLoss }
func (f PixelFormat) ABits() byte { return 8 - f.ALoss }

// RMax returns the maximum value of the red channel.
func (f PixelFormat) RMax() uint32 { return (1 << f.RBits()) - 1 }
func (f PixelFormat) GMax() uint32 { return (1 << f.GBits()) - 1 }
func (f PixelFormat) BMax() uint32 { return (1 << f.BBits()) - 1 }
func (f PixelFormat) AMax() uint32 { return (1 << f.ABits()) - 1 }

// AlphaMask returns the alpha channel mask within a raw pixel value, or 0
// if the format has no alpha channel.
func (f PixelFormat) AlphaMask() uint32 {
	if f.ABits() == 0 {
		return 0
	}
	return f.AMax() << f.AShift
}

// RGBToColor encodes fully opaque color components into a raw pixel value.
// Not meaningful for indexed formats.
func (f PixelFormat) RGBToColor(r, g, b uint8) uint32 {
	return f.ARGBToColor(0xff, r, g, b)
}

// ARGBToColor encodes color components into a raw pixel value. Channels
// narrower than 8 bits lose their low-order bits. Not meaningful for
// indexed formats; callers quantize through a Palette instead.
func (f PixelFormat) ARGBToColor(a, r, g, b uint8) uint32 {
	return uint32(a)>>f.ALoss<<f.AShift |
		uint32(r)>>f.RLoss<<f.RShift |
		uint32(g)>>f.GLoss<<f.GShift |
		uint32(b)>>f.BLoss<<f.BShift
}

// ColorToRGB decodes the color channels of a raw pixel value.
func (f PixelFormat) ColorToRGB(color uint32) (r, g, b uint8) {
	_, r, g, b = f.ColorToARGB(color)
	return
}

// ColorToARGB decodes a raw pixel value into components in [0,255]. Formats
// without an alpha channel decode alpha as 0xff. Indexed values must be
// resolved through a Palette instead.
func (f PixelFormat) ColorToARGB(color uint32) (a, r, g, b uint8) {
	if f.ALoss == 8 {
		a = 0xff
	} else {
		a = uint8(color >> f.AShift << f.ALoss)
	}
	r = uint8(color >> f.RShift << f.RLoss)
	g = uint8(color >> f.GShift << f.GLoss)
	b = uint8(color >> f.BShift << f.BLoss)
	return
}
