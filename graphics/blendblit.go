package graphics

import "image"

// BlendMode selects how source and destination channels are combined by
// BlendBlitFrom. All modes share the same per-pixel structure and differ
// only in the channel combination rule.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendSubtractive
	BlendMultiply
	BlendOpaque
)

// AlphaType describes how the source surface's alpha channel is to be
// interpreted.
type AlphaType int

const (
	// AlphaOpaque ignores source alpha entirely.
	AlphaOpaque AlphaType = iota
	// AlphaBinary treats any nonzero alpha as fully opaque.
	AlphaBinary
	// AlphaStraight is non-premultiplied alpha.
	AlphaStraight
	// AlphaPremultiplied marks color channels already scaled by alpha.
	AlphaPremultiplied
)

// Flip flags for BlendBlitFrom.
const (
	FlipNone = 0
	FlipH    = 1
	FlipV    = 2
	FlipHV   = FlipH | FlipV
)

// ColorModARGB packs a per-channel multiplicative modulation value for
// BlendBlitFrom. ColorModOpaque leaves the source untinted.
func ColorModARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// ColorModOpaque is the identity color modulation.
const ColorModOpaque uint32 = 0xffffffff

// blendPixelFunc combines a 4-byte RGBA source pixel into a 4-byte RGBA
// destination pixel.
type blendPixelFunc func(dst, src []byte)

func blendOpaquePixel(cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		dst[0] = uint8(uint32(src[0]) * cr >> 8)
		dst[1] = uint8(uint32(src[1]) * cg >> 8)
		dst[2] = uint8(uint32(src[2]) * cb >> 8)
		dst[3] = 0xff
	}
}

func blendBinaryPixel(cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		if src[3] == 0 {
			return
		}
		dst[0] = uint8(uint32(src[0]) * cr >> 8)
		dst[1] = uint8(uint32(src[1]) * cg >> 8)
		dst[2] = uint8(uint32(src[2]) * cb >> 8)
		dst[3] = 0xff
	}
}

func blendNormalStraight(ca, cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		ina := uint32(src[3]) * ca >> 8
		if ina == 0 {
			return
		}
		dst[0] = uint8((uint32(dst[0])*(255-ina))>>8 + (uint32(src[0])*cr*ina)>>16)
		dst[1] = uint8((uint32(dst[1])*(255-ina))>>8 + (uint32(src[1])*cg*ina)>>16)
		dst[2] = uint8((uint32(dst[2])*(255-ina))>>8 + (uint32(src[2])*cb*ina)>>16)
		dst[3] = 0xff
	}
}

func blendNormalPremultiplied(ca, cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		ina := uint32(src[3]) * ca >> 8
		if ina == 0 {
			return
		}
		// Channels are already scaled by source alpha, so only the
		// modulation is applied on top.
		dst[0] = uint8((uint32(dst[0])*(255-ina))>>8 + (uint32(src[0])*cr*ca)>>16)
		dst[1] = uint8((uint32(dst[1])*(255-ina))>>8 + (uint32(src[1])*cg*ca)>>16)
		dst[2] = uint8((uint32(dst[2])*(255-ina))>>8 + (uint32(src[2])*cb*ca)>>16)
		dst[3] = 0xff
	}
}

func blendAdditive(ca, cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		ina := uint32(src[3]) * ca >> 8
		if ina == 0 {
			return
		}
		dst[0] = clampChannel(uint32(dst[0]) + (uint32(src[0])*cr*ina)>>16)
		dst[1] = clampChannel(uint32(dst[1]) + (uint32(src[1])*cg*ina)>>16)
		dst[2] = clampChannel(uint32(dst[2]) + (uint32(src[2])*cb*ina)>>16)
	}
}

func blendSubtractive(ca, cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		ina := uint32(src[3]) * ca >> 8
		if ina == 0 {
			return
		}
		dst[0] = clampSubChannel(int32(dst[0]) - int32((uint32(src[0])*cr*ina)>>16))
		dst[1] = clampSubChannel(int32(dst[1]) - int32((uint32(src[1])*cg*ina)>>16))
		dst[2] = clampSubChannel(int32(dst[2]) - int32((uint32(src[2])*cb*ina)>>16))
	}
}

func blendMultiplyPixel(ca, cr, cg, cb uint32) blendPixelFunc {
	return func(dst, src []byte) {
		ina := uint32(src[3]) * ca >> 8
		if ina == 0 {
			return
		}
		mr := uint32(src[0]) * cr >> 8
		mg := uint32(src[1]) * cg >> 8
		mb := uint32(src[2]) * cb >> 8
		dst[0] = uint8((uint32(dst[0])*(255-ina) + (uint32(dst[0])*mr>>8)*ina) >> 8)
		dst[1] = uint8((uint32(dst[1])*(255-ina) + (uint32(dst[1])*mg>>8)*ina) >> 8)
		dst[2] = uint8((uint32(dst[2])*(255-ina) + (uint32(dst[2])*mb>>8)*ina) >> 8)
	}
}

func clampChannel(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampSubChannel(v int32) uint8 {
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func blendPixelFor(mode BlendMode, alphaType AlphaType, colorMod uint32) blendPixelFunc {
	ca := colorMod >> 24 & 0xff
	cr := colorMod >> 16 & 0xff
	cg := colorMod >> 8 & 0xff
	cb := colorMod & 0xff

	if mode == BlendOpaque || alphaType == AlphaOpaque {
		return blendOpaquePixel(cr, cg, cb)
	}
	if alphaType == AlphaBinary {
		return blendBinaryPixel(cr, cg, cb)
	}

	switch mode {
	case BlendAdditive:
		return blendAdditive(ca, cr, cg, cb)
	case BlendSubtractive:
		return blendSubtractive(ca, cr, cg, cb)
	case BlendMultiply:
		return blendMultiplyPixel(ca, cr, cg, cb)
	default:
		if alphaType == AlphaPremultiplied {
			return blendNormalPremultiplied(ca, cr, cg, cb)
		}
		return blendNormalStraight(ca, cr, cg, cb)
	}
}

// BlendBlitFrom composites srcRect of src into destRect with flipping,
// per-channel color modulation, a selectable blend mode and a selectable
// source alpha interpretation. Both surfaces must be RGBA32; anything else
// logs a warning and performs no write, since continuing with wrong-format
// math would corrupt pixels. A fully transparent color modulation is a
// no-op over the whole call.
//
// When destRect extends past the destination bounds the scaling
// accumulator is started at the matching sub-pixel offset, so a partially
// off-surface blit shows no seam against a later adjacent one.
func (s *Surface) BlendBlitFrom(src *Surface, srcRect, destRect image.Rectangle, flipping int, colorMod uint32, mode BlendMode, alphaType AlphaType) {
	if s.format != PixelFormatRGBA32 || src.format != PixelFormatRGBA32 {
		Logger().Warn("graphics: BlendBlitFrom only accepts RGBA32 surfaces")
		return
	}
	if colorMod&0xff000000 == 0 {
		return
	}
	if srcRect.Dx() <= 0 || srcRect.Dy() <= 0 || destRect.Dx() <= 0 || destRect.Dy() <= 0 {
		return
	}

	scaleX := scaleThreshold * srcRect.Dx() / destRect.Dx()
	scaleY := scaleThreshold * srcRect.Dy() / destRect.Dy()
	scaleXoff, scaleYoff := 0, 0

	if destRect.Min.X < 0 {
		scaleXoff = -destRect.Min.X * scaleX
		destRect.Min.X = 0
	}
	if destRect.Min.Y < 0 {
		scaleYoff = -destRect.Min.Y * scaleY
		destRect.Min.Y = 0
	}
	if destRect.Max.X > s.w {
		destRect.Max.X = s.w
	}
	if destRect.Max.Y > s.h {
		destRect.Max.Y = s.h
	}
	if destRect.Empty() {
		return
	}

	blend := blendPixelFor(mode, alphaType, colorMod)

	for y := 0; y < destRect.Dy(); y++ {
		sy := (scaleYoff + y*scaleY) / scaleThreshold
		srcY := srcRect.Min.Y + sy
		if flipping&FlipV != 0 {
			srcY = srcRect.Max.Y - 1 - sy
		}
		srcRow := src.pixels[srcY*src.pitch:]
		dstRow := s.BasePtr(destRect.Min.X, destRect.Min.Y+y)

		for x := 0; x < destRect.Dx(); x++ {
			sx := (scaleXoff + x*scaleX) / scaleThreshold
			srcX := srcRect.Min.X + sx
			if flipping&FlipH != 0 {
				srcX = srcRect.Max.X - 1 - sx
			}
			blend(dstRow[x*4:x*4+4], srcRow[srcX*4:srcX*4+4])
		}
	}

	s.AddDirtyRect(destRect)
}
