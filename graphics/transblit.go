package graphics

import "image"

// scaleThreshold is the fixed-point unit of the blit scaling accumulator:
// an x/y scale factor equal to the threshold means 1:1.
const scaleThreshold = 0x100

// TransparentColorNone passed as a transparent color means "no explicit
// key"; keyed operators then fall back to the source surface's own key, if
// any.
const TransparentColorNone = ^uint32(0)

// clipSourceRect clips srcRect against the source bounds, shrinking
// destRect proportionally so the mapping between the two rectangles is
// preserved. Returns empty rectangles when nothing survives.
func clipSourceRect(srcRect, destRect, bounds image.Rectangle) (image.Rectangle, image.Rectangle) {
	c := srcRect.Intersect(bounds)
	if c == srcRect {
		return srcRect, destRect
	}
	if c.Empty() || srcRect.Dx() <= 0 || srcRect.Dy() <= 0 {
		return image.Rectangle{}, image.Rectangle{}
	}
	mapX := func(v int) int {
		return destRect.Min.X + (v-srcRect.Min.X)*destRect.Dx()/srcRect.Dx()
	}
	mapY := func(v int) int {
		return destRect.Min.Y + (v-srcRect.Min.Y)*destRect.Dy()/srcRect.Dy()
	}
	destRect = image.Rect(mapX(c.Min.X), mapY(c.Min.Y), mapX(c.Max.X), mapY(c.Max.Y))
	return c, destRect
}

// BlitFrom blits the whole of src to destPos. If src carries a transparent
// color key the blit is keyed, otherwise it is a plain alpha-aware blit.
func (s *Surface) BlitFrom(src *Surface, destPos image.Point) {
	r := src.Bounds()
	s.BlitRectFrom(src, r, r.Add(destPos))
}

// BlitRectFrom blits srcRect of src into destRect, scaling with the
// fixed-point accumulator when the rectangles differ in size. Source pixels
// carrying alpha are composited source-over; fully transparent pixels are
// skipped and fully opaque same-format pixels are copied directly. If src
// has a transparent color key the call is forwarded to TransBlitRectFrom.
func (s *Surface) BlitRectFrom(src *Surface, srcRect, destRect image.Rectangle) {
	if src.transparentColorSet {
		s.TransBlitRectFrom(src, srcRect, destRect, TransparentColorNone, false, 0xff)
		return
	}
	s.blitInner(src, srcRect, destRect, src.palette)
}

func (s *Surface) blitInner(src *Surface, srcRect, destRect image.Rectangle, srcPalette *Palette) {
	srcRect, destRect = clipSourceRect(srcRect, destRect, src.Bounds())
	if destRect.Empty() || srcRect.Empty() {
		return
	}

	scaleX := scaleThreshold * srcRect.Dx() / destRect.Dx()
	scaleY := scaleThreshold * srcRect.Dy() / destRect.Dy()

	dstFmt := s.format
	srcFmt := src.format

	isSameFormat := dstFmt == srcFmt
	if !isSameFormat {
		checkBytesPerPixel(dstFmt)
		checkBytesPerPixel(srcFmt)
		if srcFmt.BytesPerPixel == 1 {
			// A cross-format blit from an indexed source needs a palette
			// and a direct-color destination.
			if dstFmt.IsCLUT8() || srcPalette == nil || srcPalette.Size() == 0 {
				panic("graphics: indexed source blit requires a palette and a direct-color destination")
			}
		}
	}

	srcBpp := int(srcFmt.BytesPerPixel)
	dstBpp := int(dstFmt.BytesPerPixel)
	srcLoad, _ := pixelAccessors(srcBpp)
	dstLoad, dstStore := pixelAccessors(dstBpp)

	alphaMask := srcFmt.AlphaMask()
	noScale := scaleX == scaleThreshold && scaleY == scaleThreshold

	for destY, scaleYCtr := destRect.Min.Y, 0; destY < destRect.Max.Y; destY, scaleYCtr = destY+1, scaleYCtr+scaleY {
		if destY < 0 || destY >= s.h {
			continue
		}
		srcY := scaleYCtr/scaleThreshold + srcRect.Min.Y

		// For a paletted destination the palette is assumed shared and
		// there is no transparency, so unscaled rows copy straight across.
		if dstFmt.IsCLUT8() && noScale {
			width := srcRect.Dx()
			srcX := srcRect.Min.X
			destX := destRect.Min.X
			if destX+width > s.w {
				width = s.w - destX
			}
			if destX < 0 {
				srcX -= destX
				width += destX
				destX = 0
			}
			if width > 0 {
				copy(s.BasePtr(destX, destY)[:width], src.BasePtr(srcX, srcY))
			}
			continue
		}

		for destX, scaleXCtr := destRect.Min.X, 0; destX < destRect.Max.X; destX, scaleXCtr = destX+1, scaleXCtr+scaleX {
			if destX < 0 || destX >= s.w {
				continue
			}

			srcX := scaleXCtr/scaleThreshold + srcRect.Min.X
			col := srcLoad(src.pixels[srcY*src.pitch+srcX*srcBpp:])
			destOff := destY*s.pitch + destX*dstBpp

			if dstFmt.IsCLUT8() {
				s.pixels[destOff] = byte(col)
				continue
			}

			isOpaque := srcFmt.IsCLUT8() || col&alphaMask == alphaMask
			isTransparent := !srcFmt.IsCLUT8() && col&alphaMask == 0

			var destPixel uint32
			switch {
			case !isOpaque && isTransparent:
				continue
			case isOpaque && isSameFormat:
				destPixel = col
			default:
				var aSrc, rSrc, gSrc, bSrc uint8
				if srcFmt.IsCLUT8() {
					rSrc, gSrc, bSrc = srcPalette.Get(int(col))
					aSrc = 0xff
				} else {
					aSrc, rSrc, gSrc, bSrc = srcFmt.ColorToARGB(col)
				}

				var aDest, rDest, gDest, bDest uint8
				if isOpaque {
					aDest, rDest, gDest, bDest = aSrc, rSrc, gSrc, bSrc
				} else {
					aDest, rDest, gDest, bDest = dstFmt.ColorToARGB(dstLoad(s.pixels[destOff:]))
					if aDest == 0xff {
						// Opaque target, integer blend.
						rDest = uint8((uint32(rDest)*(255-uint32(aSrc)) + uint32(rSrc)*uint32(aSrc)) * (257 * 257) >> 24)
						gDest = uint8((uint32(gDest)*(255-uint32(aSrc)) + uint32(gSrc)*uint32(aSrc)) * (257 * 257) >> 24)
						bDest = uint8((uint32(bDest)*(255-uint32(aSrc)) + uint32(bSrc)*uint32(aSrc)) * (257 * 257) >> 24)
					} else {
						// Translucent target, source-over with a scaled
						// destination alpha.
						sA := float64(aSrc) / 255.0
						dA := float64(aDest) / 255.0 * (1.0 - sA)
						rDest = uint8((float64(rSrc)*sA + float64(rDest)*dA) / (sA + dA))
						gDest = uint8((float64(gSrc)*sA + float64(gDest)*dA) / (sA + dA))
						bDest = uint8((float64(bSrc)*sA + float64(bDest)*dA) / (sA + dA))
						aDest = uint8(255.0 * (sA + dA))
					}
				}
				destPixel = dstFmt.ARGBToColor(aDest, rDest, gDest, bDest)
			}

			dstStore(s.pixels[destOff:], destPixel)
		}
	}

	s.AddDirtyRect(destRect)
}

// TransBlitFrom blits the whole of src to destPos using src's transparent
// color key and full source alpha.
func (s *Surface) TransBlitFrom(src *Surface, destPos image.Point) {
	r := src.Bounds()
	s.TransBlitRectFrom(src, r, r.Add(destPos), TransparentColorNone, false, 0xff)
}

// TransBlitRectFrom is the transparency- and alpha-aware compositing blit.
//
// srcRect is resampled into destRect with independent fixed-point x/y
// scaling. transColor is a raw source value treated as fully transparent;
// pass TransparentColorNone to fall back to src's own key (or no key). For
// source formats carrying alpha the key is compared on decoded RGB, since
// the raw value may include a varying alpha channel. flipped mirrors the
// source horizontally. srcAlpha scales every source pixel's alpha; 0 leaves
// the destination untouched.
//
// If this surface has its own transparent color key, destination pixels
// currently at that key are zeroed before receiving a translucent result
// rather than blended from a meaningless background color. When both sides
// are indexed, pixels are recolored through a per-index nearest-color
// lookup between the two palettes.
func (s *Surface) TransBlitRectFrom(src *Surface, srcRect, destRect image.Rectangle, transColor uint32, flipped bool, srcAlpha uint8) {
	if transColor == TransparentColorNone && src.transparentColorSet {
		transColor = src.transparentColor
	}
	s.transBlitInner(src, srcRect, destRect, transColor, flipped, srcAlpha, src.palette, s.palette)
}

func (s *Surface) transBlitInner(src *Surface, srcRect, destRect image.Rectangle, transColor uint32, flipped bool, srcAlpha uint8, srcPalette, dstPalette *Palette) {
	if src.w == 0 || src.h == 0 || destRect.Dx() <= 0 || destRect.Dy() <= 0 || srcRect.Dx() <= 0 || srcRect.Dy() <= 0 {
		return
	}
	srcRect, destRect = clipSourceRect(srcRect, destRect, src.Bounds())
	if destRect.Empty() || srcRect.Empty() {
		return
	}
	checkBytesPerPixel(src.format)
	checkBytesPerPixel(s.format)

	scaleX := scaleThreshold * srcRect.Dx() / destRect.Dx()
	scaleY := scaleThreshold * srcRect.Dy() / destRect.Dy()

	srcFmt := src.format
	dstFmt := s.format
	srcBpp := int(srcFmt.BytesPerPixel)
	dstBpp := int(dstFmt.BytesPerPixel)
	srcLoad, _ := pixelAccessors(srcBpp)
	dstLoad, dstStore := pixelAccessors(dstBpp)

	bothIndexed := srcFmt.IsCLUT8() && dstFmt.IsCLUT8()
	var lookup []byte
	if bothIndexed {
		lookup = paletteLookup(srcPalette, dstPalette)
	}

	// For a 32-bit keyed source the RGB parts must be matched irrespective
	// of the alpha channel, so the key is split up front. Same for a keyed
	// destination with alpha.
	isSrcTrans32 := srcFmt.ABits() != 0 && transColor != TransparentColorNone && transColor > 0
	var rst, gst, bst uint8
	if isSrcTrans32 {
		rst, gst, bst = srcFmt.ColorToRGB(transColor)
	}
	isDestTrans32 := dstFmt.ABits() != 0 && s.transparentColorSet
	var rdt, gdt, bdt uint8
	if isDestTrans32 {
		rdt, gdt, bdt = dstFmt.ColorToRGB(s.transparentColor)
	}

	for destY, scaleYCtr := destRect.Min.Y, 0; destY < destRect.Max.Y; destY, scaleYCtr = destY+1, scaleYCtr+scaleY {
		if destY < 0 || destY >= s.h {
			continue
		}
		srcY := scaleYCtr/scaleThreshold + srcRect.Min.Y

		for destX, scaleXCtr := destRect.Min.X, 0; destX < destRect.Max.X; destX, scaleXCtr = destX+1, scaleXCtr+scaleX {
			if destX < 0 || destX >= s.w {
				continue
			}

			srcX := scaleXCtr / scaleThreshold
			if flipped {
				srcX = srcRect.Min.X + srcRect.Dx() - 1 - srcX
			} else {
				srcX += srcRect.Min.X
			}

			srcVal := srcLoad(src.pixels[srcY*src.pitch+srcX*srcBpp:])
			destOff := destY*s.pitch + destX*dstBpp
			destVal := dstLoad(s.pixels[destOff:])

			isDestPixelTrans := false
			if isDestTrans32 {
				r, g, b := dstFmt.ColorToRGB(destVal)
				isDestPixelTrans = r == rdt && g == gdt && b == bdt
			} else if s.transparentColorSet {
				isDestPixelTrans = destVal == s.transparentColor
			}

			if isSrcTrans32 {
				r, g, b := srcFmt.ColorToRGB(srcVal)
				if r == rst && g == gst && b == bst {
					continue
				}
			} else if transColor != TransparentColorNone && srcVal == transColor {
				continue
			}

			if isDestPixelTrans {
				// Remove the key so it is not alpha blended as if it were
				// a real background color.
				destVal = 0
				dstStore(s.pixels[destOff:], 0)
			}

			if bothIndexed {
				if srcAlpha == 0 {
					continue
				}
				out := srcVal
				if lookup != nil && int(out) < len(lookup) {
					out = uint32(lookup[out])
				}
				dstStore(s.pixels[destOff:], out)
				continue
			}

			var aSrc, rSrc, gSrc, bSrc uint8
			if srcFmt.IsCLUT8() {
				if srcPalette == nil || srcPalette.Size() == 0 {
					panic("graphics: indexed source blit requires a palette")
				}
				rSrc, gSrc, bSrc = srcPalette.Get(int(srcVal))
				aSrc = 0xff
			} else {
				aSrc, rSrc, gSrc, bSrc = srcFmt.ColorToARGB(srcVal)
			}

			if srcAlpha != 0xff {
				aSrc = uint8(uint32(aSrc) * uint32(srcAlpha) / 255)
			}

			var aDest, rDest, gDest, bDest uint8
			switch {
			case aSrc == 0:
				// Completely transparent, skip.
				continue
			case aSrc == 0xff:
				aDest, rDest, gDest, bDest = 0xff, rSrc, gSrc, bSrc
			default:
				aDest, rDest, gDest, bDest = dstFmt.ColorToARGB(destVal)
				sA := float64(aSrc) / 255.0
				dA := float64(aDest) / 255.0 * (1.0 - sA)
				rDest = uint8((float64(rSrc)*sA + float64(rDest)*dA) / (sA + dA))
				gDest = uint8((float64(gSrc)*sA + float64(gDest)*dA) / (sA + dA))
				bDest = uint8((float64(bSrc)*sA + float64(bDest)*dA) / (sA + dA))
				aDest = uint8(255.0 * (sA + dA))
			}

			dstStore(s.pixels[destOff:], dstFmt.ARGBToColor(aDest, rDest, gDest, bDest))
		}
	}

	s.AddDirtyRect(destRect)
}
