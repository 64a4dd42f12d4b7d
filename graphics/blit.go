package graphics

import (
	"encoding/binary"
	"image"
)

// Raw pixel values are read and written little-endian; 24-bit pixels
// occupy three bytes with the low byte first.

func loadPixel(p []byte, bpp int) uint32 {
	switch bpp {
	case 1:
		return uint32(p[0])
	case 2:
		return uint32(binary.LittleEndian.Uint16(p))
	case 3:
		return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
	case 4:
		return binary.LittleEndian.Uint32(p)
	}
	panic("graphics: bytesPerPixel must be 1, 2, 3 or 4")
}

func storePixel(p []byte, bpp int, c uint32) {
	switch bpp {
	case 1:
		p[0] = byte(c)
	case 2:
		binary.LittleEndian.PutUint16(p, uint16(c))
	case 3:
		p[0], p[1], p[2] = byte(c), byte(c>>8), byte(c>>16)
	case 4:
		binary.LittleEndian.PutUint32(p, c)
	default:
		panic("graphics: bytesPerPixel must be 1, 2, 3 or 4")
	}
}

type (
	pixelLoadFunc  func([]byte) uint32
	pixelStoreFunc func([]byte, uint32)
)

// pixelAccessors returns width-specialized load/store functions so the hot
// blit loops stay free of per-pixel width dispatch.
func pixelAccessors(bpp int) (pixelLoadFunc, pixelStoreFunc) {
	switch bpp {
	case 1:
		return func(p []byte) uint32 { return uint32(p[0]) },
			func(p []byte, c uint32) { p[0] = byte(c) }
	case 2:
		return func(p []byte) uint32 { return uint32(binary.LittleEndian.Uint16(p)) },
			func(p []byte, c uint32) { binary.LittleEndian.PutUint16(p, uint16(c)) }
	case 3:
		return func(p []byte) uint32 { return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 },
			func(p []byte, c uint32) { p[0], p[1], p[2] = byte(c), byte(c>>8), byte(c>>16) }
	case 4:
		return func(p []byte) uint32 { return binary.LittleEndian.Uint32(p) },
			func(p []byte, c uint32) { binary.LittleEndian.PutUint32(p, c) }
	}
	panic("graphics: bytesPerPixel must be 1, 2, 3 or 4")
}

// clipRects clips a source/destination rectangle pair of equal size against
// both surface bounds, keeping the two rectangles aligned. Returns empty
// rectangles when nothing survives.
func clipRects(src, dst, srcLimit, dstLimit image.Rectangle) (image.Rectangle, image.Rectangle) {
	c := src.Intersect(srcLimit)
	if c.Empty() {
		return image.Rectangle{}, image.Rectangle{}
	}
	dst = dst.Add(c.Min.Sub(src.Min))
	dst.Max = dst.Min.Add(c.Size())
	src = c

	c = dst.Intersect(dstLimit)
	if c.Empty() {
		return image.Rectangle{}, image.Rectangle{}
	}
	src = src.Add(c.Min.Sub(dst.Min))
	src.Max = src.Min.Add(c.Size())
	return src, c
}

// copyBlit copies rows of same-format pixels.
func copyBlit(dst, src []byte, dstPitch, srcPitch, w, h, bpp int) {
	for y := 0; y < h; y++ {
		copy(dst[y*dstPitch:y*dstPitch+w*bpp], src[y*srcPitch:])
	}
}

// keyBlit copies same-format pixels, skipping any source pixel equal to the
// transparent color key.
func keyBlit(dst, src []byte, dstPitch, srcPitch, w, h, bpp int, key uint32) {
	load, store := pixelAccessors(bpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		for x := 0; x < w; x++ {
			if c := load(srcRow[x*bpp:]); c != key {
				store(dstRow[x*bpp:], c)
			}
		}
	}
}

// maskBlit copies same-format pixels wherever the matching mask pixel is
// nonzero.
func maskBlit(dst, src, mask []byte, dstPitch, srcPitch, maskPitch, w, h, bpp, maskBpp int) {
	load, store := pixelAccessors(bpp)
	maskLoad, _ := pixelAccessors(maskBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		maskRow := mask[y*maskPitch:]
		for x := 0; x < w; x++ {
			if maskLoad(maskRow[x*maskBpp:]) != 0 {
				store(dstRow[x*bpp:], load(srcRow[x*bpp:]))
			}
		}
	}
}

// crossBlit converts each pixel from the source format to the destination
// format.
func crossBlit(dst, src []byte, dstPitch, srcPitch, w, h int, dstFmt, srcFmt PixelFormat) {
	srcBpp, dstBpp := int(srcFmt.BytesPerPixel), int(dstFmt.BytesPerPixel)
	load, _ := pixelAccessors(srcBpp)
	_, store := pixelAccessors(dstBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		for x := 0; x < w; x++ {
			a, r, g, b := srcFmt.ColorToARGB(load(srcRow[x*srcBpp:]))
			store(dstRow[x*dstBpp:], dstFmt.ARGBToColor(a, r, g, b))
		}
	}
}

// crossKeyBlit is crossBlit with a raw-value transparent color key.
func crossKeyBlit(dst, src []byte, dstPitch, srcPitch, w, h int, dstFmt, srcFmt PixelFormat, key uint32) {
	srcBpp, dstBpp := int(srcFmt.BytesPerPixel), int(dstFmt.BytesPerPixel)
	load, _ := pixelAccessors(srcBpp)
	_, store := pixelAccessors(dstBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		for x := 0; x < w; x++ {
			c := load(srcRow[x*srcBpp:])
			if c == key {
				continue
			}
			a, r, g, b := srcFmt.ColorToARGB(c)
			store(dstRow[x*dstBpp:], dstFmt.ARGBToColor(a, r, g, b))
		}
	}
}

// crossMaskBlit is crossBlit gated by a mask buffer.
func crossMaskBlit(dst, src, mask []byte, dstPitch, srcPitch, maskPitch, w, h int, dstFmt, srcFmt PixelFormat, maskBpp int) {
	srcBpp, dstBpp := int(srcFmt.BytesPerPixel), int(dstFmt.BytesPerPixel)
	load, _ := pixelAccessors(srcBpp)
	_, store := pixelAccessors(dstBpp)
	maskLoad, _ := pixelAccessors(maskBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		maskRow := mask[y*maskPitch:]
		for x := 0; x < w; x++ {
			if maskLoad(maskRow[x*maskBpp:]) == 0 {
				continue
			}
			a, r, g, b := srcFmt.ColorToARGB(load(srcRow[x*srcBpp:]))
			store(dstRow[x*dstBpp:], dstFmt.ARGBToColor(a, r, g, b))
		}
	}
}

// crossBlitMap blits an indexed source through a palette pre-encoded in the
// destination format.
func crossBlitMap(dst, src []byte, dstPitch, srcPitch, w, h, dstBpp int, m *[PaletteCapacity]uint32) {
	_, store := pixelAccessors(dstBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		for x := 0; x < w; x++ {
			store(dstRow[x*dstBpp:], m[srcRow[x]])
		}
	}
}

// crossKeyBlitMap is crossBlitMap with a transparent palette index.
func crossKeyBlitMap(dst, src []byte, dstPitch, srcPitch, w, h, dstBpp int, m *[PaletteCapacity]uint32, key uint32) {
	_, store := pixelAccessors(dstBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		for x := 0; x < w; x++ {
			if uint32(srcRow[x]) == key {
				continue
			}
			store(dstRow[x*dstBpp:], m[srcRow[x]])
		}
	}
}

// crossMaskBlitMap is crossBlitMap gated by a mask buffer.
func crossMaskBlitMap(dst, src, mask []byte, dstPitch, srcPitch, maskPitch, w, h, dstBpp int, m *[PaletteCapacity]uint32, maskBpp int) {
	_, store := pixelAccessors(dstBpp)
	maskLoad, _ := pixelAccessors(maskBpp)
	for y := 0; y < h; y++ {
		srcRow := src[y*srcPitch:]
		dstRow := dst[y*dstPitch:]
		maskRow := mask[y*maskPitch:]
		for x := 0; x < w; x++ {
			if maskLoad(maskRow[x*maskBpp:]) == 0 {
				continue
			}
			store(dstRow[x*dstBpp:], m[srcRow[x]])
		}
	}
}

// SimpleBlitFrom blits the whole of src to destPos, honoring src's
// transparent color key and palette.
func (s *Surface) SimpleBlitFrom(src *Surface, destPos image.Point) {
	s.SimpleBlitRectFrom(src, src.Bounds(), destPos)
}

// SimpleBlitRectFrom blits srcRect of src to destPos without scaling or
// alpha blending. Pixels equal to src's transparent color key are skipped;
// a cross-format blit decodes each pixel through the source format (or
// src's palette for an indexed source) and re-encodes it in this surface's
// format. Fully clipped blits are a no-op.
func (s *Surface) SimpleBlitRectFrom(src *Surface, srcRect image.Rectangle, destPos image.Point) {
	s.simpleBlit(src, srcRect, destPos, src.palette, src.transparentColorSet, src.transparentColor)
}

func (s *Surface) simpleBlit(src *Surface, srcRect image.Rectangle, destPos image.Point, srcPalette *Palette, keySet bool, key uint32) {
	dstRect := srcRect.Sub(srcRect.Min).Add(destPos)
	srcRect, dstRect = clipRects(srcRect, dstRect, src.Bounds(), s.Bounds())
	if dstRect.Empty() {
		return
	}

	w, h := dstRect.Dx(), dstRect.Dy()
	srcPtr := src.BasePtr(srcRect.Min.X, srcRect.Min.Y)
	dstPtr := s.BasePtr(dstRect.Min.X, dstRect.Min.Y)
	bpp := int(s.format.BytesPerPixel)

	switch {
	case s.format == src.format:
		if keySet {
			keyBlit(dstPtr, srcPtr, s.pitch, src.pitch, w, h, bpp, key)
		} else {
			copyBlit(dstPtr, srcPtr, s.pitch, src.pitch, w, h, bpp)
		}
	case src.format.IsCLUT8():
		if s.format.IsCLUT8() {
			panic("graphics: indexed blit between different indexed formats")
		}
		if srcPalette == nil || srcPalette.Size() == 0 {
			panic("graphics: indexed source blit requires a palette")
		}
		m := convertPaletteToMap(srcPalette, s.format)
		if keySet {
			crossKeyBlitMap(dstPtr, srcPtr, s.pitch, src.pitch, w, h, bpp, &m, key)
		} else {
			crossBlitMap(dstPtr, srcPtr, s.pitch, src.pitch, w, h, bpp, &m)
		}
	default:
		if s.format.IsCLUT8() {
			panic("graphics: cannot blit a direct-color source onto an indexed destination")
		}
		if keySet {
			crossKeyBlit(dstPtr, srcPtr, s.pitch, src.pitch, w, h, s.format, src.format, key)
		} else {
			crossBlit(dstPtr, srcPtr, s.pitch, src.pitch, w, h, s.format, src.format)
		}
	}

	s.AddDirtyRect(dstRect)
}

// MaskBlitFrom blits the whole of src to destPos, writing only pixels whose
// matching mask pixel is nonzero.
func (s *Surface) MaskBlitFrom(src, mask *Surface, destPos image.Point) {
	s.MaskBlitRectFrom(src, mask, src.Bounds(), destPos)
}

// MaskBlitRectFrom blits srcRect of src to destPos gated pixel-by-pixel by
// mask. The mask must have exactly the source's dimensions and be either
// single-channel (one byte per pixel) or in the source's own format;
// anything else is a caller bug and panics.
func (s *Surface) MaskBlitRectFrom(src, mask *Surface, srcRect image.Rectangle, destPos image.Point) {
	if mask.w != src.w || mask.h != src.h {
		panic("graphics: mask dimensions do not match source")
	}
	if mask.format.BytesPerPixel != 1 && mask.format != src.format {
		panic("graphics: mask must be single-channel or match the source format")
	}

	dstRect := srcRect.Sub(srcRect.Min).Add(destPos)
	srcRect, dstRect = clipRects(srcRect, dstRect, src.Bounds(), s.Bounds())
	if dstRect.Empty() {
		return
	}

	w, h := dstRect.Dx(), dstRect.Dy()
	srcPtr := src.BasePtr(srcRect.Min.X, srcRect.Min.Y)
	maskPtr := mask.BasePtr(srcRect.Min.X, srcRect.Min.Y)
	dstPtr := s.BasePtr(dstRect.Min.X, dstRect.Min.Y)
	bpp := int(s.format.BytesPerPixel)
	maskBpp := int(mask.format.BytesPerPixel)

	switch {
	case s.format == src.format:
		maskBlit(dstPtr, srcPtr, maskPtr, s.pitch, src.pitch, mask.pitch, w, h, bpp, maskBpp)
	case src.format.IsCLUT8():
		if s.format.IsCLUT8() {
			panic("graphics: indexed blit between different indexed formats")
		}
		if src.palette == nil || src.palette.Size() == 0 {
			panic("graphics: indexed source blit requires a palette")
		}
		m := convertPaletteToMap(src.palette, s.format)
		crossMaskBlitMap(dstPtr, srcPtr, maskPtr, s.pitch, src.pitch, mask.pitch, w, h, bpp, &m, maskBpp)
	default:
		if s.format.IsCLUT8() {
			panic("graphics: cannot blit a direct-color source onto an indexed destination")
		}
		crossMaskBlit(dstPtr, srcPtr, maskPtr, s.pitch, src.pitch, mask.pitch, w, h, s.format, src.format, maskBpp)
	}

	s.AddDirtyRect(dstRect)
}
