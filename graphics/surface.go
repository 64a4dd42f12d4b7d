package graphics

import "image"

// Surface is a rectangular pixel buffer. A surface either owns its memory
// (allocated by NewSurface) or is a view into a region of another surface's
// buffer (created by NewSubSurface). A view holds a non-owning back
// reference to its owner; using a view after the owner has been freed is a
// caller bug.
//
// A surface additionally carries an optional transparent color key, an
// optional palette, and, for a root (non-view) surface, the accumulated
// dirty rectangles not yet consumed by a display backend.
type Surface struct {
	w, h, pitch int
	format      PixelFormat
	pixels      []byte

	owns   bool
	owner  *Surface
	offset image.Point

	transparentColor    uint32
	transparentColorSet bool

	palette *Palette

	dirtyRects []image.Rectangle
}

func checkBytesPerPixel(format PixelFormat) {
	if format.BytesPerPixel < 1 || format.BytesPerPixel > 4 {
		panic("graphics: bytesPerPixel must be 1, 2, 3 or 4")
	}
}

// NewSurface allocates an owning surface of the given size. The buffer is
// zeroed and the whole surface is marked dirty.
func NewSurface(width, height int, format PixelFormat) *Surface {
	if width < 0 || height < 0 {
		panic("graphics: negative surface dimensions")
	}
	checkBytesPerPixel(format)

	s := &Surface{
		w:      width,
		h:      height,
		pitch:  width * int(format.BytesPerPixel),
		format: format,
		pixels: make([]byte, width*height*int(format.BytesPerPixel)),
		owns:   true,
	}
	s.MarkAllDirty()
	return s
}

// NewSubSurface creates a view into a region of owner's buffer. The view
// shares the owner's pixels; writes through either are visible to both.
// bounds must lie within the owner. The view starts with a copy of the
// owner's transparent color and palette.
func NewSubSurface(owner *Surface, bounds image.Rectangle) *Surface {
	// An empty rectangle is "in" every rectangle, so it must be rejected
	// explicitly before its origin is used to index the owner's buffer.
	if bounds.Empty() || !bounds.In(owner.Bounds()) {
		panic("graphics: sub-surface bounds empty or outside owner")
	}

	bpp := int(owner.format.BytesPerPixel)
	s := &Surface{
		w:      bounds.Dx(),
		h:      bounds.Dy(),
		pitch:  owner.pitch,
		format: owner.format,
		pixels: owner.pixels[bounds.Min.Y*owner.pitch+bounds.Min.X*bpp:],
		owner:  owner,
		offset: bounds.Min,

		transparentColor:    owner.transparentColor,
		transparentColorSet: owner.transparentColorSet,
	}
	if owner.palette != nil {
		s.palette = owner.palette.Clone()
	}
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.w }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.h }

// Pitch returns the number of bytes per row. It is at least
// Width()*BytesPerPixel and, for a view, equals the owner's pitch.
func (s *Surface) Pitch() int { return s.pitch }

// Format returns the surface pixel format.
func (s *Surface) Format() PixelFormat { return s.format }

// Bounds returns the surface rectangle anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

// Empty reports whether the surface has no pixels.
func (s *Surface) Empty() bool { return s.w == 0 || s.h == 0 || s.pixels == nil }

// IsView reports whether the surface is a view into another surface.
func (s *Surface) IsView() bool { return s.owner != nil }

// Pixels returns the raw pixel buffer. For a view the slice aliases the
// owner's memory starting at the view origin; rows are Pitch() bytes apart.
func (s *Surface) Pixels() []byte { return s.pixels }

// BasePtr returns the buffer starting at pixel (x, y).
func (s *Surface) BasePtr(x, y int) []byte {
	return s.pixels[y*s.pitch+x*int(s.format.BytesPerPixel):]
}

// PixelAt returns the raw pixel value at (x, y).
func (s *Surface) PixelAt(x, y int) uint32 {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		panic("graphics: pixel coordinates out of range")
	}
	return loadPixel(s.BasePtr(x, y), int(s.format.BytesPerPixel))
}

// SetPixelAt stores a raw pixel value at (x, y) and records a dirty rect.
func (s *Surface) SetPixelAt(x, y int, color uint32) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		panic("graphics: pixel coordinates out of range")
	}
	storePixel(s.BasePtr(x, y), int(s.format.BytesPerPixel), color)
	s.AddDirtyRect(image.Rect(x, y, x+1, y+1))
}

// ARGBAt decodes the pixel at (x, y) into components in [0,255]. Indexed
// surfaces resolve through their palette and decode as fully opaque.
func (s *Surface) ARGBAt(x, y int) (a, r, g, b uint8) {
	col := s.PixelAt(x, y)
	if s.format.IsCLUT8() {
		if !s.HasPalette() {
			panic("graphics: indexed surface has no palette")
		}
		r, g, b = s.palette.Get(int(col))
		return 0xff, r, g, b
	}
	return s.format.ColorToARGB(col)
}

// FillRect fills a rectangle with a raw pixel value. The rectangle is
// clipped to the surface; an empty result is a no-op.
func (s *Surface) FillRect(r image.Rectangle, color uint32) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}

	bpp := int(s.format.BytesPerPixel)
	row := s.BasePtr(r.Min.X, r.Min.Y)
	for x := 0; x < r.Dx(); x++ {
		storePixel(row[x*bpp:], bpp, color)
	}
	first := row[:r.Dx()*bpp]
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		copy(s.BasePtr(r.Min.X, y), first)
	}

	s.AddDirtyRect(r)
}

// Clear fills the entire surface with a raw pixel value.
func (s *Surface) Clear(color uint32) {
	if !s.Empty() {
		s.FillRect(s.Bounds(), color)
	}
}

// Free releases the pixel buffer of an owning surface, or detaches a view
// from its owner. The surface is left empty with no key or palette. Views
// of a freed owner must not be used again.
func (s *Surface) Free() {
	s.pixels = nil
	s.owns = false
	s.owner = nil
	s.offset = image.Point{}
	s.w, s.h, s.pitch = 0, 0, 0
	s.format = PixelFormat{}
	s.transparentColor = 0
	s.transparentColorSet = false
	s.palette = nil
	s.dirtyRects = nil
}

// Assign replaces the surface with the contents of src. When src owns its
// pixels the data is deep-copied into fresh storage; when src is a view
// only the reference metadata is copied, so the result is another view of
// the same owner. The key is copied and the palette deep-copied either way.
func (s *Surface) Assign(src *Surface) {
	if s == src {
		return
	}
	s.Free()

	if src.owns {
		bpp := int(src.format.BytesPerPixel)
		s.w, s.h, s.pitch = src.w, src.h, src.w*bpp
		s.format = src.format
		s.pixels = make([]byte, src.w*src.h*bpp)
		s.owns = true
		for y := 0; y < src.h; y++ {
			copy(s.pixels[y*s.pitch:(y+1)*s.pitch], src.BasePtr(0, y)[:src.w*bpp])
		}
		s.MarkAllDirty()
	} else {
		s.w, s.h, s.pitch = src.w, src.h, src.pitch
		s.format = src.format
		s.pixels = src.pixels
		s.owner = src.owner
		s.offset = src.offset
	}

	s.transparentColor = src.transparentColor
	s.transparentColorSet = src.transparentColorSet
	if src.palette != nil {
		s.palette = src.palette.Clone()
	}
}

// MoveFrom transfers src's buffer or view state into s and leaves src
// empty. No pixel data is copied.
func (s *Surface) MoveFrom(src *Surface) {
	if s == src {
		return
	}
	s.Free()

	s.w, s.h, s.pitch = src.w, src.h, src.pitch
	s.format = src.format
	s.pixels = src.pixels
	s.owns = src.owns
	s.owner = src.owner
	s.offset = src.offset
	s.transparentColor = src.transparentColor
	s.transparentColorSet = src.transparentColorSet
	s.palette = src.palette
	s.dirtyRects = src.dirtyRects

	src.pixels = nil
	src.owns = false
	src.owner = nil
	src.offset = image.Point{}
	src.w, src.h, src.pitch = 0, 0, 0
	src.format = PixelFormat{}
	src.transparentColor = 0
	src.transparentColorSet = false
	src.palette = nil
	src.dirtyRects = nil
}

// CopyFrom replaces the surface with a deep copy of src, always into
// freshly owned storage regardless of whether src owns its pixels, and
// marks everything dirty.
func (s *Surface) CopyFrom(src *Surface) {
	if s == src {
		s.MarkAllDirty()
		return
	}

	key, keySet := src.transparentColor, src.transparentColorSet
	pal := src.palette

	s.Free()

	bpp := int(src.format.BytesPerPixel)
	s.w, s.h, s.pitch = src.w, src.h, src.w*bpp
	s.format = src.format
	s.pixels = make([]byte, src.w*src.h*bpp)
	s.owns = true
	for y := 0; y < src.h; y++ {
		copy(s.pixels[y*s.pitch:(y+1)*s.pitch], src.BasePtr(0, y)[:src.w*bpp])
	}

	s.transparentColor, s.transparentColorSet = key, keySet
	if pal != nil {
		s.palette = pal.Clone()
	}
	s.MarkAllDirty()
}

// ConvertFrom replaces the surface with a copy of src converted to the
// given pixel format. An indexed source decodes through its palette;
// converting a direct-color source to an indexed format is not supported
// (quantize through convert helpers instead). The transparent color key is
// carried over unchanged; the palette is retained only when the target
// format is indexed.
func (s *Surface) ConvertFrom(src *Surface, format PixelFormat) {
	checkBytesPerPixel(format)

	srcPalette := src.palette
	key, keySet := src.transparentColor, src.transparentColorSet

	s.Free()

	bpp := int(format.BytesPerPixel)
	s.w, s.h, s.pitch = src.w, src.h, src.w*bpp
	s.format = format
	s.pixels = make([]byte, src.w*src.h*bpp)
	s.owns = true

	switch {
	case format == src.format:
		srcBpp := int(src.format.BytesPerPixel)
		for y := 0; y < src.h; y++ {
			copy(s.pixels[y*s.pitch:(y+1)*s.pitch], src.BasePtr(0, y)[:src.w*srcBpp])
		}
	case format.IsCLUT8():
		panic("graphics: cannot convert a direct-color surface to an indexed format")
	case src.format.IsCLUT8():
		if srcPalette == nil || srcPalette.Size() == 0 {
			panic("graphics: converting an indexed surface requires a palette")
		}
		m := convertPaletteToMap(srcPalette, format)
		for y := 0; y < src.h; y++ {
			srcRow := src.BasePtr(0, y)
			dstRow := s.pixels[y*s.pitch:]
			for x := 0; x < src.w; x++ {
				storePixel(dstRow[x*bpp:], bpp, m[srcRow[x]])
			}
		}
	default:
		srcBpp := int(src.format.BytesPerPixel)
		for y := 0; y < src.h; y++ {
			srcRow := src.BasePtr(0, y)
			dstRow := s.pixels[y*s.pitch:]
			for x := 0; x < src.w; x++ {
				a, r, g, b := src.format.ColorToARGB(loadPixel(srcRow[x*srcBpp:], srcBpp))
				storePixel(dstRow[x*bpp:], bpp, format.ARGBToColor(a, r, g, b))
			}
		}
	}

	s.transparentColor = key
	s.transparentColorSet = keySet
	if format.IsCLUT8() && srcPalette != nil {
		s.palette = srcPalette.Clone()
	}
	s.MarkAllDirty()
}

// SetTransparentColor sets the raw pixel value treated as fully transparent
// during keyed blits.
func (s *Surface) SetTransparentColor(color uint32) {
	s.transparentColor = color
	s.transparentColorSet = true
}

// TransparentColor returns the current color key.
func (s *Surface) TransparentColor() uint32 { return s.transparentColor }

// HasTransparentColor reports whether a color key is set.
func (s *Surface) HasTransparentColor() bool { return s.transparentColorSet }

// ClearTransparentColor removes the color key.
func (s *Surface) ClearTransparentColor() {
	s.transparentColor = 0
	s.transparentColorSet = false
}

// Palette returns the surface's palette, or nil. The palette belongs to
// this surface alone; it is deep-copied whenever the surface is copied.
func (s *Surface) Palette() *Palette { return s.palette }

// HasPalette reports whether the surface carries a non-empty palette.
func (s *Surface) HasPalette() bool {
	return s.palette != nil && s.palette.Size() > 0
}

// SetPalette copies num colors from packed RGB triples into the surface
// palette starting at index start. A view also forwards the change to its
// owner so both stay in sync.
func (s *Surface) SetPalette(colors []byte, start, num int) {
	if s.palette == nil {
		s.palette = NewPalette(PaletteCapacity)
	}
	s.palette.Set(colors, start, num)

	if s.owner != nil {
		s.owner.SetPalette(colors, start, num)
	}
}

// GrabPalette copies num colors from the surface palette into colors.
func (s *Surface) GrabPalette(colors []byte, start, num int) {
	if s.palette != nil {
		s.palette.Grab(colors, start, num)
	}
}

// ClearPalette removes the surface palette.
func (s *Surface) ClearPalette() { s.palette = nil }

// AddDirtyRect records a modified region. The rectangle is clipped to this
// surface's bounds; a view translates it by its offset and forwards it to
// the owner, while a root surface accumulates it for the display backend.
func (s *Surface) AddDirtyRect(r image.Rectangle) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	if s.owner != nil {
		s.owner.AddDirtyRect(r.Add(s.offset))
		return
	}
	s.dirtyRects = append(s.dirtyRects, r)
}

// MarkAllDirty records the whole surface as modified.
func (s *Surface) MarkAllDirty() {
	s.AddDirtyRect(s.Bounds())
}

// DirtyRects returns the rectangles modified since the last call to
// ClearDirtyRects. Only a root surface accumulates; a view always returns
// nil since its damage is forwarded to the owner.
func (s *Surface) DirtyRects() []image.Rectangle { return s.dirtyRects }

// ClearDirtyRects discards the accumulated dirty rectangles, normally after
// a display backend has consumed them.
func (s *Surface) ClearDirtyRects() { s.dirtyRects = s.dirtyRects[:0] }
