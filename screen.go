package scummvm

import (
	"image"

	"github.com/lotharsm/scummvm/graphics"
)

// Backend presents finished frame regions. UpdateRects receives the root
// surface and the regions modified since the previous call.
type Backend interface {
	UpdateRects(surf *graphics.Surface, rects []image.Rectangle) error
}

// Screen is the root presentation surface. Rendering happens through the
// embedded surface (directly or through sub-surface views); Update hands
// the accumulated dirty regions to the backend and clears them.
type Screen struct {
	*graphics.Surface
	backend Backend
}

// NewScreen allocates a screen of the given size and format attached to a
// backend.
func NewScreen(width, height int, format graphics.PixelFormat, backend Backend) *Screen {
	return &Screen{
		Surface: graphics.NewSurface(width, height, format),
		backend: backend,
	}
}

// mergeDirtyRects unions overlapping rectangles so the backend is not
// handed the same pixels twice.
func mergeDirtyRects(rects []image.Rectangle) []image.Rectangle {
	merged := append([]image.Rectangle(nil), rects...)
	for i := 0; i < len(merged); i++ {
		for j := i + 1; j < len(merged); j++ {
			if merged[i].Overlaps(merged[j]) {
				merged[i] = merged[i].Union(merged[j])
				merged = append(merged[:j], merged[j+1:]...)
				// Restart the inner scan, the union may now overlap
				// earlier survivors.
				j = i
			}
		}
	}
	return merged
}

// Update presents the regions modified since the last call. A frame with
// no damage does not touch the backend. The dirty list is cleared only
// after the backend succeeds, so a failed present is retried by the next
// call.
func (s *Screen) Update() error {
	rects := s.DirtyRects()
	if len(rects) == 0 {
		return nil
	}

	if err := s.backend.UpdateRects(s.Surface, mergeDirtyRects(rects)); err != nil {
		return err
	}
	s.ClearDirtyRects()
	return nil
}

// UpdateFull presents the whole frame regardless of recorded damage.
func (s *Screen) UpdateFull() error {
	s.MarkAllDirty()
	return s.Update()
}

// ImageBackend renders presented regions into an in-memory RGBA image,
// for headless use and tests.
type ImageBackend struct {
	img *image.RGBA
}

// NewImageBackend returns an empty image backend; the image is allocated
// on the first present.
func NewImageBackend() *ImageBackend {
	return &ImageBackend{}
}

// Image returns the rendered frame, or nil before the first present.
func (b *ImageBackend) Image() *image.RGBA { return b.img }

// UpdateRects copies the given regions of surf into the backing image,
// decoding each pixel through the surface format (and palette, for
// indexed surfaces).
func (b *ImageBackend) UpdateRects(surf *graphics.Surface, rects []image.Rectangle) error {
	if b.img == nil || b.img.Bounds() != surf.Bounds() {
		b.img = image.NewRGBA(surf.Bounds())
	}

	for _, r := range rects {
		r = r.Intersect(surf.Bounds())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				a, cr, cg, cb := surf.ARGBAt(x, y)
				i := b.img.PixOffset(x, y)
				b.img.Pix[i+0] = cr
				b.img.Pix[i+1] = cg
				b.img.Pix[i+2] = cb
				b.img.Pix[i+3] = a
			}
		}
	}
	return nil
}
