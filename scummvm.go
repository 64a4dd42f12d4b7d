/*
Package scummvm is a library for converting and compositing game graphics
through an in-memory surface engine. The graphics subpackage holds the
surface model and blit operators; this package adds the presentation
surface and a batch asset converter on top.
*/
package scummvm

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lotharsm/scummvm/graphics"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
)

// Options controls how the Converter transforms each image.
type Options struct {
	// Format is the target pixel format.
	Format graphics.PixelFormat
	// Width and Height resize the image when nonzero; zero keeps the
	// original dimension.
	Width, Height int
	// Filter selects bilinear resampling instead of nearest-neighbor.
	Filter bool
	// PaletteSize caps the quantized palette for an indexed target.
	PaletteSize int
	// Dither applies Floyd-Steinberg dithering when quantizing.
	Dither bool
	// OutDir receives the converted files; empty writes next to the input
	// with a "-converted" suffix.
	OutDir string
}

// Converter batch-converts image assets through the graphics engine.
type Converter struct {
	opts   Options
	logger *log.Logger
}

// New returns a Converter with the given options and logger.
func New(opts Options, logger *log.Logger) *Converter {
	if opts.Format.BytesPerPixel == 0 {
		opts.Format = graphics.PixelFormatRGBA32
	}
	if opts.PaletteSize <= 0 || opts.PaletteSize > graphics.PaletteCapacity {
		opts.PaletteSize = graphics.PaletteCapacity
	}
	return &Converter{
		opts:   opts,
		logger: logger,
	}
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".bmp", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

func (c *Converter) outputPath(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if c.opts.OutDir != "" {
		return filepath.Join(c.opts.OutDir, base+".png")
	}
	return filepath.Join(filepath.Dir(file), base+"-converted.png")
}

// Convert converts a single image file and writes the result as PNG.
func (c *Converter) Convert(file string) error {
	in, err := os.Open(file)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", file, err)
	}

	surf := c.surfaceFor(img)

	out, err := os.Create(c.outputPath(file))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, surf.ToImage()); err != nil {
		return fmt.Errorf("encoding %s: %w", c.outputPath(file), err)
	}
	c.logger.Printf("Converted \"%s\" to \"%s\"\n", file, c.outputPath(file))
	return nil
}

func (c *Converter) surfaceFor(img image.Image) *graphics.Surface {
	var surf *graphics.Surface
	if c.opts.Format.IsCLUT8() {
		surf = graphics.FromImageIndexed(img, c.opts.PaletteSize, c.opts.Dither)
	} else {
		surf = graphics.FromImage(img, c.opts.Format)
	}

	w, h := c.opts.Width, c.opts.Height
	if w == 0 {
		w = surf.Width()
	}
	if h == 0 {
		h = surf.Height()
	}
	if w != surf.Width() || h != surf.Height() {
		surf = surf.Scale(w, h, c.opts.Filter)
	}
	return surf
}
