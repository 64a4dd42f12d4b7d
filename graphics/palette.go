package graphics

// PaletteCapacity is the maximum number of colors a palette can hold.
const PaletteCapacity = 256

// Palette is an ordered table of up to 256 RGB triples. It is a value
// object: surfaces always hold their own copy, so editing one palette never
// affects another surface.
type Palette struct {
	colors [PaletteCapacity * 3]byte
	size   int
}

// NewPalette returns a zeroed palette holding size colors.
func NewPalette(size int) *Palette {
	if size < 0 || size > PaletteCapacity {
		panic("graphics: palette size out of range")
	}
	return &Palette{size: size}
}

// Size returns the number of colors in the palette.
func (p *Palette) Size() int {
	return p.size
}

// Data returns the raw palette bytes, three per color.
func (p *Palette) Data() []byte {
	return p.colors[:p.size*3]
}

// Set copies num colors from the packed RGB triples in colors, starting at
// palette index start. The palette grows to cover the written range.
func (p *Palette) Set(colors []byte, start, num int) {
	if start < 0 || num < 0 || start+num > PaletteCapacity {
		panic("graphics: palette range out of bounds")
	}
	copy(p.colors[start*3:(start+num)*3], colors[:num*3])
	if start+num > p.size {
		p.size = start + num
	}
}

// Grab copies num colors starting at index start into colors as packed RGB
// triples.
func (p *Palette) Grab(colors []byte, start, num int) {
	if start < 0 || num < 0 || start+num > PaletteCapacity {
		panic("graphics: palette range out of bounds")
	}
	copy(colors[:num*3], p.colors[start*3:(start+num)*3])
}

// Get returns the color stored at index i.
func (p *Palette) Get(i int) (r, g, b uint8) {
	if i < 0 || i >= p.size {
		panic("graphics: palette index out of range")
	}
	return p.colors[i*3], p.colors[i*3+1], p.colors[i*3+2]
}

// SetColor stores a single color at index i.
func (p *Palette) SetColor(i int, r, g, b uint8) {
	if i < 0 || i >= PaletteCapacity {
		panic("graphics: palette index out of range")
	}
	p.colors[i*3] = r
	p.colors[i*3+1] = g
	p.colors[i*3+2] = b
	if i >= p.size {
		p.size = i + 1
	}
}

// Clone returns an independent copy of the palette.
func (p *Palette) Clone() *Palette {
	dup := *p
	return &dup
}

// FindBestColor returns the palette index whose color minimizes the squared
// RGB distance to the given color. An identical triple returns immediately;
// ties are broken by the lowest index.
func (p *Palette) FindBestColor(r, g, b uint8) uint8 {
	best := 0
	bestDist := uint32(1<<32 - 1)
	for i := 0; i < p.size; i++ {
		pr := p.colors[i*3]
		pg := p.colors[i*3+1]
		pb := p.colors[i*3+2]
		if pr == r && pg == g && pb == b {
			return uint8(i)
		}
		dr := int32(pr) - int32(r)
		dg := int32(pg) - int32(g)
		db := int32(pb) - int32(b)
		dist := uint32(dr*dr + dg*dg + db*db)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return uint8(best)
}

// paletteLookup precomputes, for every source index, the best-matching
// destination index. An index whose color is identical in both palettes
// maps to itself. Returns nil when either palette is empty.
func paletteLookup(srcPalette, dstPalette *Palette) []byte {
	if srcPalette == nil || dstPalette == nil || srcPalette.size == 0 || dstPalette.size == 0 {
		return nil
	}

	lookup := make([]byte, srcPalette.size)
	for i := 0; i < srcPalette.size; i++ {
		r, g, b := srcPalette.Get(i)
		if i < dstPalette.size {
			dr, dg, db := dstPalette.Get(i)
			if r == dr && g == dg && b == db {
				lookup[i] = uint8(i)
				continue
			}
		}
		lookup[i] = dstPalette.FindBestColor(r, g, b)
	}
	return lookup
}

// convertPaletteToMap pre-encodes every palette entry in the given direct
// color format, so indexed sources can be blitted with a table lookup per
// pixel instead of a decode/encode pair.
func convertPaletteToMap(pal *Palette, format PixelFormat) [PaletteCapacity]uint32 {
	var m [PaletteCapacity]uint32
	for i := 0; i < pal.size; i++ {
		r, g, b := pal.Get(i)
		m[i] = format.RGBToColor(r, g, b)
	}
	return m
}
