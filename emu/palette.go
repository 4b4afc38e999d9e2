package emu

// Palette maps the 16 TMS9918A color indices to packed 0xAARRGGBB pixels.
type Palette [16]uint32

// packRGB packs an opaque color.
func packRGB(r, g, b uint8) uint32 {
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// DefaultPalette is the TMS9918A color set. Index 0 is "transparent" to
// the VDP planes; when it reaches the output it shows as black.
var DefaultPalette = Palette{
	packRGB(0x00, 0x00, 0x00), // transparent
	packRGB(0x00, 0x00, 0x00), // black
	packRGB(0x40, 0xB6, 0x4A), // medium green
	packRGB(0x73, 0xCE, 0x7C), // light green
	packRGB(0x59, 0x55, 0xDF), // dark blue
	packRGB(0x7E, 0x75, 0xF0), // light blue
	packRGB(0xB7, 0x5E, 0x51), // dark red
	packRGB(0x64, 0xDA, 0xEE), // cyan
	packRGB(0xD9, 0x64, 0x59), // medium red
	packRGB(0xFE, 0x87, 0x7C), // light red
	packRGB(0xCA, 0xC1, 0x5E), // dark yellow
	packRGB(0xDD, 0xCE, 0x85), // light yellow
	packRGB(0x3C, 0xA0, 0x42), // dark green
	packRGB(0xB5, 0x65, 0xB3), // magenta
	packRGB(0xCA, 0xCA, 0xCA), // gray
	packRGB(0xFF, 0xFF, 0xFF), // white
}

// Color returns the packed pixel for color index i (low nibble).
func (p *Palette) Color(i uint8) uint32 {
	return p[i&0x0F]
}
