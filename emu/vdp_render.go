package emu

// Screen geometry
const (
	ScreenWidth     = 256
	TextScreenWidth = 240
	ScreenHeight    = 192
	BorderSize      = 8

	FrameHeight = ScreenHeight + 2*BorderSize
)

// renderConfig is the slice of VDP configuration a render pass needs. It is
// refreshed only when the VDP version changes.
type renderConfig struct {
	mode          DisplayMode
	tables        TableAddresses
	fg, bg        uint8
	spriteLarge   bool
	spriteMagnify bool
}

// Renderer builds full frames from VDP state. Planes hold color indices;
// the palette is applied when the planes are composed into the frame.
type Renderer struct {
	palette Palette

	cfg     renderConfig
	version uint64
	synced  bool

	width        int     // active area width: 256, or 240 in text mode
	patternPlane []uint8 // width x ScreenHeight
	spritePlane  []uint8 // ScreenWidth x ScreenHeight, spriteNone = empty
	frame        []uint32

	// Sprite scratch reused across frames
	sprites      []spriteEntry
	lineCount    [ScreenHeight]uint8
	lineOverflow [ScreenHeight]int8
}

// NewRenderer creates a renderer using palette p.
func NewRenderer(p Palette) *Renderer {
	r := &Renderer{
		palette:     p,
		spritePlane: make([]uint8, ScreenWidth*ScreenHeight),
		sprites:     make([]spriteEntry, 0, maxSprites),
	}
	r.clearSprites()
	r.setWidth(ScreenWidth)
	return r
}

// frameStatus collects status register effects of one pass. They are
// applied to the VDP only if the pass completes.
type frameStatus struct {
	collision   bool
	fifth       bool
	fifthSprite int
}

func (s *frameStatus) fifthSpriteAt(i int) {
	if !s.fifth {
		s.fifth = true
		s.fifthSprite = i
	}
}

// Render draws one frame from v and returns it as row-major 0xAARRGGBB
// pixels, Width() x Height(). The VDP is locked for the whole pass. If a
// table lookup falls outside VRAM the pass is abandoned: the error is
// returned together with the previous frame and no status bits change.
func (r *Renderer) Render(v *VDP) ([]uint32, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !r.synced || v.version != r.version {
		r.sync(v)
	}

	var st frameStatus
	if err := r.renderPatterns(v); err != nil {
		r.clearSprites()
		return r.frame, err
	}
	if r.cfg.mode != ModeText {
		if err := r.renderSprites(v, &st); err != nil {
			r.clearSprites()
			return r.frame, err
		}
	}

	r.compose()
	r.clearSprites()

	if st.collision {
		v.status |= StatusCollision
	}
	if st.fifth {
		v.setFifthSprite(st.fifthSprite)
	}
	return r.frame, nil
}

// Frame returns the most recently rendered frame.
func (r *Renderer) Frame() []uint32 { return r.frame }

// Width returns the frame width including the border.
func (r *Renderer) Width() int { return r.width + 2*BorderSize }

// Height returns the frame height including the border.
func (r *Renderer) Height() int { return FrameHeight }

// CopyRGBA writes the current frame into dst as 8-bit RGBA and returns the
// number of bytes written.
func (r *Renderer) CopyRGBA(dst []byte) int {
	n := 0
	for _, px := range r.frame {
		if n+4 > len(dst) {
			break
		}
		dst[n] = uint8(px >> 16)
		dst[n+1] = uint8(px >> 8)
		dst[n+2] = uint8(px)
		dst[n+3] = uint8(px >> 24)
		n += 4
	}
	return n
}

// sync picks up a configuration change. Caller holds the VDP lock.
func (r *Renderer) sync(v *VDP) {
	cfg := renderConfig{
		mode:          v.mode,
		tables:        v.tables(),
		fg:            v.fgColor,
		bg:            v.bgColor,
		spriteLarge:   v.spriteLarge,
		spriteMagnify: v.spriteMagnify,
	}
	modeChanged := !r.synced || cfg.mode != r.cfg.mode
	r.cfg = cfg
	r.version = v.version
	r.synced = true

	if modeChanged {
		if cfg.mode == ModeText {
			r.setWidth(TextScreenWidth)
		} else {
			r.setWidth(ScreenWidth)
		}
		for i := range r.patternPlane {
			r.patternPlane[i] = 0
		}
	}
}

func (r *Renderer) setWidth(w int) {
	if r.width == w && r.frame != nil {
		return
	}
	r.width = w
	r.patternPlane = make([]uint8, w*ScreenHeight)
	r.frame = make([]uint32, (w+2*BorderSize)*FrameHeight)
	backdrop := r.palette.Color(r.cfg.bg)
	for i := range r.frame {
		r.frame[i] = backdrop
	}
}

func (r *Renderer) renderPatterns(v *VDP) error {
	switch r.cfg.mode {
	case ModeGraphicsI:
		return r.renderGraphicsI(v)
	case ModeGraphicsII:
		return r.renderGraphicsII(v)
	case ModeText:
		return r.renderText(v)
	case ModeMulticolor:
		return r.renderMulticolor(v)
	}
	// Undefined mode combinations leave the pattern plane as it is
	return nil
}

// putBits expands the top n bits of a pattern byte into the pattern plane.
func (r *Renderer) putBits(x, y int, bits uint8, n int, fg, bg uint8) {
	off := y*r.width + x
	for p := 0; p < n; p++ {
		if bits&(0x80>>uint(p)) != 0 {
			r.patternPlane[off+p] = fg
		} else {
			r.patternPlane[off+p] = bg
		}
	}
}

// renderGraphicsI draws 32x24 8x8 glyphs. One color byte per group of
// eight patterns.
func (r *Renderer) renderGraphicsI(v *VDP) error {
	t := r.cfg.tables
	for name := 0; name < 32*24; name++ {
		pat, err := v.readVRAM(int(t.Name) + name)
		if err != nil {
			return err
		}
		color, err := v.readVRAM(int(t.Color) + int(pat>>3))
		if err != nil {
			return err
		}
		x, y := (name%32)*8, (name/32)*8
		for row := 0; row < 8; row++ {
			bits, err := v.readVRAM(int(t.Pattern) + int(pat)*8 + row)
			if err != nil {
				return err
			}
			r.putBits(x, y+row, bits, 8, color>>4, color&0x0F)
		}
	}
	return nil
}

// renderGraphicsII draws 32x24 glyphs where each third of the screen has its
// own 256 patterns and a color byte per pattern row.
func (r *Renderer) renderGraphicsII(v *VDP) error {
	t := r.cfg.tables
	for name := 0; name < 32*24; name++ {
		pat, err := v.readVRAM(int(t.Name) + name)
		if err != nil {
			return err
		}
		section := (name / 256) * 0x800
		x, y := (name%32)*8, (name/32)*8
		for row := 0; row < 8; row++ {
			off := section + int(pat)*8 + row
			bits, err := v.readVRAM(int(t.Pattern) + off)
			if err != nil {
				return err
			}
			color, err := v.readVRAM(int(t.Color) + off)
			if err != nil {
				return err
			}
			r.putBits(x, y+row, bits, 8, color>>4, color&0x0F)
		}
	}
	return nil
}

// renderText draws 40x24 6x8 glyphs in the register 7 colors.
func (r *Renderer) renderText(v *VDP) error {
	t := r.cfg.tables
	for name := 0; name < 40*24; name++ {
		pat, err := v.readVRAM(int(t.Name) + name)
		if err != nil {
			return err
		}
		x, y := (name%40)*6, (name/40)*8
		for row := 0; row < 8; row++ {
			bits, err := v.readVRAM(int(t.Pattern) + int(pat)*8 + row)
			if err != nil {
				return err
			}
			r.putBits(x, y+row, bits, 6, r.cfg.fg, r.cfg.bg)
		}
	}
	return nil
}

// renderMulticolor draws 64x48 4x4 blocks. Each name selects a pattern
// whose byte pair for this character row gives the colors of its four
// blocks: first byte top half, second byte bottom half, high nibble left.
func (r *Renderer) renderMulticolor(v *VDP) error {
	t := r.cfg.tables
	for name := 0; name < 32*24; name++ {
		pat, err := v.readVRAM(int(t.Name) + name)
		if err != nil {
			return err
		}
		pair := ((name / 32) % 4) * 2
		x, y := (name%32)*8, (name/32)*8
		for half := 0; half < 2; half++ {
			color, err := v.readVRAM(int(t.Pattern) + int(pat)*8 + pair + half)
			if err != nil {
				return err
			}
			left, right := color>>4, color&0x0F
			for row := 0; row < 4; row++ {
				off := (y+half*4+row)*r.width + x
				for p := 0; p < 4; p++ {
					r.patternPlane[off+p] = left
					r.patternPlane[off+4+p] = right
				}
			}
		}
	}
	return nil
}

// compose builds the frame: sprite over pattern over backdrop, inside a
// backdrop-colored border. Color 0 is transparent on both planes.
func (r *Renderer) compose() {
	fw := r.width + 2*BorderSize
	if len(r.frame) != fw*FrameHeight {
		r.frame = make([]uint32, fw*FrameHeight)
	}
	backdrop := r.palette.Color(r.cfg.bg)

	for y := 0; y < FrameHeight; y++ {
		row := r.frame[y*fw : (y+1)*fw]
		sy := y - BorderSize
		if sy < 0 || sy >= ScreenHeight {
			for x := range row {
				row[x] = backdrop
			}
			continue
		}
		for x := range row {
			sx := x - BorderSize
			if sx < 0 || sx >= r.width {
				row[x] = backdrop
				continue
			}
			c := backdrop
			if s := r.spritePlane[sy*ScreenWidth+sx]; s != spriteNone && s != 0 {
				c = r.palette.Color(s)
			} else if p := r.patternPlane[sy*r.width+sx]; p != 0 {
				c = r.palette.Color(p)
			}
			row[x] = c
		}
	}
}
