package emu

const (
	maxSprites       = 32
	spritesPerLine   = 4
	spriteTerminator = 0xD0

	// spriteNone marks a sprite plane cell nothing was drawn to
	spriteNone = 0xFF
)

// spriteEntry is one decoded sprite attribute table entry.
type spriteEntry struct {
	index int
	x, y  int
	name  uint8
	color uint8
}

// spriteY converts the raw vertical position: values past the terminator
// are negative, and the sprite appears one line below the stored value.
func spriteY(raw uint8) int {
	y := int(raw)
	if raw > spriteTerminator {
		y -= 256
	}
	return y + 1
}

func (r *Renderer) clearSprites() {
	for i := range r.spritePlane {
		r.spritePlane[i] = spriteNone
	}
}

// renderSprites scans the attribute table, applies the four-per-line limit
// in priority order, then draws from the lowest priority sprite up.
func (r *Renderer) renderSprites(v *VDP, st *frameStatus) error {
	size := 8
	if r.cfg.spriteLarge {
		size = 16
	}
	mag := 1
	if r.cfg.spriteMagnify {
		mag = 2
	}
	height := size * mag

	for i := range r.lineCount {
		r.lineCount[i] = 0
		r.lineOverflow[i] = -1
	}

	sat := int(r.cfg.tables.SpriteAttr)
	r.sprites = r.sprites[:0]
	for i := 0; i < maxSprites; i++ {
		base := sat + i*4
		rawY, err := v.readVRAM(base)
		if err != nil {
			return err
		}
		if rawY == spriteTerminator {
			break
		}
		x, err := v.readVRAM(base + 1)
		if err != nil {
			return err
		}
		name, err := v.readVRAM(base + 2)
		if err != nil {
			return err
		}
		color, err := v.readVRAM(base + 3)
		if err != nil {
			return err
		}

		e := spriteEntry{index: i, x: int(x), y: spriteY(rawY), name: name, color: color & 0x0F}
		if color&0x80 != 0 {
			e.x -= 32
		}

		for line := e.y; line < e.y+height; line++ {
			if line < 0 || line >= ScreenHeight {
				continue
			}
			r.lineCount[line]++
			if r.lineCount[line] > spritesPerLine && r.lineOverflow[line] < 0 {
				r.lineOverflow[line] = int8(i)
				st.fifthSpriteAt(i)
			}
		}
		r.sprites = append(r.sprites, e)
	}

	for j := len(r.sprites) - 1; j >= 0; j-- {
		if err := r.drawSprite(v, r.sprites[j], mag, st); err != nil {
			return err
		}
	}
	return nil
}

// drawSprite draws one sprite into the sprite plane. Large sprites are four
// 8x8 blocks laid out [0 2; 1 3].
func (r *Renderer) drawSprite(v *VDP, e spriteEntry, mag int, st *frameStatus) error {
	blocks := 1
	name := int(e.name)
	if r.cfg.spriteLarge {
		blocks = 4
		name &^= 3
	}
	base := int(r.cfg.tables.SpritePattern) + name*8

	for block := 0; block < blocks; block++ {
		bx := e.x + (block&2)*4*mag
		by := e.y + (block&1)*8*mag
		for row := 0; row < 8; row++ {
			bits, err := v.readVRAM(base + block*8 + row)
			if err != nil {
				return err
			}
			if bits == 0 {
				continue
			}
			for dy := 0; dy < mag; dy++ {
				sy := by + row*mag + dy
				if sy < 0 || sy >= ScreenHeight {
					continue
				}
				// Sprites from the fifth on this line are not shown
				if ov := r.lineOverflow[sy]; ov >= 0 && e.index >= int(ov) {
					continue
				}
				r.drawSpriteRow(bx, sy, bits, mag, e.color, st)
			}
		}
	}
	return nil
}

func (r *Renderer) drawSpriteRow(x, sy int, bits uint8, mag int, color uint8, st *frameStatus) {
	line := r.spritePlane[sy*ScreenWidth : (sy+1)*ScreenWidth]
	for p := 0; p < 8; p++ {
		if bits&(0x80>>uint(p)) == 0 {
			continue
		}
		for dx := 0; dx < mag; dx++ {
			sx := x + p*mag + dx
			if sx < 0 || sx >= ScreenWidth {
				continue
			}
			if line[sx] != spriteNone {
				st.collision = true
				// A transparent sprite does not hide the one below it
				if color == 0 {
					continue
				}
			}
			line[sx] = color
		}
	}
}
