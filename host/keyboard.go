package host

import (
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/user-none/emhomebrew/emu"
)

// KeyboardMode selects which board device receives host key events.
type KeyboardMode int

const (
	KeyboardVIA KeyboardMode = iota
	KeyboardPC
)

// ParseKeyboardMode maps the config names "via" and "pc" to a mode.
func ParseKeyboardMode(s string) (KeyboardMode, bool) {
	switch s {
	case "via":
		return KeyboardVIA, true
	case "pc":
		return KeyboardPC, true
	}
	return KeyboardVIA, false
}

// Keyboard routes host key events to the key matrix or the PC keyboard.
type Keyboard struct {
	mode     KeyboardMode
	matrix   *emu.KeyMatrix
	pc       *emu.PCKeyboard
	pressed  []ebiten.Key
	released []ebiten.Key
}

// NewKeyboard creates a router delivering to matrix or pc depending on mode.
func NewKeyboard(mode KeyboardMode, matrix *emu.KeyMatrix, pc *emu.PCKeyboard) *Keyboard {
	return &Keyboard{
		mode:   mode,
		matrix: matrix,
		pc:     pc,
	}
}

// Mode returns the active routing.
func (k *Keyboard) Mode() KeyboardMode { return k.mode }

// Poll forwards this tick's key transitions. Presses of the consumed keys
// are dropped; releases are always forwarded.
func (k *Keyboard) Poll(consumed ...ebiten.Key) {
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	k.pressed = inpututil.AppendJustPressedKeys(k.pressed[:0])
	k.released = inpututil.AppendJustReleasedKeys(k.released[:0])
	k.deliver(k.pressed, k.released, shift, consumed)
}

func (k *Keyboard) deliver(pressed, released []ebiten.Key, shift bool, consumed []ebiten.Key) {
	for _, key := range pressed {
		if slices.Contains(consumed, key) {
			continue
		}
		k.KeyEvent(key, shift, true)
	}
	for _, key := range released {
		k.KeyEvent(key, shift, false)
	}
}

// KeyEvent delivers one key transition. It reports whether the key had a
// mapping for the active device; unmapped keys are logged on every press.
func (k *Keyboard) KeyEvent(key ebiten.Key, shift, pressed bool) bool {
	switch k.mode {
	case KeyboardPC:
		ch, ok := KeyChar(key, shift)
		if !ok {
			// Modifiers are consumed silently
			if isModifier(key) {
				return false
			}
			k.warn(key, pressed)
			return false
		}
		k.pc.KeyEvent(ch, Scancode(key), pressed)
		return true
	default:
		col, row, ok := MatrixCell(key)
		if !ok {
			k.warn(key, pressed)
			return false
		}
		k.matrix.SetKey(col, row, pressed)
		return true
	}
}

func (k *Keyboard) warn(key ebiten.Key, pressed bool) {
	if pressed {
		log.Printf("unmapped key %s", key)
	}
}

func isModifier(key ebiten.Key) bool {
	switch key {
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight,
		ebiten.KeyControlLeft, ebiten.KeyControlRight,
		ebiten.KeyAltLeft, ebiten.KeyAltRight,
		ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return true
	}
	return false
}
