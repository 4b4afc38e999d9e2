package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emhomebrew/emu"
)

// matrixCell is a key's position in the 8x8 keyboard matrix.
type matrixCell struct {
	col, row int
}

// matrixKeys places host keys on the board's keyboard matrix. Several
// cells are shared by more than one host key; the board wires them that way.
var matrixKeys = map[ebiten.Key]matrixCell{
	ebiten.KeyBackspace:  {7, 0},
	ebiten.KeyEnter:      {7, 1},
	ebiten.KeyArrowLeft:  {7, 2},
	ebiten.KeyArrowUp:    {7, 3},
	ebiten.KeyF1:         {7, 4},
	ebiten.KeyF3:         {7, 5},
	ebiten.KeyF5:         {7, 6},
	ebiten.KeyF7:         {7, 7},
	ebiten.KeyArrowRight: {0, 2},
	ebiten.KeyArrowDown:  {0, 3},
	ebiten.KeyF2:         {0, 4},
	ebiten.KeyF4:         {0, 4},
	ebiten.KeyF6:         {0, 4},
	ebiten.KeyF8:         {0, 4},

	ebiten.KeyNumpadMultiply: {6, 1},
	ebiten.KeyBracketRight:   {6, 2},
	ebiten.KeySlash:          {6, 3},
	ebiten.KeyShiftRight:     {6, 4},
	ebiten.KeyEqual:          {6, 5},
	ebiten.KeyBackslash:      {6, 6},
	ebiten.KeyHome:           {6, 7},

	ebiten.KeyNumpadAdd:   {5, 0},
	ebiten.KeyP:           {5, 1},
	ebiten.KeyL:           {5, 2},
	ebiten.KeyComma:       {5, 3},
	ebiten.KeyPeriod:      {5, 4},
	ebiten.KeyBracketLeft: {5, 5},
	ebiten.KeyMinus:       {5, 7},

	ebiten.KeyDigit9: {4, 0},
	ebiten.KeyI:      {4, 1},
	ebiten.KeyJ:      {4, 2},
	ebiten.KeyN:      {4, 3},
	ebiten.KeyM:      {4, 4},
	ebiten.KeyK:      {4, 5},
	ebiten.KeyO:      {4, 6},
	ebiten.KeyDigit0: {4, 7},

	ebiten.KeyDigit7: {3, 0},
	ebiten.KeyY:      {3, 1},
	ebiten.KeyG:      {3, 2},
	ebiten.KeyV:      {3, 3},
	ebiten.KeyB:      {3, 4},
	ebiten.KeyH:      {3, 5},
	ebiten.KeyU:      {3, 6},
	ebiten.KeyDigit8: {3, 7},

	ebiten.KeyDigit5: {2, 0},
	ebiten.KeyR:      {2, 1},
	ebiten.KeyD:      {2, 2},
	ebiten.KeyX:      {2, 3},
	ebiten.KeyC:      {2, 4},
	ebiten.KeyF:      {2, 5},
	ebiten.KeyT:      {2, 6},
	ebiten.KeyQuote:  {2, 6},
	ebiten.KeyDigit6: {2, 7},

	ebiten.KeyDigit3:    {1, 0},
	ebiten.KeyW:         {1, 1},
	ebiten.KeyA:         {1, 2},
	ebiten.KeySemicolon: {1, 2},
	ebiten.KeyShiftLeft: {1, 3},
	ebiten.KeyZ:         {1, 4},
	ebiten.KeyS:         {1, 5},
	ebiten.KeyE:         {1, 6},
	ebiten.KeyDigit4:    {1, 7},

	ebiten.KeyDigit1:      {0, 0},
	ebiten.KeyBackquote:   {0, 1},
	ebiten.KeyControlLeft: {0, 2},
	ebiten.KeyEscape:      {0, 3},
	ebiten.KeySpace:       {0, 4},
	ebiten.KeyQ:           {0, 6},
	ebiten.KeyDigit2:      {0, 7},
}

// scancodes holds PS/2 set 2 make codes. Arrow keys and Delete carry the
// same private codes as their characters.
var scancodes = map[ebiten.Key]uint8{
	ebiten.KeyA: 0x1C, ebiten.KeyB: 0x32, ebiten.KeyC: 0x21, ebiten.KeyD: 0x23,
	ebiten.KeyE: 0x24, ebiten.KeyF: 0x2B, ebiten.KeyG: 0x34, ebiten.KeyH: 0x33,
	ebiten.KeyI: 0x43, ebiten.KeyJ: 0x3B, ebiten.KeyK: 0x42, ebiten.KeyL: 0x4B,
	ebiten.KeyM: 0x3A, ebiten.KeyN: 0x31, ebiten.KeyO: 0x44, ebiten.KeyP: 0x4D,
	ebiten.KeyQ: 0x15, ebiten.KeyR: 0x2D, ebiten.KeyS: 0x1B, ebiten.KeyT: 0x2C,
	ebiten.KeyU: 0x3C, ebiten.KeyV: 0x2A, ebiten.KeyW: 0x1D, ebiten.KeyX: 0x22,
	ebiten.KeyY: 0x35, ebiten.KeyZ: 0x1A,

	ebiten.KeyDigit1: 0x16, ebiten.KeyDigit2: 0x1E, ebiten.KeyDigit3: 0x26,
	ebiten.KeyDigit4: 0x25, ebiten.KeyDigit5: 0x2E, ebiten.KeyDigit6: 0x36,
	ebiten.KeyDigit7: 0x3D, ebiten.KeyDigit8: 0x3E, ebiten.KeyDigit9: 0x46,
	ebiten.KeyDigit0: 0x45,

	ebiten.KeyF1: 0x05, ebiten.KeyF2: 0x06, ebiten.KeyF3: 0x04, ebiten.KeyF4: 0x0C,
	ebiten.KeyF5: 0x03, ebiten.KeyF6: 0x0B, ebiten.KeyF7: 0x02, ebiten.KeyF8: 0x0A,
	ebiten.KeyF9: 0x01, ebiten.KeyF10: 0x09, ebiten.KeyF11: 0x78, ebiten.KeyF12: 0x07,

	ebiten.KeySpace:        0x29,
	ebiten.KeyTab:          0x0D,
	ebiten.KeyBackquote:    0x0E,
	ebiten.KeyComma:        0x41,
	ebiten.KeyPeriod:       0x49,
	ebiten.KeySlash:        0x4A,
	ebiten.KeySemicolon:    0x4C,
	ebiten.KeyMinus:        0x4E,
	ebiten.KeyQuote:        0x52,
	ebiten.KeyBracketLeft:  0x54,
	ebiten.KeyEqual:        0x55,
	ebiten.KeyCapsLock:     0x58,
	ebiten.KeyEnter:        0x5A,
	ebiten.KeyBracketRight: 0x5B,
	ebiten.KeyBackslash:    0x5D,
	ebiten.KeyBackspace:    0x66,
	ebiten.KeyEscape:       0x76,

	ebiten.KeyArrowLeft:  emu.PCCharLeft,
	ebiten.KeyArrowDown:  emu.PCCharDown,
	ebiten.KeyArrowRight: emu.PCCharRight,
	ebiten.KeyArrowUp:    emu.PCCharUp,
	ebiten.KeyDelete:     emu.PCCharDelete,
}

// shifted maps unshifted US layout punctuation to its shifted character.
var shifted = map[byte]byte{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', ',': '<', '.': '>', '/': '?', '`': '~',
}

var punctuation = map[ebiten.Key]byte{
	ebiten.KeySpace:          ' ',
	ebiten.KeyMinus:          '-',
	ebiten.KeyEqual:          '=',
	ebiten.KeyBracketLeft:    '[',
	ebiten.KeyBracketRight:   ']',
	ebiten.KeyBackslash:      '\\',
	ebiten.KeySemicolon:      ';',
	ebiten.KeyQuote:          '\'',
	ebiten.KeyComma:          ',',
	ebiten.KeyPeriod:         '.',
	ebiten.KeySlash:          '/',
	ebiten.KeyBackquote:      '`',
	ebiten.KeyNumpadAdd:      '+',
	ebiten.KeyNumpadMultiply: '*',
}

// MatrixCell returns the matrix position of key.
func MatrixCell(key ebiten.Key) (col, row int, ok bool) {
	c, ok := matrixKeys[key]
	return c.col, c.row, ok
}

// Scancode returns the PS/2 scancode of key, 0 if it has none.
func Scancode(key ebiten.Key) uint8 {
	return scancodes[key]
}

// KeyChar returns the character the PC keyboard reports for key.
func KeyChar(key ebiten.Key, shift bool) (uint8, bool) {
	switch {
	case key >= ebiten.KeyA && key <= ebiten.KeyZ:
		ch := byte('a' + (key - ebiten.KeyA))
		if shift {
			ch -= 'a' - 'A'
		}
		return ch, true
	case key >= ebiten.KeyDigit0 && key <= ebiten.KeyDigit9:
		ch := byte('0' + (key - ebiten.KeyDigit0))
		if shift {
			ch = shifted[ch]
		}
		return ch, true
	}

	switch key {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return emu.PCCharReturn, true
	case ebiten.KeyArrowLeft:
		return emu.PCCharLeft, true
	case ebiten.KeyArrowDown:
		return emu.PCCharDown, true
	case ebiten.KeyArrowRight:
		return emu.PCCharRight, true
	case ebiten.KeyArrowUp:
		return emu.PCCharUp, true
	case ebiten.KeyDelete:
		return emu.PCCharDelete, true
	case ebiten.KeyBackspace:
		return 0x08, true
	case ebiten.KeyTab:
		return 0x09, true
	case ebiten.KeyEscape:
		return 0x1B, true
	}

	ch, ok := punctuation[key]
	if !ok {
		return 0, false
	}
	if s, ok := shifted[ch]; ok && shift {
		ch = s
	}
	return ch, true
}
