package emu

import "sync"

// PC keyboard register offsets
const (
	PCKeyDown     = 0 // character of the last key pressed, $FF after a release
	PCKeyUp       = 1 // character of the last key released, 0 after a press
	PCKeyScancode = 2 // PS/2 set 2 scancode of the last event
	pcKeyRegs     = 4
)

// Characters sent for keys without a printable character
const (
	PCCharReturn = 0x0D
	PCCharLeft   = 0xB0
	PCCharDown   = 0xB1
	PCCharRight  = 0xB2
	PCCharUp     = 0xB3
	PCCharDelete = 0xB4
)

// PCKeyboard is a four-byte register block the host fills with the last
// key event. The CPU may read and overwrite the registers freely.
type PCKeyboard struct {
	mu   sync.Mutex
	regs [pcKeyRegs]uint8
}

// NewPCKeyboard creates a PC keyboard device with all registers zero.
func NewPCKeyboard() *PCKeyboard {
	return &PCKeyboard{}
}

func (k *PCKeyboard) Name() string { return "PCVirtualKeyboard" }

func (k *PCKeyboard) Read(offset uint16) (uint8, error) {
	if offset >= pcKeyRegs {
		return 0, &UnmappedAddressError{Address: offset}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.regs[offset], nil
}

func (k *PCKeyboard) Write(offset uint16, value uint8) error {
	if offset >= pcKeyRegs {
		return &UnmappedAddressError{Address: offset, Write: true}
	}
	k.mu.Lock()
	k.regs[offset] = value
	k.mu.Unlock()
	return nil
}

// KeyEvent records a key press or release. ch is the already translated
// character, scancode the PS/2 code (0 if unknown).
func (k *PCKeyboard) KeyEvent(ch, scancode uint8, pressed bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if pressed {
		k.regs[PCKeyDown] = ch
		k.regs[PCKeyUp] = 0
	} else {
		k.regs[PCKeyDown] = 0xFF
		k.regs[PCKeyUp] = ch
	}
	k.regs[PCKeyScancode] = scancode
}
