package emu

import "sync"

// KeyMatrix holds the 8x8 keyboard matrix. Each column is one byte with one
// bit per row, active low: 0 = pressed, the power-on state is all 1s.
type KeyMatrix struct {
	mu   sync.Mutex
	cols [8]uint8
}

// NewKeyMatrix creates a matrix with no keys pressed.
func NewKeyMatrix() *KeyMatrix {
	m := &KeyMatrix{}
	m.Release()
	return m
}

// SetKey presses or releases the key at (col, row). Out of range positions
// are ignored.
func (m *KeyMatrix) SetKey(col, row int, pressed bool) {
	if col < 0 || col > 7 || row < 0 || row > 7 {
		return
	}
	m.mu.Lock()
	if pressed {
		m.cols[col] &^= 1 << uint(row)
	} else {
		m.cols[col] |= 1 << uint(row)
	}
	m.mu.Unlock()
}

// Column returns the active-low row bits of column col.
func (m *KeyMatrix) Column(col int) uint8 {
	if col < 0 || col > 7 {
		return 0xFF
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cols[col]
}

// Scan returns the AND of every column whose strobe bit is low, i.e. the
// rows pressed in any selected column read 0.
func (m *KeyMatrix) Scan(strobe uint8) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := uint8(0xFF)
	for c := 0; c < 8; c++ {
		if strobe&(1<<uint(c)) == 0 {
			state &= m.cols[c]
		}
	}
	return state
}

// Release releases all keys.
func (m *KeyMatrix) Release() {
	m.mu.Lock()
	for i := range m.cols {
		m.cols[i] = 0xFF
	}
	m.mu.Unlock()
}
