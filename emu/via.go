package emu

import "sync"

// VIA register offsets
const (
	ViaORB = iota
	ViaORA
	ViaDDRB
	ViaDDRA
	ViaT1CL
	ViaT1CH
	ViaT1LL
	ViaT1LH
	ViaT2CL
	ViaT2CH
	ViaSR
	ViaACR
	ViaPCR
	ViaIFR
	ViaIER
	ViaORANoHandshake

	viaRegisters
)

// VIAKeyboard is a 6522 VIA wired to the keyboard matrix: port A drives the
// column strobes, port B reads the rows. Timers, shift register and
// interrupt registers accept writes and do nothing.
type VIAKeyboard struct {
	mu     sync.Mutex
	matrix *KeyMatrix

	portADir   uint8 // 1 = output
	portBDir   uint8
	portAState uint8
	portBState uint8
}

// NewVIAKeyboard creates a VIA scanning matrix. All lines start as inputs.
func NewVIAKeyboard(matrix *KeyMatrix) *VIAKeyboard {
	return &VIAKeyboard{matrix: matrix}
}

func (v *VIAKeyboard) Name() string { return "VIA6522" }

// Matrix returns the scanned key matrix.
func (v *VIAKeyboard) Matrix() *KeyMatrix { return v.matrix }

func (v *VIAKeyboard) Write(offset uint16, value uint8) error {
	if offset >= viaRegisters {
		return ErrUnknownRegister
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	switch offset {
	case ViaORA, ViaORANoHandshake:
		v.portAState = v.portAState&^v.portADir | value&v.portADir
	case ViaORB:
		v.portBState = v.portBState&^v.portBDir | value&v.portBDir
	case ViaDDRA:
		v.portADir = value
	case ViaDDRB:
		v.portBDir = value
	}
	return nil
}

func (v *VIAKeyboard) Read(offset uint16) (uint8, error) {
	if offset >= viaRegisters {
		return 0, ErrUnknownRegister
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	switch offset {
	case ViaORA, ViaORANoHandshake:
		// Only port A out / port B in is wired
		return 0xFF, nil
	case ViaORB:
		return v.keyState(), nil
	case ViaDDRA:
		return v.portADir, nil
	case ViaDDRB:
		return v.portBDir, nil
	}
	return 0, nil
}

// keyState returns the rows of every column strobed low on port A. Any
// other port configuration reads as no keys pressed.
func (v *VIAKeyboard) keyState() uint8 {
	if v.portBDir != 0x00 || v.portADir != 0xFF {
		return 0xFF
	}
	return v.matrix.Scan(v.portAState)
}

// GetPortA returns the port A direction and output latch.
func (v *VIAKeyboard) GetPortA() (dir, state uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.portADir, v.portAState
}

// GetPortB returns the port B direction and output latch.
func (v *VIAKeyboard) GetPortB() (dir, state uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.portBDir, v.portBState
}

// VIA is a general purpose 6522 with nothing attached. Port pins set as
// inputs read the levels given to SetInputs (pulled high by default); the
// remaining registers hold what was last written.
type VIA struct {
	mu     sync.Mutex
	regs   [viaRegisters]uint8
	inputA uint8
	inputB uint8
}

// NewVIA creates a VIA with all lines as inputs held high.
func NewVIA() *VIA {
	return &VIA{inputA: 0xFF, inputB: 0xFF}
}

func (v *VIA) Name() string { return "VIA6522 GPIO" }

func (v *VIA) Write(offset uint16, value uint8) error {
	if offset >= viaRegisters {
		return ErrUnknownRegister
	}
	v.mu.Lock()
	if offset == ViaORANoHandshake {
		offset = ViaORA
	}
	v.regs[offset] = value
	v.mu.Unlock()
	return nil
}

func (v *VIA) Read(offset uint16) (uint8, error) {
	if offset >= viaRegisters {
		return 0, ErrUnknownRegister
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	switch offset {
	case ViaORA, ViaORANoHandshake:
		return pins(v.regs[ViaORA], v.regs[ViaDDRA], v.inputA), nil
	case ViaORB:
		return pins(v.regs[ViaORB], v.regs[ViaDDRB], v.inputB), nil
	}
	return v.regs[offset], nil
}

// SetInputs sets the external levels of both ports.
func (v *VIA) SetInputs(a, b uint8) {
	v.mu.Lock()
	v.inputA, v.inputB = a, b
	v.mu.Unlock()
}

// Outputs returns the levels driven on both ports. Input pins read high.
func (v *VIA) Outputs() (a, b uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return pins(v.regs[ViaORA], v.regs[ViaDDRA], 0xFF), pins(v.regs[ViaORB], v.regs[ViaDDRB], 0xFF)
}

// pins merges output latch bits on output lines with input levels elsewhere.
func pins(latch, dir, input uint8) uint8 {
	return latch&dir | input&^dir
}
