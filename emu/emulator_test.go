package emu

import (
	"errors"
	"testing"
)

// assemble places code at the given ROM offsets.
func assemble(chunks map[int][]byte) []byte {
	rom := make([]byte, 0x100)
	for at, code := range chunks {
		copy(rom[at:], code)
	}
	return rom
}

func newTestMachine(t *testing.T, rom []byte) *Machine {
	t.Helper()
	m, err := NewMachine(rom, DefaultOptions())
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func ramByte(t *testing.T, m *Machine, addr uint16) uint8 {
	t.Helper()
	v, err := m.Bus().Read(addr)
	if err != nil {
		t.Fatalf("Read 0x%04X: %v", addr, err)
	}
	return v
}

// TestMachine_MemoryMap tests that every device answers at its address
func TestMachine_MemoryMap(t *testing.T) {
	m := newTestMachine(t, []byte{0x3E})

	testCases := []struct {
		addr uint16
		name string
	}{
		{0x0000, "ROM"},
		{0x7FFF, "ROM"},
		{0x8000, "RAM"},
		{0xFEFF, "RAM"},
		{0xFF40, "VIA6522"},
		{0xFF4F, "VIA6522"},
		{0xFF50, "VIA6522 GPIO"},
		{0xFF5F, "VIA6522 GPIO"},
		{0xFF60, "TMS9918A"},
		{0xFF63, "TMS9918A"},
		{0xFFA0, "PCVirtualKeyboard"},
		{0xFFA3, "PCVirtualKeyboard"},
		{0xFFB0, "SN76489"},
	}
	for _, tc := range testCases {
		dev, ok := m.Bus().DeviceAt(tc.addr)
		if !ok || dev.Name() != tc.name {
			t.Errorf("0x%04X: expected %s, got %v", tc.addr, tc.name, dev)
		}
	}
	for _, addr := range []uint16{0xFF00, 0xFF3F, 0xFF64, 0xFFB1, 0xFFFF} {
		if _, ok := m.Bus().DeviceAt(addr); ok {
			t.Errorf("0x%04X: expected unmapped", addr)
		}
	}
}

// TestMachine_ROMTooLarge tests the ROM size limit
func TestMachine_ROMTooLarge(t *testing.T) {
	if _, err := NewMachine(make([]byte, ROMSize+1), DefaultOptions()); err == nil {
		t.Error("Expected error for oversized ROM")
	}
	if _, err := NewMachine(make([]byte, ROMSize), DefaultOptions()); err != nil {
		t.Errorf("Full size ROM: unexpected error %v", err)
	}
}

// TestMachine_VDPPortWrites tests a program writing VRAM and RAM
func TestMachine_VDPPortWrites(t *testing.T) {
	rom := assemble(map[int][]byte{0: {
		0x3E, 0x00,       // LD A,$00
		0xD3, 0x61,       // OUT ($61),A
		0x3E, 0x40,       // LD A,$40
		0xD3, 0x61,       // OUT ($61),A
		0x3E, 0xAB,       // LD A,$AB
		0xD3, 0x60,       // OUT ($60),A
		0x3E, 0x55,       // LD A,$55
		0x32, 0x00, 0x80, // LD ($8000),A
		0x76,             // HALT
	}})
	m := newTestMachine(t, rom)

	if err := m.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if got, _ := m.VDP().ReadVRAM(0); got != 0xAB {
		t.Errorf("VRAM[0]: expected 0xAB, got 0x%02X", got)
	}
	if got := ramByte(t, m, 0x8000); got != 0x55 {
		t.Errorf("RAM[0x8000]: expected 0x55, got 0x%02X", got)
	}
}

// TestMachine_FrameInterrupt tests that the frame interrupt runs the handler once per frame
func TestMachine_FrameInterrupt(t *testing.T) {
	rom := assemble(map[int][]byte{
		0x00: {
			0x31, 0xF0, 0xFE, // LD SP,$FEF0
			0xED, 0x56,       // IM 1
			0x3E, 0xE0,       // LD A,$E0 (16K, blank, IE)
			0xD3, 0x61,       // OUT ($61),A
			0x3E, 0x81,       // LD A,$81
			0xD3, 0x61,       // OUT ($61),A
			0xFB,             // EI
			0x18, 0xFE,       // JR $
		},
		0x38: {
			0xDB, 0x61,       // IN A,($61)
			0x21, 0x01, 0x80, // LD HL,$8001
			0x34,             // INC (HL)
			0xFB,             // EI
			0xED, 0x4D,       // RETI
		},
	})
	m := newTestMachine(t, rom)

	// The first frame only enables interrupts
	for i := 0; i < 3; i++ {
		if err := m.RunFrame(); err != nil {
			t.Fatalf("RunFrame %d: %v", i, err)
		}
	}
	if got := ramByte(t, m, 0x8001); got != 2 {
		t.Errorf("Handler count: expected 2, got %d", got)
	}
	if m.VDP().IsInterrupted() {
		t.Error("Status read in the handler should clear the interrupt flag")
	}
}

// TestMachine_NoInterruptWhenDisabled tests that the flag is not raised with IE clear
func TestMachine_NoInterruptWhenDisabled(t *testing.T) {
	m := newTestMachine(t, []byte{0x18, 0xFE}) // JR $

	m.RunFrame()
	m.RunFrame()
	if m.VDP().IsInterrupted() {
		t.Error("Interrupt flag set with interrupts disabled")
	}
}

// TestMachine_KeyboardScan tests a program scanning the matrix through the VIA
func TestMachine_KeyboardScan(t *testing.T) {
	rom := assemble(map[int][]byte{0: {
		0x3E, 0xFF,       // LD A,$FF
		0xD3, 0x43,       // OUT ($43),A  DDRA
		0xAF,             // XOR A
		0xD3, 0x42,       // OUT ($42),A  DDRB
		0xD3, 0x41,       // OUT ($41),A  ORA, strobe all columns
		0xDB, 0x40,       // IN A,($40)   ORB
		0x32, 0x00, 0x80, // LD ($8000),A
		0x76,             // HALT
	}})
	m := newTestMachine(t, rom)
	m.KeyMatrix().SetKey(1, 2, true)

	m.RunFrame()
	if got := ramByte(t, m, 0x8000); got != 0xFB {
		t.Errorf("Scanned row bits: expected 0xFB, got 0x%02X", got)
	}
}

// TestMachine_PCKeyboardRead tests a program reading the PC keyboard registers
func TestMachine_PCKeyboardRead(t *testing.T) {
	rom := assemble(map[int][]byte{0: {
		0xDB, 0xA0,       // IN A,($A0)
		0x32, 0x00, 0x80, // LD ($8000),A
		0xDB, 0xA2,       // IN A,($A2)
		0x32, 0x01, 0x80, // LD ($8001),A
		0x76,             // HALT
	}})
	m := newTestMachine(t, rom)
	m.PCKeyboard().KeyEvent('q', 0x15, true)

	m.RunFrame()
	if got := ramByte(t, m, 0x8000); got != 'q' {
		t.Errorf("Key register: expected 'q', got 0x%02X", got)
	}
	if got := ramByte(t, m, 0x8001); got != 0x15 {
		t.Errorf("Scancode register: expected 0x15, got 0x%02X", got)
	}
}

// TestMachine_BusErrors tests that unmapped CPU accesses are reported
func TestMachine_BusErrors(t *testing.T) {
	rom := assemble(map[int][]byte{0: {
		0xDB, 0x00, // IN A,($00)
		0x76,       // HALT
	}})
	var errs []error
	opts := DefaultOptions()
	opts.OnBusError = func(err error) { errs = append(errs, err) }
	m, err := NewMachine(rom, opts)
	if err != nil {
		t.Fatal(err)
	}

	m.RunFrame()
	if len(errs) != 1 {
		t.Fatalf("Expected 1 bus error, got %d", len(errs))
	}
	var ue *UnmappedAddressError
	if !errors.As(errs[0], &ue) || ue.Address != 0xFF00 {
		t.Errorf("Expected unmapped read at 0xFF00, got %v", errs[0])
	}
}

// TestMachine_FrameOutput tests frame size, audio and the rendered border
func TestMachine_FrameOutput(t *testing.T) {
	m := newTestMachine(t, []byte{0x76})

	if err := m.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	w, h := m.FrameSize()
	if w != ScreenWidth+2*BorderSize || h != FrameHeight {
		t.Errorf("Frame size: expected %dx%d, got %dx%d", ScreenWidth+2*BorderSize, FrameHeight, w, h)
	}
	if len(m.Frame()) != w*h {
		t.Errorf("Frame length: expected %d, got %d", w*h, len(m.Frame()))
	}
	// Register 7 powers up with backdrop 14
	if got := m.Frame()[0]; got != DefaultPalette.Color(14) {
		t.Errorf("Border: expected gray, got 0x%08X", got)
	}
	if n := len(m.AudioSamples()); n == 0 || n%2 != 0 {
		t.Errorf("Audio: expected stereo samples, got %d", n)
	}
}

// TestMachine_Reset tests that reset restarts the CPU and releases keys
func TestMachine_Reset(t *testing.T) {
	m := newTestMachine(t, []byte{0x00, 0x00, 0x18, 0xFE}) // NOP, NOP, JR $
	m.KeyMatrix().SetKey(0, 0, true)
	m.RunFrame()
	if m.PC() != 2 {
		t.Fatalf("PC before reset: expected 2, got 0x%04X", m.PC())
	}

	m.Reset()
	if m.PC() != 0 {
		t.Errorf("PC after reset: expected 0, got 0x%04X", m.PC())
	}
	if got := m.KeyMatrix().Column(0); got != 0xFF {
		t.Errorf("Key matrix after reset: expected 0xFF, got 0x%02X", got)
	}
}

// TestMachine_PALTiming tests the frame and line budgets of the PAL board
func TestMachine_PALTiming(t *testing.T) {
	m, err := NewMachine([]byte{0x76}, OptionsFor(VideoPAL))
	if err != nil {
		t.Fatal(err)
	}
	if m.cyclesPerFrame != 70937 {
		t.Errorf("Frame cycles: expected 70937, got %d", m.cyclesPerFrame)
	}
	if m.lineCycles != 226 {
		t.Errorf("Line cycles: expected 226, got %d", m.lineCycles)
	}
	if err := m.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	// 48000 / 50 = 960 stereo pairs, allow for rounding
	if n := len(m.AudioSamples()) / 2; n < 950 || n > 970 {
		t.Errorf("Audio: expected ~960 sample frames, got %d", n)
	}
}

// TestMachine_GPIOPorts tests a program driving and reading the spare VIA
func TestMachine_GPIOPorts(t *testing.T) {
	rom := assemble(map[int][]byte{0: {
		0x3E, 0x0F,       // LD A,$0F
		0xD3, 0x53,       // OUT ($53),A  DDRA
		0x3E, 0xA5,       // LD A,$A5
		0xD3, 0x51,       // OUT ($51),A  ORA
		0xDB, 0x51,       // IN A,($51)
		0x32, 0x00, 0x80, // LD ($8000),A
		0x76,             // HALT
	}})
	m := newTestMachine(t, rom)
	m.GPIO().SetInputs(0x30, 0xFF)

	m.RunFrame()
	if got := ramByte(t, m, 0x8000); got != 0x35 {
		t.Errorf("Port A: expected 0x35, got 0x%02X", got)
	}
	if a, _ := m.GPIO().Outputs(); a != 0xF5 {
		t.Errorf("Driven port A: expected 0xF5, got 0x%02X", a)
	}
}
