package emu

import "sync"

// DisplayMode is the 3-bit M3/M2/M1 composite assembled from registers 0
// and 1. Only four values name real modes; the others decode as-is and
// render no pattern plane.
type DisplayMode uint8

const (
	ModeGraphicsI  DisplayMode = 0
	ModeText       DisplayMode = 1
	ModeMulticolor DisplayMode = 2
	ModeGraphicsII DisplayMode = 4
)

func (m DisplayMode) String() string {
	switch m {
	case ModeGraphicsI:
		return "Graphics I"
	case ModeText:
		return "Text"
	case ModeMulticolor:
		return "Multicolor"
	case ModeGraphicsII:
		return "Graphics II"
	}
	return "Unknown"
}

const (
	VRAMSize4K  = 0x1000
	VRAMSize16K = 0x4000

	vdpRegisters = 8
)

// Status register bits
const (
	StatusInterrupt   = 0x80
	StatusFifthSprite = 0x40
	StatusCollision   = 0x20
	StatusSpriteMask  = 0x1F
)

// WriteState is the position in the two-byte command port sequence.
type WriteState uint8

const (
	WriteStart WriteState = iota
	WriteHaveFirstByte
	WriteHaveAddress
)

func (s WriteState) String() string {
	switch s {
	case WriteStart:
		return "Start"
	case WriteHaveFirstByte:
		return "HaveFirstByte"
	case WriteHaveAddress:
		return "HaveAddress"
	}
	return "?"
}

type commandKind uint8

const (
	cmdLatch commandKind = iota
	cmdSetAddress
	cmdWriteRegister
)

// command is the effect of one command port write.
type command struct {
	kind     commandKind
	value    uint8  // latched byte, or value for a register write
	register uint8  // register number for cmdWriteRegister
	address  uint16 // VRAM address for cmdSetAddress
}

// nextWriteState is the command port transition table. pending is the
// byte latched by the previous write.
func nextWriteState(s WriteState, pending, b uint8) (WriteState, command) {
	if s == WriteHaveFirstByte {
		if b < 0x80 {
			return WriteHaveAddress, command{
				kind:    cmdSetAddress,
				address: uint16(pending) | uint16(b&0x3F)<<8,
			}
		}
		return WriteStart, command{kind: cmdWriteRegister, register: b & 0x07, value: pending}
	}
	// Start and HaveAddress both latch a new first byte
	return WriteHaveFirstByte, command{kind: cmdLatch, value: b}
}

// VDP emulates a TMS9918A video display processor. All state is guarded by
// one mutex so the CPU side and the renderer can run on different
// goroutines.
type VDP struct {
	mu sync.Mutex

	register [vdpRegisters]uint8 // raw last-written values

	// Decoded from the registers on every write
	mode               DisplayMode
	externalVDP        bool
	mem16K             bool
	blank              bool
	interruptEnable    bool
	spriteLarge        bool
	spriteMagnify      bool
	nameTable          uint16
	colorTable         uint16
	patternTable       uint16
	spriteAttrTable    uint16
	spritePatternTable uint16
	fgColor            uint8
	bgColor            uint8

	vram   []uint8
	status uint8

	state   WriteState
	pending uint8
	addr    uint16 // 14-bit VRAM address

	version uint64 // bumped on every register write
}

// NewVDP creates a VDP with 16KB VRAM when mem16K is set, 4KB otherwise.
func NewVDP(mem16K bool) *VDP {
	v := &VDP{
		mem16K:  mem16K,
		fgColor: 4,
		bgColor: 14,
	}
	v.allocVRAM()
	return v
}

// allocVRAM replaces VRAM with a zeroed store of the size selected by
// mem16K. Prior contents are discarded, as on hardware where the 4K/16K
// bit changes the DRAM addressing.
func (v *VDP) allocVRAM() {
	if v.mem16K {
		v.vram = make([]uint8, VRAMSize16K)
	} else {
		v.vram = make([]uint8, VRAMSize4K)
	}
}

func (v *VDP) Name() string { return "TMS9918A" }

// Read implements AddressableDevice. Offset bit 0 is the MODE line: even
// offsets read VRAM data, odd offsets read the status register.
func (v *VDP) Read(offset uint16) (uint8, error) {
	if offset&1 == 0 {
		return v.ReadData()
	}
	return v.ReadControl(), nil
}

// Write implements AddressableDevice. Even offsets write VRAM data, odd
// offsets write the command port.
func (v *VDP) Write(offset uint16, value uint8) error {
	if offset&1 == 0 {
		v.WriteData(value)
	} else {
		v.WriteControl(value)
	}
	return nil
}

// WriteControl handles the two-write address / register sequence.
func (v *VDP) WriteControl(value uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next, cmd := nextWriteState(v.state, v.pending, value)
	switch cmd.kind {
	case cmdLatch:
		v.pending = cmd.value
	case cmdSetAddress:
		v.addr = cmd.address
	case cmdWriteRegister:
		v.writeRegister(cmd.register, cmd.value)
	}
	v.state = next
}

// WriteData stores a byte at the current VRAM address and advances it.
// Writes before an address has been set are ignored.
func (v *VDP) WriteData(value uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != WriteHaveAddress {
		return
	}
	a := int(v.addr) % len(v.vram)
	v.vram[a] = value
	v.addr = uint16((a + 1) % len(v.vram))
}

// ReadData returns the byte at the current VRAM address and advances it.
// A read before an address has been set resets the command sequence and
// returns ErrInvalidDataRead.
func (v *VDP) ReadData() (uint8, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != WriteHaveAddress {
		v.state = WriteStart
		return 0, ErrInvalidDataRead
	}
	a := int(v.addr) % len(v.vram)
	data := v.vram[a]
	v.addr = uint16((a + 1) % len(v.vram))
	return data, nil
}

// ReadControl returns the status register, then clears it and resets the
// command sequence.
func (v *VDP) ReadControl() uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()

	status := v.status
	v.status = 0
	v.state = WriteStart
	return status
}

// writeRegister stores value in register reg and updates the decoded
// configuration. Caller holds the lock.
func (v *VDP) writeRegister(reg, value uint8) {
	v.register[reg] = value

	switch reg {
	case 0:
		v.externalVDP = value&0x01 != 0
		v.mode &= 0x03
		v.mode |= DisplayMode(value&0x02) << 1
	case 1:
		v.spriteMagnify = value&0x01 != 0
		v.spriteLarge = value&0x02 != 0
		v.mode &= 0x04
		v.mode |= DisplayMode(value&0x08) >> 2
		v.mode |= DisplayMode(value&0x10) >> 4
		v.interruptEnable = value&0x20 != 0
		v.blank = value&0x40 != 0
		old := v.mem16K
		v.mem16K = value&0x80 != 0
		if old != v.mem16K {
			v.allocVRAM()
		}
	case 2:
		v.nameTable = uint16(value&0x0F) << 10
	case 3:
		switch v.mode {
		case ModeGraphicsI:
			v.colorTable = uint16(value) << 6
		case ModeGraphicsII:
			v.colorTable = uint16(value&0x80) << 6
		default:
			v.colorTable = 0
		}
	case 4:
		if v.mode == ModeGraphicsII {
			v.patternTable = uint16(value&0x04) << 11
		} else {
			v.patternTable = uint16(value&0x07) << 11
		}
	case 5:
		v.spriteAttrTable = uint16(value&0x7F) << 7
	case 6:
		v.spritePatternTable = uint16(value&0x07) << 11
	case 7:
		v.fgColor = value >> 4
		v.bgColor = value & 0x0F
	}

	v.state = WriteStart
	v.version++
}

// readVRAM is the bounds-checked VRAM read. Caller holds the lock.
func (v *VDP) readVRAM(addr int) (uint8, error) {
	if addr < 0 || addr >= len(v.vram) {
		return 0, &VramBoundsError{Address: addr, Size: len(v.vram)}
	}
	return v.vram[addr], nil
}

// ReadVRAM returns the VRAM byte at addr without touching the address
// pointer.
func (v *VDP) ReadVRAM(addr int) (uint8, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.readVRAM(addr)
}

// WriteVRAM stores a byte at addr without touching the address pointer.
func (v *VDP) WriteVRAM(addr int, value uint8) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if addr < 0 || addr >= len(v.vram) {
		return &VramBoundsError{Address: addr, Size: len(v.vram)}
	}
	v.vram[addr] = value
	return nil
}

// IsInterrupted reports whether the frame interrupt flag is pending.
func (v *VDP) IsInterrupted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status&StatusInterrupt != 0
}

// InterruptPending returns true if the VDP is driving its INT line: the
// frame flag is set and interrupts are enabled in register 1.
func (v *VDP) InterruptPending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status&StatusInterrupt != 0 && v.interruptEnable
}

// SetInterruptFlag sets the frame interrupt flag (status bit 7).
func (v *VDP) SetInterruptFlag() {
	v.mu.Lock()
	v.status |= StatusInterrupt
	v.mu.Unlock()
}

// SetCoincidenceFlag sets the sprite collision flag (status bit 5).
func (v *VDP) SetCoincidenceFlag() {
	v.mu.Lock()
	v.status |= StatusCollision
	v.mu.Unlock()
}

// SetFifthSprite latches the fifth sprite flag and sprite number. Only the
// first call after the status register was cleared has any effect.
func (v *VDP) SetFifthSprite(sprite int) {
	v.mu.Lock()
	v.setFifthSprite(sprite)
	v.mu.Unlock()
}

func (v *VDP) setFifthSprite(sprite int) {
	if v.status&StatusFifthSprite == 0 {
		v.status |= StatusFifthSprite | uint8(sprite)&StatusSpriteMask
	}
}

// GetRegister returns the last value written to register n (0-7).
func (v *VDP) GetRegister(n int) uint8 {
	if n < 0 || n >= vdpRegisters {
		return 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.register[n]
}

// GetStatus returns the status register without clearing it.
func (v *VDP) GetStatus() uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// GetAddress returns the current VRAM address.
func (v *VDP) GetAddress() uint16 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.addr
}

// GetWriteState returns the command port state.
func (v *VDP) GetWriteState() WriteState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// GetVRAM returns a copy of VRAM.
func (v *VDP) GetVRAM() []uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]uint8, len(v.vram))
	copy(out, v.vram)
	return out
}

// VRAMSize returns the current VRAM size in bytes.
func (v *VDP) VRAMSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.vram)
}

// Version returns a counter bumped by every register write. Consumers
// compare it against the value they last saw to pick up configuration
// changes without a callback.
func (v *VDP) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

// DisplayMode returns the decoded M3/M2/M1 mode.
func (v *VDP) DisplayMode() DisplayMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// InterruptEnabled reports register 1 bit 5.
func (v *VDP) InterruptEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.interruptEnable
}

// Memory16K reports register 1 bit 7.
func (v *VDP) Memory16K() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mem16K
}

// Blank reports register 1 bit 6 (the BLANK enable bit).
func (v *VDP) Blank() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.blank
}

// ExternalVDP reports register 0 bit 0.
func (v *VDP) ExternalVDP() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.externalVDP
}

// TableAddresses holds the VRAM base address of each table.
type TableAddresses struct {
	Name          uint16
	Color         uint16
	Pattern       uint16
	SpriteAttr    uint16
	SpritePattern uint16
}

// Tables returns the decoded table base addresses.
func (v *VDP) Tables() TableAddresses {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tables()
}

func (v *VDP) tables() TableAddresses {
	return TableAddresses{
		Name:          v.nameTable,
		Color:         v.colorTable,
		Pattern:       v.patternTable,
		SpriteAttr:    v.spriteAttrTable,
		SpritePattern: v.spritePatternTable,
	}
}

// Colors returns the text foreground and backdrop color indices (register 7).
func (v *VDP) Colors() (fg, bg uint8) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fgColor, v.bgColor
}

// SpriteSize reports the large (16x16) and magnify (2x) sprite flags.
func (v *VDP) SpriteSize() (large, magnify bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.spriteLarge, v.spriteMagnify
}
