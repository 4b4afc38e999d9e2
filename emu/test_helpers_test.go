package emu

// writeReg writes value to VDP register reg through the command port.
func writeReg(v *VDP, reg, value uint8) {
	v.WriteControl(value)
	v.WriteControl(0x80 | reg)
}

// setAddress points the VDP at addr for data port access.
func setAddress(v *VDP, addr uint16) {
	v.WriteControl(uint8(addr))
	v.WriteControl(0x40 | uint8(addr>>8)&0x3F)
}

// fillVRAM writes data starting at addr through the data port.
func fillVRAM(v *VDP, addr uint16, data ...uint8) {
	setAddress(v, addr)
	for _, b := range data {
		v.WriteData(b)
	}
}

// newGraphicsIVDP returns a 16K VDP in Graphics I mode with the tables at
// name $1800, color $2000, pattern $0000, sprite attributes $1B00 and
// sprite patterns $3800.
func newGraphicsIVDP() *VDP {
	v := NewVDP(true)
	writeReg(v, 0, 0x00)
	writeReg(v, 1, 0xC0)
	writeReg(v, 2, 0x06)
	writeReg(v, 3, 0x80)
	writeReg(v, 4, 0x00)
	writeReg(v, 5, 0x36)
	writeReg(v, 6, 0x07)
	writeReg(v, 7, 0xF4)
	fillVRAM(v, 0x1B00, spriteTerminator)
	return v
}

// putSprite writes sprite attribute entry i and terminates the list after it.
func putSprite(v *VDP, i int, y, x, name, color uint8) {
	addr := int(v.Tables().SpriteAttr) + i*4
	for n, b := range []uint8{y, x, name, color, spriteTerminator} {
		v.WriteVRAM(addr+n, b)
	}
}

// pixel returns the frame pixel at active-area position (x, y).
func pixel(r *Renderer, frame []uint32, x, y int) uint32 {
	return frame[(y+BorderSize)*r.Width()+x+BorderSize]
}

// testDevice is a RAM-backed AddressableDevice that records accesses.
type testDevice struct {
	name       string
	data       [256]uint8
	lastOffset uint16
}

func (d *testDevice) Name() string { return d.name }

func (d *testDevice) Read(offset uint16) (uint8, error) {
	d.lastOffset = offset
	return d.data[offset&0xFF], nil
}

func (d *testDevice) Write(offset uint16, value uint8) error {
	d.lastOffset = offset
	d.data[offset&0xFF] = value
	return nil
}
