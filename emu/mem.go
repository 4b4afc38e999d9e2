package emu

// RAM is a read/write memory block.
type RAM struct {
	name string
	data []uint8
}

// NewRAM creates size bytes of zeroed RAM.
func NewRAM(name string, size int) *RAM {
	return &RAM{name: name, data: make([]uint8, size)}
}

func (m *RAM) Name() string { return m.name }

func (m *RAM) Read(offset uint16) (uint8, error) {
	if int(offset) >= len(m.data) {
		return 0, &UnmappedAddressError{Address: offset}
	}
	return m.data[offset], nil
}

func (m *RAM) Write(offset uint16, value uint8) error {
	if int(offset) >= len(m.data) {
		return &UnmappedAddressError{Address: offset, Write: true}
	}
	m.data[offset] = value
	return nil
}

// Size returns the RAM size in bytes.
func (m *RAM) Size() int { return len(m.data) }

// Load copies data into RAM starting at offset, truncating at the end.
func (m *RAM) Load(offset int, data []byte) int {
	if offset >= len(m.data) {
		return 0
	}
	return copy(m.data[offset:], data)
}

// ROM is a read-only memory block. Writes are ignored like on the real
// board, where the ROM chip simply isn't write-enabled.
type ROM struct {
	data []uint8
}

// NewROM creates a ROM of the given size holding image. Bytes past the
// image read as $FF (erased EPROM).
func NewROM(size int, image []byte) *ROM {
	m := &ROM{data: make([]uint8, size)}
	for i := range m.data {
		m.data[i] = 0xFF
	}
	copy(m.data, image)
	return m
}

func (m *ROM) Name() string { return "ROM" }

func (m *ROM) Read(offset uint16) (uint8, error) {
	if int(offset) >= len(m.data) {
		return 0, &UnmappedAddressError{Address: offset}
	}
	return m.data[offset], nil
}

func (m *ROM) Write(offset uint16, value uint8) error {
	return nil
}

// Size returns the ROM size in bytes.
func (m *ROM) Size() int { return len(m.data) }
