package emu

// ioPageBase is where Z80 IN/OUT ports appear in the memory map.
const ioPageBase = 0xFF00

// CPUBus adapts Bus into the go-chip-z80 Bus interface. Memory accesses
// go straight to the bus; I/O ports are folded onto the I/O page so
// peripherals answer both memory-mapped and port accesses.
type CPUBus struct {
	bus *Bus

	// OnError receives every bus error raised by CPU accesses. Reads that
	// fail return $FF (floating bus).
	OnError func(error)
}

// NewCPUBus creates a CPUBus bridging the CPU to bus.
func NewCPUBus(bus *Bus) *CPUBus {
	return &CPUBus{bus: bus}
}

func (b *CPUBus) Fetch(addr uint16) uint8 { return b.Read(addr) }

func (b *CPUBus) Read(addr uint16) uint8 {
	v, err := b.bus.Read(addr)
	if err != nil {
		b.report(err)
		return 0xFF
	}
	return v
}

func (b *CPUBus) Write(addr uint16, val uint8) {
	if err := b.bus.Write(addr, val); err != nil {
		b.report(err)
	}
}

func (b *CPUBus) In(port uint16) uint8 { return b.Read(ioPageBase | port&0xFF) }

func (b *CPUBus) Out(port uint16, val uint8) { b.Write(ioPageBase|port&0xFF, val) }

func (b *CPUBus) report(err error) {
	if b.OnError != nil {
		b.OnError(err)
	}
}
