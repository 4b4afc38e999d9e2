package emu

import "sort"

// AddressableDevice answers byte reads and writes over its own register
// window. Offsets passed in are device-local (0 is the first mapped address).
type AddressableDevice interface {
	Name() string
	Read(offset uint16) (uint8, error)
	Write(offset uint16, value uint8) error
}

// region is an inclusive address range owned by one device.
type region struct {
	start, end uint16
	dev        AddressableDevice
}

func (r region) contains(addr uint16) bool {
	return addr >= r.start && addr <= r.end
}

// Bus routes a 16-bit address to the device whose region contains it.
// At most one device claims any address.
type Bus struct {
	regions []region // sorted by start
	last    int      // index of the most recently hit region
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{last: -1}
}

// Map attaches dev to the inclusive range [start, end].
func (b *Bus) Map(dev AddressableDevice, start, end uint16) error {
	if end < start {
		start, end = end, start
	}
	for _, r := range b.regions {
		if start <= r.end && r.start <= end {
			return &OverlapError{
				Device:   dev.Name(),
				Start:    start,
				End:      end,
				Existing: r.dev.Name(),
			}
		}
	}
	b.regions = append(b.regions, region{start: start, end: end, dev: dev})
	sort.Slice(b.regions, func(i, j int) bool {
		return b.regions[i].start < b.regions[j].start
	})
	b.last = -1
	return nil
}

// Read returns the byte at addr from the owning device.
func (b *Bus) Read(addr uint16) (uint8, error) {
	r, ok := b.find(addr)
	if !ok {
		return 0, &UnmappedAddressError{Address: addr}
	}
	return r.dev.Read(addr - r.start)
}

// Write stores value at addr on the owning device.
func (b *Bus) Write(addr uint16, value uint8) error {
	r, ok := b.find(addr)
	if !ok {
		return &UnmappedAddressError{Address: addr, Write: true}
	}
	return r.dev.Write(addr-r.start, value)
}

// DeviceAt returns the device mapped at addr, if any.
func (b *Bus) DeviceAt(addr uint16) (AddressableDevice, bool) {
	r, ok := b.find(addr)
	if !ok {
		return nil, false
	}
	return r.dev, true
}

func (b *Bus) find(addr uint16) (region, bool) {
	// Consecutive accesses usually hit the same device (RAM, ROM)
	if b.last >= 0 && b.regions[b.last].contains(addr) {
		return b.regions[b.last], true
	}
	i := sort.Search(len(b.regions), func(i int) bool {
		return b.regions[i].end >= addr
	})
	if i < len(b.regions) && b.regions[i].contains(addr) {
		b.last = i
		return b.regions[i], true
	}
	return region{}, false
}
