package emu

import (
	"errors"
	"testing"
)

// TestBus_Routing tests that accesses reach the owning device with local offsets
func TestBus_Routing(t *testing.T) {
	bus := NewBus()
	a := &testDevice{name: "A"}
	b := &testDevice{name: "B"}
	if err := bus.Map(a, 0x1000, 0x10FF); err != nil {
		t.Fatal(err)
	}
	if err := bus.Map(b, 0x2000, 0x200F); err != nil {
		t.Fatal(err)
	}

	if err := bus.Write(0x1042, 0x99); err != nil {
		t.Fatalf("Write: unexpected error %v", err)
	}
	if a.lastOffset != 0x42 || a.data[0x42] != 0x99 {
		t.Errorf("Device A: expected offset 0x42 = 0x99, got offset 0x%04X = 0x%02X", a.lastOffset, a.data[0x42])
	}

	b.data[0x0F] = 0x5A
	got, err := bus.Read(0x200F)
	if err != nil || got != 0x5A {
		t.Errorf("Read 0x200F: expected 0x5A, got 0x%02X (%v)", got, err)
	}
	if b.lastOffset != 0x0F {
		t.Errorf("Device B offset: expected 0x0F, got 0x%04X", b.lastOffset)
	}

	// Alternate between devices to exercise the lookup cache
	for i := 0; i < 4; i++ {
		if _, err := bus.Read(0x1000); err != nil {
			t.Fatal(err)
		}
		if _, err := bus.Read(0x2000); err != nil {
			t.Fatal(err)
		}
	}
}

// TestBus_Unmapped tests that gaps report UnmappedAddressError
func TestBus_Unmapped(t *testing.T) {
	bus := NewBus()
	bus.Map(&testDevice{name: "A"}, 0x1000, 0x10FF)

	var ue *UnmappedAddressError
	if _, err := bus.Read(0x1100); !errors.As(err, &ue) {
		t.Fatalf("Read: expected UnmappedAddressError, got %v", err)
	}
	if ue.Address != 0x1100 || ue.Write {
		t.Errorf("Error fields: got address 0x%04X write %v", ue.Address, ue.Write)
	}
	if err := bus.Write(0x0FFF, 0); !errors.As(err, &ue) || !ue.Write {
		t.Errorf("Write: expected write UnmappedAddressError, got %v", err)
	}
}

// TestBus_Overlap tests that intersecting ranges are rejected
func TestBus_Overlap(t *testing.T) {
	bus := NewBus()
	bus.Map(&testDevice{name: "A"}, 0x1000, 0x10FF)

	testCases := []struct{ start, end uint16 }{
		{0x1000, 0x1000},
		{0x0F00, 0x1000},
		{0x10FF, 0x1200},
		{0x0000, 0xFFFF},
		{0x1010, 0x1020},
	}
	for _, tc := range testCases {
		err := bus.Map(&testDevice{name: "B"}, tc.start, tc.end)
		var oe *OverlapError
		if !errors.As(err, &oe) {
			t.Errorf("Map 0x%04X-0x%04X: expected OverlapError, got %v", tc.start, tc.end, err)
			continue
		}
		if oe.Existing != "A" || oe.Device != "B" {
			t.Errorf("Error fields: got %q over %q", oe.Device, oe.Existing)
		}
	}

	// Adjacent ranges are fine
	if err := bus.Map(&testDevice{name: "C"}, 0x1100, 0x11FF); err != nil {
		t.Errorf("Adjacent map: unexpected error %v", err)
	}
	if err := bus.Map(&testDevice{name: "D"}, 0x0000, 0x0FFF); err != nil {
		t.Errorf("Adjacent map: unexpected error %v", err)
	}
}

// TestBus_DeviceAt tests device lookup by address
func TestBus_DeviceAt(t *testing.T) {
	bus := NewBus()
	vdp := NewVDP(true)
	bus.Map(vdp, 0xFF60, 0xFF63)

	dev, ok := bus.DeviceAt(0xFF62)
	if !ok || dev.Name() != "TMS9918A" {
		t.Errorf("DeviceAt 0xFF62: expected TMS9918A, got %v %v", dev, ok)
	}
	if _, ok := bus.DeviceAt(0xFF64); ok {
		t.Error("DeviceAt 0xFF64: expected no device")
	}
}

// TestBus_VDPThroughBus tests a VRAM write sequence issued through the bus
func TestBus_VDPThroughBus(t *testing.T) {
	bus := NewBus()
	vdp := NewVDP(true)
	bus.Map(vdp, 0xFF60, 0xFF63)

	bus.Write(0xFF61, 0x00)
	bus.Write(0xFF61, 0x40)
	bus.Write(0xFF60, 0xAB)
	if got := vdp.GetVRAM()[0]; got != 0xAB {
		t.Errorf("VRAM[0]: expected 0xAB, got 0x%02X", got)
	}
}

// TestCPUBus_Ports tests that IN/OUT reach the I/O page
func TestCPUBus_Ports(t *testing.T) {
	bus := NewBus()
	dev := &testDevice{name: "IO"}
	bus.Map(dev, 0xFF00, 0xFFFF)
	cb := NewCPUBus(bus)

	cb.Out(0x1260, 0x77) // upper port byte is ignored
	if dev.lastOffset != 0x60 || dev.data[0x60] != 0x77 {
		t.Errorf("Out: expected offset 0x60 = 0x77, got offset 0x%04X", dev.lastOffset)
	}
	dev.data[0x61] = 0x12
	if got := cb.In(0x61); got != 0x12 {
		t.Errorf("In: expected 0x12, got 0x%02X", got)
	}
}

// TestCPUBus_Errors tests floating bus reads and error reporting
func TestCPUBus_Errors(t *testing.T) {
	bus := NewBus()
	cb := NewCPUBus(bus)

	var errs []error
	cb.OnError = func(err error) { errs = append(errs, err) }

	if got := cb.Read(0x1234); got != 0xFF {
		t.Errorf("Unmapped read: expected 0xFF, got 0x%02X", got)
	}
	cb.Write(0x1234, 0)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 reported errors, got %d", len(errs))
	}
	var ue *UnmappedAddressError
	if !errors.As(errs[1], &ue) || !ue.Write {
		t.Errorf("Second error: expected write UnmappedAddressError, got %v", errs[1])
	}
}
