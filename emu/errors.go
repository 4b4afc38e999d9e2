package emu

import (
	"errors"
	"fmt"
)

// ErrInvalidDataRead is returned by a VDP data port read issued before a
// read address was latched. The command state machine is reset to Start.
var ErrInvalidDataRead = errors.New("vdp: data read without address")

// ErrUnknownRegister is returned for VIA accesses beyond its 16 registers.
var ErrUnknownRegister = errors.New("via: unknown register")

// OverlapError is returned by Bus.Map when a new region intersects a
// region that is already mapped.
type OverlapError struct {
	Device     string
	Start, End uint16
	Existing   string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("bus: %s at $%04X-$%04X overlaps %s", e.Device, e.Start, e.End, e.Existing)
}

// UnmappedAddressError is returned when no device claims an address.
type UnmappedAddressError struct {
	Address uint16
	Write   bool
}

func (e *UnmappedAddressError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("bus: %s of unmapped address $%04X", op, e.Address)
}

// VramBoundsError is returned for VRAM accesses beyond the current VRAM size.
type VramBoundsError struct {
	Address int
	Size    int
}

func (e *VramBoundsError) Error() string {
	return fmt.Sprintf("vdp: no VRAM at $%04X (size %d)", e.Address, e.Size)
}
