package mmio

import "unsafe"

// U16 is a 16-bit hardware register.
type U16 struct {
	r uint16
}

// Get returns the register value.
func (u *U16) Get() uint16 { return u.r }

// Set writes value to the register.
func (u *U16) Set(value uint16) { u.r = value }

// Or sets the bits of value in the register.
func (u *U16) Or(value uint16) { u.r |= value }

// And masks the register with value.
func (u *U16) And(value uint16) { u.r &= value }

// Xor toggles the bits of value in the register.
func (u *U16) Xor(value uint16) { u.r ^= value }

// AndOr masks the register with andMask, then sets the bits of orMask.
func (u *U16) AndOr(andMask, orMask uint16) { u.r = (u.r & andMask) | orMask }

// BitSet reports whether the given bit is set.
func (u *U16) BitSet(bit uint) bool { return u.r&(1<<bit) != 0 }

// BitClear reports whether the given bit is clear.
func (u *U16) BitClear(bit uint) bool { return u.r&(1<<bit) == 0 }

// Field returns the bitfield of the given offset and length.
func (u *U16) Field(offset, length uint) uint16 {
	mask := uint16(1)<<length - 1
	return (u.r >> offset) & mask
}

// SetField writes value into the bitfield of the given offset and length.
func (u *U16) SetField(offset, length uint, value uint16) {
	mask := uint16(1)<<length - 1
	u.r = (u.r &^ (mask << offset)) | ((value & mask) << offset)
}

// U32 is a 32-bit hardware register.
type U32 struct {
	r uint32
}

// Get returns the register value.
func (u *U32) Get() uint32 { return u.r }

// Set writes value to the register.
func (u *U32) Set(value uint32) { u.r = value }

// Or sets the bits of value in the register.
func (u *U32) Or(value uint32) { u.r |= value }

// And masks the register with value.
func (u *U32) And(value uint32) { u.r &= value }

// Xor toggles the bits of value in the register.
func (u *U32) Xor(value uint32) { u.r ^= value }

// AndOr masks the register with andMask, then sets the bits of orMask.
func (u *U32) AndOr(andMask, orMask uint32) { u.r = (u.r & andMask) | orMask }

// BitSet reports whether the given bit is set.
func (u *U32) BitSet(bit uint) bool { return u.r&(1<<bit) != 0 }

// BitClear reports whether the given bit is clear.
func (u *U32) BitClear(bit uint) bool { return u.r&(1<<bit) == 0 }

// Overlay returns a typed pointer onto a fixed hardware address.
//
// The type parameter is a register-file struct whose fields are U16/U32
// registers laid out to match the peripheral's memory map.
func Overlay[T any](addr uintptr) *T {
	return (*T)(unsafe.Pointer(addr))
}
