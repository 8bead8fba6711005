// Package mmio provides typed read/modify/write views over fixed-width
// hardware registers.
//
// A register is a value embedded directly in a register-file struct, so a
// struct overlaid onto a peripheral's base address exposes each register
// through these accessors with no indirection:
//
//	type Periph struct {
//	    CNTR mmio.U16
//	    ISTR mmio.U16
//	}
//
//	regs := mmio.Overlay[Periph](0x4000_5C00)
//	regs.CNTR.Set(0)
//
// Accesses are plain loads and stores; atomicity at the instruction level is
// a property of the hardware bus, not of this package. Tests overlay the
// same register-file structs onto ordinary memory.
package mmio
