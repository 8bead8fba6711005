// Package hw defines the register file of the full-speed USB device
// peripheral and its packet-buffer memory.
//
// The layout follows the common full-speed device function found on
// Cortex-M parts: eight bidirectional endpoint registers, a control block
// (CNTR, ISTR, FNR, DADDR, BTABLE, BCDR), and a dedicated packet SRAM that
// holds the buffer-descriptor table plus the endpoint packet buffers.
//
// On target hardware the register file and packet memory are overlaid onto
// their fixed bus addresses with [At] and [MemoryAt]. Tests and simulations
// instead allocate [Periph] and [PacketMemory] values in ordinary memory;
// the core drives them identically either way.
//
// Registers here have plain load/store semantics. The toggle-on-write and
// write-zero-to-clear disciplines some silicon applies to endpoint registers
// belong to the platform integration layer, not to this model.
package hw
