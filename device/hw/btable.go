package hw

import "github.com/embenix/usbfs/mmio"

// PacketMemory is the peripheral's dedicated packet SRAM. It holds the
// buffer-descriptor table at the BTABLE offset followed by the endpoint
// packet buffers.
type PacketMemory [PacketMemorySize]byte

// MemoryAt overlays the packet memory onto a fixed hardware address.
func MemoryAt(addr uintptr) *PacketMemory {
	return mmio.Overlay[PacketMemory](addr)
}

func (m *PacketMemory) get16(off uint16) uint16 {
	return uint16(m[off]) | uint16(m[off+1])<<8
}

func (m *PacketMemory) put16(off, value uint16) {
	m[off] = byte(value)
	m[off+1] = byte(value >> 8)
}

// entry returns the packet-memory offset of the descriptor entry for slot.
func entry(btable uint16, slot uint8) uint16 {
	return btable + uint16(slot)*BTableEntrySize
}

// SetTxAddr writes the transmit buffer offset for the given slot.
func (m *PacketMemory) SetTxAddr(btable uint16, slot uint8, addr uint16) {
	m.put16(entry(btable, slot), addr)
}

// TxAddr returns the transmit buffer offset for the given slot.
func (m *PacketMemory) TxAddr(btable uint16, slot uint8) uint16 {
	return m.get16(entry(btable, slot))
}

// SetTxCount writes the number of bytes staged for transmission.
func (m *PacketMemory) SetTxCount(btable uint16, slot uint8, count uint16) {
	m.put16(entry(btable, slot)+2, count)
}

// TxCount returns the number of bytes staged for transmission.
func (m *PacketMemory) TxCount(btable uint16, slot uint8) uint16 {
	return m.get16(entry(btable, slot) + 2)
}

// SetRxAddr writes the receive buffer offset for the given slot.
func (m *PacketMemory) SetRxAddr(btable uint16, slot uint8, addr uint16) {
	m.put16(entry(btable, slot)+4, addr)
}

// RxAddr returns the receive buffer offset for the given slot.
func (m *PacketMemory) RxAddr(btable uint16, slot uint8) uint16 {
	return m.get16(entry(btable, slot) + 4)
}

// SetRxCap writes the receive buffer capacity for the given slot using the
// block-size encoding: capacities up to 62 bytes are counted in 2-byte
// blocks, larger capacities in 32-byte blocks.
func (m *PacketMemory) SetRxCap(btable uint16, slot uint8, capacity uint16) {
	m.put16(entry(btable, slot)+6, rxCapBits(capacity))
}

// RxCap returns the receive buffer capacity for the given slot, decoded
// from the block-size encoding.
func (m *PacketMemory) RxCap(btable uint16, slot uint8) uint16 {
	bits := m.get16(entry(btable, slot) + 6)
	blocks := (bits >> 10) & 0x1F
	if bits&0x8000 != 0 {
		return (blocks + 1) * 32
	}
	return blocks * 2
}

// SetRxCount writes the received byte count for the given slot, preserving
// the capacity encoding. The hardware updates this field on reception; the
// mutator exists for simulations.
func (m *PacketMemory) SetRxCount(btable uint16, slot uint8, count uint16) {
	off := entry(btable, slot) + 6
	m.put16(off, m.get16(off)&^uint16(0x03FF)|count&0x03FF)
}

// RxCount returns the number of bytes received into the slot's buffer.
func (m *PacketMemory) RxCount(btable uint16, slot uint8) uint16 {
	return m.get16(entry(btable, slot)+6) & 0x03FF
}

// Buffer returns the packet buffer of n bytes at the given offset.
func (m *PacketMemory) Buffer(addr, n uint16) []byte {
	return m[addr : addr+n]
}

func rxCapBits(capacity uint16) uint16 {
	if capacity > 62 {
		blocks := (capacity + 31) / 32
		return 0x8000 | (blocks-1)<<10
	}
	return (capacity / 2) << 10
}
