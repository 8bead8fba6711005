package hw

import (
	"github.com/embenix/usbfs/mmio"
)

// Peripheral geometry.
const (
	// NumEndpointSlots is the number of bidirectional endpoint registers.
	NumEndpointSlots = 8

	// PacketMemorySize is the size of the packet SRAM in bytes.
	PacketMemorySize = 512

	// BTableEntrySize is the size of one buffer-descriptor table entry.
	BTableEntrySize = 8

	// BTableSize is the size of the full buffer-descriptor table.
	BTableSize = NumEndpointSlots * BTableEntrySize
)

// Periph is the register file of the full-speed device peripheral.
type Periph struct {
	EPR [NumEndpointSlots]mmio.U16 // Endpoint registers

	_ [24]mmio.U16 // Reserved

	CNTR   mmio.U16 // Control register
	ISTR   mmio.U16 // Interrupt status register
	FNR    mmio.U16 // Frame number register
	DADDR  mmio.U16 // Device address register
	BTABLE mmio.U16 // Buffer table base offset
	BCDR   mmio.U16 // Battery charging / pull-up control register
}

// At overlays the register file onto a fixed hardware address.
func At(addr uintptr) *Periph {
	return mmio.Overlay[Periph](addr)
}

// CNTR bits.
const (
	CNTRCtrM   = 1 << 15 // Transfer-complete interrupt mask
	CNTRResetM = 1 << 10 // Reset interrupt mask
	CNTRPDwn   = 1 << 1  // Power down
	CNTRFRes   = 1 << 0  // Force reset
)

// ISTR bits.
const (
	ISTRCtr   = 1 << 15 // Transfer complete
	ISTRReset = 1 << 10 // Bus reset detected
	ISTRDir   = 1 << 4  // Transaction direction: set for OUT/SETUP
	ISTREPID  = 0x000F  // Endpoint identifier of the completed transfer
)

// DADDR bits.
const (
	DADDREF  = 1 << 7 // Enable function
	DADDRAdd = 0x7F   // Device address
)

// BCDR bits.
const (
	BCDRDPPU = 1 << 15 // D+ pull-up enable
)

// Endpoint register bits.
const (
	EPRCtrRx  = 1 << 15 // Receive transfer complete
	EPRDtogRx = 1 << 14 // Receive data toggle
	EPRStatRx = 0x3000  // Receive status field
	EPRSetup  = 1 << 11 // Last received packet was a SETUP token
	EPRType   = 0x0600  // Endpoint type field
	EPRKind   = 1 << 8  // Endpoint kind
	EPRCtrTx  = 1 << 7  // Transmit transfer complete
	EPRDtogTx = 1 << 6  // Transmit data toggle
	EPRStatTx = 0x0030  // Transmit status field
	EPREA     = 0x000F  // Endpoint address field
)

// Endpoint register field offsets.
const (
	EPRStatRxShift = 12
	EPRTypeShift   = 9
	EPRStatTxShift = 4
)

// EndpointStatus is the hardware status of one endpoint direction.
type EndpointStatus uint16

// Endpoint status values as encoded in the STAT_RX/STAT_TX fields.
const (
	StatusDisabled EndpointStatus = 0 // Direction ignores all transactions
	StatusStall    EndpointStatus = 1 // Transactions answered with STALL
	StatusNAK      EndpointStatus = 2 // Transactions answered with NAK
	StatusValid    EndpointStatus = 3 // Direction armed for transactions
)

// String returns a human-readable status name.
func (s EndpointStatus) String() string {
	switch s {
	case StatusDisabled:
		return "disabled"
	case StatusStall:
		return "stall"
	case StatusNAK:
		return "nak"
	case StatusValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Endpoint type values as encoded in the EP_TYPE field.
const (
	TypeBulk      uint16 = 0
	TypeControl   uint16 = 1
	TypeIso       uint16 = 2
	TypeInterrupt uint16 = 3
)
