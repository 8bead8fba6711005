package device

import (
	"github.com/embenix/usbfs/device/hw"
	"github.com/embenix/usbfs/mmio"
	"github.com/embenix/usbfs/pkg"
)

// Direction is the transfer direction of a completed transaction as seen
// from the device.
type Direction uint8

// Transaction directions.
const (
	DirOut Direction = iota // Host to device
	DirIn                   // Device to host
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	if d == DirIn {
		return "IN"
	}
	return "OUT"
}

// Capability is the direction capability set of an endpoint declaration.
type Capability uint8

// Endpoint capabilities.
const (
	CapOut     Capability = iota // Receives only
	CapIn                        // Transmits only
	CapControl                   // Both directions (endpoint 0)
)

// Endpoint address direction bit for descriptor composition.
const endpointAddressIn = 0x80

// Endpoint is one statically declared endpoint. The identity fields are
// fixed at declaration; the buffer offsets are assigned by the buffer
// planner and the register binding happens when the controller is built.
// The declaring configuration owns the endpoint for its whole lifetime.
type Endpoint struct {
	Number        uint8      // Endpoint number (0-7)
	Cap           Capability // Direction capability set
	Type          uint16     // Hardware endpoint type (hw.TypeControl, ...)
	MaxPacketSize uint16     // Maximum packet size
	Interval      uint8      // Polling interval for interrupt endpoints
	Handler       Handler    // Transfer handler; ignored for endpoint 0

	// Assigned by the buffer planner.
	txAddr uint16
	rxAddr uint16
	rxCap  uint16

	// Bound by the controller.
	reg    *mmio.U16
	mem    *hw.PacketMemory
	btable uint16
}

// validate checks the declaration fields.
func (e *Endpoint) validate() error {
	if e.Number >= hw.NumEndpointSlots {
		return pkg.ErrInvalidEndpoint
	}
	if e.MaxPacketSize == 0 || e.MaxPacketSize > hw.PacketMemorySize {
		return pkg.ErrInvalidEndpoint
	}
	return nil
}

// bind attaches the endpoint to its hardware register and packet memory.
func (e *Endpoint) bind(reg *mmio.U16, mem *hw.PacketMemory, btable uint16) {
	e.reg = reg
	e.mem = mem
	e.btable = btable
}

// TxAddr returns the assigned transmit buffer offset in packet memory.
func (e *Endpoint) TxAddr() uint16 { return e.txAddr }

// RxAddr returns the assigned receive buffer offset in packet memory.
func (e *Endpoint) RxAddr() uint16 { return e.rxAddr }

// Reset programs the endpoint register to its post-reset state: endpoint
// type and address set, receive armed for reception, transmit NAKing until
// data is staged.
func (e *Endpoint) Reset() {
	value := e.Type<<hw.EPRTypeShift | uint16(e.Number)&hw.EPREA
	if e.Cap != CapIn {
		value |= uint16(hw.StatusValid) << hw.EPRStatRxShift
	}
	if e.Cap != CapOut {
		value |= uint16(hw.StatusNAK) << hw.EPRStatTxShift
	}
	e.reg.Set(value)

	pkg.LogDebug(pkg.ComponentEndpoint, "endpoint reset",
		"number", e.Number,
		"type", e.Type)
}

// SetTxStatus sets the transmit-direction hardware status.
func (e *Endpoint) SetTxStatus(status hw.EndpointStatus) {
	e.reg.AndOr(^uint16(hw.EPRStatTx), uint16(status)<<hw.EPRStatTxShift)
}

// SetRxStatus sets the receive-direction hardware status.
func (e *Endpoint) SetRxStatus(status hw.EndpointStatus) {
	e.reg.AndOr(^uint16(hw.EPRStatRx), uint16(status)<<hw.EPRStatRxShift)
}

// TxStatus returns the transmit-direction hardware status.
func (e *Endpoint) TxStatus() hw.EndpointStatus {
	return hw.EndpointStatus(e.reg.Field(hw.EPRStatTxShift, 2))
}

// RxStatus returns the receive-direction hardware status.
func (e *Endpoint) RxStatus() hw.EndpointStatus {
	return hw.EndpointStatus(e.reg.Field(hw.EPRStatRxShift, 2))
}

// CtrRx reports whether a receive transfer has completed.
func (e *Endpoint) CtrRx() bool { return e.reg.Get()&hw.EPRCtrRx != 0 }

// CtrTx reports whether a transmit transfer has completed.
func (e *Endpoint) CtrTx() bool { return e.reg.Get()&hw.EPRCtrTx != 0 }

// ClearCtrRx clears the receive transfer-complete condition.
func (e *Endpoint) ClearCtrRx() { e.reg.And(^uint16(hw.EPRCtrRx)) }

// ClearCtrTx clears the transmit transfer-complete condition.
func (e *Endpoint) ClearCtrTx() { e.reg.And(^uint16(hw.EPRCtrTx)) }

// SetupPending reports whether the last received packet was a SETUP token.
func (e *Endpoint) SetupPending() bool { return e.reg.Get()&hw.EPRSetup != 0 }

// Send stages data in the transmit buffer and arms the transmit direction.
// A nil or empty slice sends a zero-length packet (a status-stage
// acknowledgment). Data beyond the maximum packet size is never staged;
// multi-packet responses are outside this engine's contract.
func (e *Endpoint) Send(data []byte) {
	if len(data) > int(e.MaxPacketSize) {
		data = data[:e.MaxPacketSize]
	}
	if len(data) > 0 {
		copy(e.mem.Buffer(e.txAddr, uint16(len(data))), data)
	}
	e.mem.SetTxCount(e.btable, e.Number, uint16(len(data)))
	e.SetTxStatus(hw.StatusValid)
}

// Received returns a view of the receive buffer clipped to the received
// byte count reported by the buffer-descriptor table.
func (e *Endpoint) Received() []byte {
	n := e.mem.RxCount(e.btable, e.Number)
	if n > e.rxCap {
		n = e.rxCap
	}
	return e.mem.Buffer(e.rxAddr, n)
}

// descriptor fills out with this endpoint's wire descriptor.
func (e *Endpoint) descriptor(out *EndpointDescriptor) {
	address := e.Number
	if e.Cap == CapIn {
		address |= endpointAddressIn
	}
	out.Length = EndpointDescriptorSize
	out.DescriptorType = DescriptorTypeEndpoint
	out.EndpointAddress = address
	out.Attributes = usbAttributes(e.Type)
	out.MaxPacketSize = e.MaxPacketSize
	out.Interval = e.Interval
}

// usbAttributes maps the hardware endpoint-type encoding to the wire
// attribute encoding of endpoint descriptors.
func usbAttributes(t uint16) uint8 {
	switch t {
	case hw.TypeControl:
		return 0x00
	case hw.TypeIso:
		return 0x01
	case hw.TypeBulk:
		return 0x02
	case hw.TypeInterrupt:
		return 0x03
	default:
		return 0x00
	}
}
