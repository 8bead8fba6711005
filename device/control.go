package device

import (
	"github.com/embenix/usbfs/device/hw"
	"github.com/embenix/usbfs/pkg"
)

// ControlStage tracks where the control engine is in the current transfer.
type ControlStage uint8

// Control transfer stages.
const (
	StageIdle   ControlStage = iota // No transfer in flight
	StageData                       // Data stage armed
	StageStatus                     // Status stage armed
)

// String returns a human-readable stage name.
func (s ControlStage) String() string {
	switch s {
	case StageData:
		return "DATA"
	case StageStatus:
		return "STATUS"
	default:
		return "IDLE"
	}
}

// Control is the endpoint-0 control-transfer engine. It owns endpoint 0,
// serves the standard device requests from the static declaration, and
// defers the device-address commit until the status stage completes on
// the wire.
type Control struct {
	ep       *Endpoint
	regs     *hw.Periph
	identity Identity
	configs  []*Config

	pendingAddr uint8
	stage       ControlStage
	scratch     [ComposeScratchSize]byte
}

// newControl builds the control engine over an already-bound endpoint 0.
func newControl(ep0 *Endpoint, regs *hw.Periph, identity Identity, configs []*Config) *Control {
	return &Control{
		ep:       ep0,
		regs:     regs,
		identity: identity,
		configs:  configs,
	}
}

// Reset returns the engine to idle and discards any pending address.
// The endpoint register itself is reset by the controller's bus-reset
// broadcast.
func (c *Control) Reset() {
	c.pendingAddr = 0
	c.stage = StageIdle
}

// PendingAddress returns the latched device address awaiting its
// status-stage commit, zero if none.
func (c *Control) PendingAddress() uint8 { return c.pendingAddr }

// Stage returns the current control-transfer stage.
func (c *Control) Stage() ControlStage { return c.stage }

// HandleTransfer services a transfer-complete event on endpoint 0.
//
// An OUT completion with the SETUP flag set starts a new control transfer.
// An IN completion means a staged response or status acknowledgment left
// the wire; this is the point where a latched SET_ADDRESS takes effect.
func (c *Control) HandleTransfer(dir Direction) {
	switch dir {
	case DirOut:
		setup := c.ep.SetupPending()
		c.ep.ClearCtrRx()
		if setup {
			c.handleSetup()
		}
		c.ep.SetRxStatus(hw.StatusValid)

	case DirIn:
		c.ep.ClearCtrTx()
		if c.pendingAddr != 0 {
			c.regs.DADDR.Set(hw.DADDREF | uint16(c.pendingAddr)&hw.DADDRAdd)
			pkg.LogInfo(pkg.ComponentControl, "device address committed",
				"address", c.pendingAddr)
			c.pendingAddr = 0
		}
		c.stage = StageIdle
		c.ep.SetRxStatus(hw.StatusValid)
	}
}

// handleSetup parses the SETUP packet from the receive buffer and
// dispatches the request. Unsupported requests stall the transmit
// direction; the host reads the stall as a request error and recovers
// with the next SETUP.
func (c *Control) handleSetup() {
	var setup SetupPacket
	if err := ParseSetupPacket(c.ep.Received(), &setup); err != nil {
		pkg.LogWarn(pkg.ComponentControl, "malformed setup packet",
			"error", err)
		c.stall()
		return
	}

	pkg.LogDebug(pkg.ComponentControl, "setup received",
		"packet", setup.String())

	switch setup.Request {
	case RequestGetStatus:
		c.getStatus(&setup)
	case RequestSetAddress:
		c.setAddress(&setup)
	case RequestGetDescriptor:
		c.getDescriptor(&setup)
	case RequestSetConfiguration:
		c.setConfiguration(&setup)
	default:
		pkg.LogDebug(pkg.ComponentControl, "unsupported request",
			"request", setup.Request)
		c.stall()
	}
}

// getStatus responds with the two status bytes. Bus-powered, no remote
// wakeup, no endpoint halts: all zero.
func (c *Control) getStatus(setup *SetupPacket) {
	status := [2]byte{0, 0}
	c.respond(status[:], setup.Length)
}

// setAddress latches the new address for commit after the status stage.
// The acknowledgment still travels on address zero; committing early
// would orphan the in-flight transfer.
func (c *Control) setAddress(setup *SetupPacket) {
	c.pendingAddr = uint8(setup.Value) & uint8(hw.DADDRAdd)
	pkg.LogDebug(pkg.ComponentControl, "address latched",
		"address", c.pendingAddr)
	c.ack()
}

// getDescriptor serves device, configuration, and report descriptors from
// the static declaration.
func (c *Control) getDescriptor(setup *SetupPacket) {
	switch setup.DescriptorType() {
	case DescriptorTypeDevice:
		desc := DeviceDescriptor{
			USBVersion:        c.identity.USBVersion,
			DeviceClass:       c.identity.Class,
			DeviceSubClass:    c.identity.SubClass,
			DeviceProtocol:    c.identity.Protocol,
			MaxPacketSize0:    uint8(c.ep.MaxPacketSize),
			VendorID:          c.identity.VendorID,
			ProductID:         c.identity.ProductID,
			DeviceVersion:     c.identity.ReleaseNumber,
			NumConfigurations: uint8(len(c.configs)),
		}
		n := desc.MarshalTo(c.scratch[:])
		c.respond(c.scratch[:n], setup.Length)

	case DescriptorTypeConfiguration:
		index := int(setup.DescriptorIndex())
		if index >= len(c.configs) {
			c.stall()
			return
		}
		n, err := c.configs[index].Compose(c.scratch[:])
		if err != nil {
			// Caught at construction; a failure here means the
			// declaration changed underneath us.
			pkg.LogError(pkg.ComponentControl, "configuration compose failed",
				"error", err)
			c.stall()
			return
		}
		c.respond(c.scratch[:n], setup.Length)

	case DescriptorTypeHIDReport:
		if len(c.configs) == 0 || c.configs[0].ReportBlob == nil {
			c.stall()
			return
		}
		c.respond(c.configs[0].ReportBlob, setup.Length)

	default:
		pkg.LogDebug(pkg.ComponentControl, "unsupported descriptor",
			"type", setup.DescriptorType())
		c.stall()
	}
}

// setConfiguration acknowledges the request. Endpoints are armed at bus
// reset from the static declaration, so there is no activation to do.
func (c *Control) setConfiguration(setup *SetupPacket) {
	pkg.LogInfo(pkg.ComponentControl, "configuration selected",
		"value", uint8(setup.Value))
	c.ack()
}

// respond stages a data-stage response clipped to what the host asked for.
func (c *Control) respond(data []byte, requested uint16) {
	if int(requested) < len(data) {
		data = data[:requested]
	}
	c.stage = StageData
	c.ep.Send(data)
}

// ack stages the zero-length status-stage acknowledgment.
func (c *Control) ack() {
	c.stage = StageStatus
	c.ep.Send(nil)
}

// stall signals a request error on the transmit direction.
func (c *Control) stall() {
	c.stage = StageIdle
	c.ep.SetTxStatus(hw.StatusStall)
}
