package device

import (
	"github.com/embenix/usbfs/device/hw"
	"github.com/embenix/usbfs/pkg"
)

// ClockController enables the peripheral clock before register access.
type ClockController interface {
	EnableClock()
}

// InterruptController manages the peripheral's interrupt line.
type InterruptController interface {
	EnableIRQ()
	ClearPendingIRQ()
}

// DefaultEP0MaxPacketSize is the control endpoint's maximum packet size
// when the declaration leaves it zero.
const DefaultEP0MaxPacketSize = 64

// Params declares a device: the hardware bindings, platform hooks, device
// identity, and the full static configuration tree.
type Params struct {
	Regs   *hw.Periph          // Peripheral register file
	Mem    *hw.PacketMemory    // Packet SRAM
	Clock  ClockController     // Peripheral clock hook
	IRQ    InterruptController // Interrupt line hook
	PullUp bool                // Drive the D+ pull-up at enable

	Identity         Identity
	EP0MaxPacketSize uint16 // Zero selects DefaultEP0MaxPacketSize
	Configs          []*Config
}

// Controller drives one full-speed device peripheral from a static
// declaration. All declaration errors surface from New; after Enable the
// only entry point is Handler, called from the interrupt service routine.
type Controller struct {
	regs    *hw.Periph
	mem     *hw.PacketMemory
	clock   ClockController
	irq     InterruptController
	pullUp  bool
	configs []*Config

	ep0     *Endpoint
	control *Control
	table   dispatchTable
}

// New validates the declaration and builds a controller over it. The
// peripheral is not touched until Enable.
func New(p Params) (*Controller, error) {
	if p.Regs == nil || p.Mem == nil || p.Clock == nil || p.IRQ == nil {
		return nil, pkg.ErrInvalidParameter
	}
	if err := Validate(p.Identity, p.EP0MaxPacketSize, p.Configs); err != nil {
		return nil, err
	}
	if err := requireHandlers(p.Configs); err != nil {
		return nil, err
	}

	ep0Max := p.EP0MaxPacketSize
	if ep0Max == 0 {
		ep0Max = DefaultEP0MaxPacketSize
	}
	ep0 := &Endpoint{
		Number:        0,
		Cap:           CapControl,
		Type:          hw.TypeControl,
		MaxPacketSize: ep0Max,
	}

	if _, err := planBuffers(ep0, p.Configs); err != nil {
		return nil, err
	}

	bind := func(ep *Endpoint) error {
		ep.bind(&p.Regs.EPR[ep.Number], p.Mem, 0)
		return nil
	}
	_ = bind(ep0)
	for _, cfg := range p.Configs {
		_ = cfg.forEachEndpoint(bind)
	}

	ctrl := &Controller{
		regs:    p.Regs,
		mem:     p.Mem,
		clock:   p.Clock,
		irq:     p.IRQ,
		pullUp:  p.PullUp,
		configs: p.Configs,
		ep0:     ep0,
	}
	ctrl.control = newControl(ep0, p.Regs, p.Identity, p.Configs)

	table, err := buildDispatch(ctrl.control, p.Configs)
	if err != nil {
		return nil, err
	}
	ctrl.table = table

	pkg.LogInfo(pkg.ComponentController, "controller built",
		"vendor", ctrl.control.identity.VendorID,
		"product", ctrl.control.identity.ProductID,
		"configs", len(p.Configs))

	return ctrl, nil
}

// Validate checks a declaration without building anything: endpoint
// fields, slot uniqueness, packet-memory capacity, configuration
// compose capacity, and that every descriptor served on endpoint 0
// fits in a single packet. Handlers are not required; tooling
// validates declarations before any handler exists.
func Validate(identity Identity, ep0Max uint16, configs []*Config) error {
	if len(configs) == 0 || len(configs) > MaxConfigurations {
		return pkg.ErrInvalidParameter
	}
	if ep0Max == 0 {
		ep0Max = DefaultEP0MaxPacketSize
	}

	ep0 := Endpoint{Number: 0, Cap: CapControl, Type: hw.TypeControl, MaxPacketSize: ep0Max}
	if err := ep0.validate(); err != nil {
		return err
	}

	// The control engine sends one packet per response. Any descriptor it
	// must serve has to fit within the endpoint-0 packet size.
	if DeviceDescriptorSize > int(ep0Max) {
		return pkg.ErrNotSupported
	}

	var seen [hw.NumEndpointSlots]bool
	seen[0] = true
	for _, cfg := range configs {
		if cfg == nil {
			return pkg.ErrInvalidParameter
		}
		err := cfg.forEachEndpoint(func(ep *Endpoint) error {
			if err := ep.validate(); err != nil {
				return err
			}
			if ep.Number == 0 || seen[ep.Number] {
				return pkg.ErrBusy
			}
			seen[ep.Number] = true
			return nil
		})
		if err != nil {
			return err
		}

		var scratch [ComposeScratchSize]byte
		total, err := cfg.Compose(scratch[:])
		if err != nil {
			return err
		}
		if total > int(ep0Max) {
			return pkg.ErrNotSupported
		}
		if len(cfg.ReportBlob) > int(ep0Max) {
			return pkg.ErrNotSupported
		}
	}

	// A dry planning run proves the buffers fit. New replans with the
	// real control endpoint before binding anything.
	scan := ep0
	if _, err := planBuffers(&scan, configs); err != nil {
		return err
	}

	return nil
}

// requireHandlers rejects data endpoints declared without a handler.
func requireHandlers(configs []*Config) error {
	for _, cfg := range configs {
		err := cfg.forEachEndpoint(func(ep *Endpoint) error {
			if ep.Handler == nil {
				return pkg.ErrInvalidEndpoint
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// EP0 returns the control endpoint.
func (c *Controller) EP0() *Endpoint { return c.ep0 }

// Enable powers the peripheral: clock on, buffer-descriptor table
// programmed, interrupts unmasked, and optionally the D+ pull-up driven
// so the host sees the attach.
func (c *Controller) Enable() {
	c.clock.EnableClock()

	initBufferTable(c.mem, 0, c.ep0, c.configs)

	c.regs.CNTR.Set(hw.CNTRCtrM | hw.CNTRResetM)
	c.regs.ISTR.Set(0)
	c.regs.BTABLE.Set(0)
	if c.pullUp {
		c.regs.BCDR.Or(hw.BCDRDPPU)
	}

	c.irq.EnableIRQ()

	pkg.LogInfo(pkg.ComponentController, "controller enabled",
		"pullup", c.pullUp)
}

// Reset services a bus reset: the control engine returns to idle, every
// endpoint register is reprogrammed from the declaration, and the device
// answers on address zero again.
func (c *Controller) Reset() {
	c.regs.CNTR.Set(hw.CNTRCtrM | hw.CNTRResetM)
	c.regs.ISTR.Set(0)

	c.control.Reset()
	c.ep0.Reset()
	for _, cfg := range c.configs {
		cfg.Reset()
	}

	c.regs.BTABLE.Set(0)
	c.regs.DADDR.Set(hw.DADDREF)

	pkg.LogInfo(pkg.ComponentController, "bus reset")
}

// Handler is the interrupt service routine. Bus reset wins over transfer
// completion when both are pending; the pending interrupt line is always
// cleared before returning.
func (c *Controller) Handler() {
	defer c.irq.ClearPendingIRQ()

	istr := c.regs.ISTR.Get()

	if istr&hw.ISTRReset != 0 {
		c.regs.ISTR.And(^uint16(hw.ISTRReset))
		c.Reset()
		return
	}

	if istr&hw.ISTRCtr != 0 {
		slot := uint8(istr & hw.ISTREPID)
		dir := DirIn
		if istr&hw.ISTRDir != 0 {
			dir = DirOut
		}
		c.table.handle(slot, dir)
	}
}
