package device

import (
	"testing"

	"github.com/embenix/usbfs/device/hw"
)

// testClock counts clock-enable calls.
type testClock struct {
	enabled int
}

func (c *testClock) EnableClock() { c.enabled++ }

// testIRQ counts interrupt-line operations.
type testIRQ struct {
	enabled int
	cleared int
}

func (i *testIRQ) EnableIRQ()       { i.enabled++ }
func (i *testIRQ) ClearPendingIRQ() { i.cleared++ }

// nopHandler satisfies Handler for data-endpoint declarations.
type nopHandler struct{}

func (nopHandler) HandleTransfer(Direction) {}

// recordHandler records the directions it was dispatched with.
type recordHandler struct {
	dirs []Direction
}

func (h *recordHandler) HandleTransfer(dir Direction) { h.dirs = append(h.dirs, dir) }

// keyboardReport is a stand-in report descriptor blob.
var keyboardReport = []byte{0x05, 0x01, 0x09, 0x06, 0xA1, 0x01, 0xC0}

// newKeyboardConfig declares a single boot-keyboard configuration with one
// interrupt IN endpoint.
func newKeyboardConfig(t *testing.T, h Handler) *Config {
	t.Helper()

	cfg := NewConfig(1)
	cfg.ReportBlob = keyboardReport

	iface := NewInterface(ClassHID, 1, 1)
	err := iface.AddEndpoint(&Endpoint{
		Number:        1,
		Cap:           CapIn,
		Type:          hw.TypeInterrupt,
		MaxPacketSize: 8,
		Interval:      10,
		Handler:       h,
	})
	if err != nil {
		t.Fatalf("AddEndpoint() error = %v", err)
	}
	if err := cfg.AddInterface(iface); err != nil {
		t.Fatalf("AddInterface() error = %v", err)
	}
	return cfg
}

// testRig bundles a controller over in-memory hardware.
type testRig struct {
	regs  *hw.Periph
	mem   *hw.PacketMemory
	clock *testClock
	irq   *testIRQ
	ctrl  *Controller
}

// newTestRig builds and enables a keyboard-device controller over
// in-memory register and packet-memory images, then services the initial
// bus reset so the endpoints are armed.
func newTestRig(t *testing.T, h Handler) *testRig {
	t.Helper()

	rig := &testRig{
		regs:  &hw.Periph{},
		mem:   &hw.PacketMemory{},
		clock: &testClock{},
		irq:   &testIRQ{},
	}

	ctrl, err := New(Params{
		Regs:  rig.regs,
		Mem:   rig.mem,
		Clock: rig.clock,
		IRQ:   rig.irq,
		Identity: Identity{
			USBVersion:    0x0200,
			VendorID:      0x1234,
			ProductID:     0x5678,
			ReleaseNumber: 0x0100,
		},
		Configs: []*Config{newKeyboardConfig(t, h)},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rig.ctrl = ctrl

	ctrl.Enable()
	ctrl.Reset()
	return rig
}

// deliverSetup places a SETUP packet in the endpoint-0 receive buffer and
// runs the interrupt handler as the hardware would after the transaction.
func (r *testRig) deliverSetup(t *testing.T, setup *SetupPacket) {
	t.Helper()

	ep0 := r.ctrl.EP0()
	var raw [SetupPacketSize]byte
	if n := setup.MarshalTo(raw[:]); n != SetupPacketSize {
		t.Fatalf("MarshalTo() = %d, want %d", n, SetupPacketSize)
	}
	copy(r.mem.Buffer(ep0.RxAddr(), SetupPacketSize), raw[:])
	r.mem.SetRxCount(0, 0, SetupPacketSize)

	r.regs.EPR[0].Or(hw.EPRCtrRx | hw.EPRSetup)
	r.regs.ISTR.Set(hw.ISTRCtr | hw.ISTRDir)
	r.ctrl.Handler()
	r.regs.EPR[0].And(^uint16(hw.EPRSetup))
}

// completeIn runs the interrupt handler for an endpoint-0 IN completion.
func (r *testRig) completeIn() {
	r.regs.EPR[0].Or(hw.EPRCtrTx)
	r.regs.ISTR.Set(hw.ISTRCtr)
	r.ctrl.Handler()
}

// sentBytes returns a copy of the endpoint-0 transmit buffer clipped to
// the staged transmit count.
func (r *testRig) sentBytes() []byte {
	ep0 := r.ctrl.EP0()
	n := r.mem.TxCount(0, 0)
	out := make([]byte, n)
	copy(out, r.mem.Buffer(ep0.TxAddr(), n))
	return out
}
