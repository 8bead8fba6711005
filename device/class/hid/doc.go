// Package hid provides USB Human Interface Device (HID) class declarations
// for the usbfs device controller.
//
// The package covers the static side of a HID device: the HID class
// descriptor, canned boot report descriptors for keyboards and mice, and
// report structs that serialize into endpoint buffers without allocating.
//
// # Usage
//
// To declare a boot keyboard:
//
//	cfg, ep, err := hid.NewKeyboardConfig(1, 10, handler)
//	if err != nil {
//	    // declaration error
//	}
//	ctrl, err := device.New(device.Params{
//	    Regs:    regs,
//	    Mem:     mem,
//	    Clock:   clock,
//	    IRQ:     irq,
//	    Configs: []*device.Config{cfg},
//	})
//
// Input reports are staged directly on the interrupt IN endpoint:
//
//	var report hid.KeyboardReport
//	report.Press(hid.KeyA)
//	var buf [hid.KeyboardReportSize]byte
//	report.MarshalTo(buf[:])
//	ep.Send(buf[:])
//
// Class-specific control requests (GET_REPORT, SET_IDLE) are not handled;
// boot keyboards enumerate and report without them on common hosts.
package hid
