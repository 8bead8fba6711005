package hid

import (
	"github.com/embenix/usbfs/device"
	"github.com/embenix/usbfs/device/hw"
)

// Descriptor is the HID class descriptor emitted between the interface
// descriptor and its endpoint descriptors.
type Descriptor struct {
	HIDVersion    uint16 // HID specification release number (BCD)
	CountryCode   uint8  // Country code, zero for none
	ReportDescLen uint16 // Total size of the report descriptor
}

// DescriptorSize is the size of a HID class descriptor with one report
// descriptor reference.
const DescriptorSize = 9

// MarshalTo serializes the HID class descriptor to buf.
// Returns the number of bytes written (always 9 if buf is large enough).
func (d *Descriptor) MarshalTo(buf []byte) int {
	if len(buf) < DescriptorSize {
		return 0
	}
	buf[0] = DescriptorSize
	buf[1] = device.DescriptorTypeHID
	buf[2] = byte(d.HIDVersion)
	buf[3] = byte(d.HIDVersion >> 8)
	buf[4] = d.CountryCode
	buf[5] = 1 // one class descriptor follows
	buf[6] = device.DescriptorTypeHIDReport
	buf[7] = byte(d.ReportDescLen)
	buf[8] = byte(d.ReportDescLen >> 8)
	return DescriptorSize
}

// ClassBlob returns the serialized HID class descriptor for a report
// descriptor of the given length, at HID version 1.11.
func ClassBlob(reportDescLen int) []byte {
	desc := Descriptor{
		HIDVersion:    0x0111,
		ReportDescLen: uint16(reportDescLen),
	}
	blob := make([]byte, DescriptorSize)
	desc.MarshalTo(blob)
	return blob
}

// NewKeyboardConfig declares a boot-keyboard configuration: one HID
// interface carrying the standard keyboard report descriptor and one
// interrupt IN endpoint on the given endpoint number. The handler receives
// the endpoint's transfer completions.
func NewKeyboardConfig(epNum uint8, interval uint8, handler device.Handler) (*device.Config, *device.Endpoint, error) {
	cfg := device.NewConfig(1)
	cfg.ReportBlob = KeyboardReportDescriptor

	iface := device.NewInterface(device.ClassHID, SubclassBoot, ProtocolKeyboard)
	iface.ClassBlob = ClassBlob(len(KeyboardReportDescriptor))

	ep := &device.Endpoint{
		Number:        epNum,
		Cap:           device.CapIn,
		Type:          hw.TypeInterrupt,
		MaxPacketSize: KeyboardReportSize,
		Interval:      interval,
		Handler:       handler,
	}
	if err := iface.AddEndpoint(ep); err != nil {
		return nil, nil, err
	}
	if err := cfg.AddInterface(iface); err != nil {
		return nil, nil, err
	}
	return cfg, ep, nil
}

// KeyboardReport is an 8-byte boot keyboard input report.
type KeyboardReport struct {
	Modifiers uint8    // Modifier key state
	Keys      [6]uint8 // Up to 6 simultaneous key codes
}

// KeyboardReportSize is the size of a keyboard report in bytes.
const KeyboardReportSize = 8

// MarshalTo serializes the keyboard report to buf.
// Returns the number of bytes written (always 8 if buf is large enough).
func (r *KeyboardReport) MarshalTo(buf []byte) int {
	if len(buf) < KeyboardReportSize {
		return 0
	}
	buf[0] = r.Modifiers
	buf[1] = 0 // reserved
	copy(buf[2:8], r.Keys[:])
	return KeyboardReportSize
}

// Clear resets the report to all keys released.
func (r *KeyboardReport) Clear() {
	r.Modifiers = 0
	r.Keys = [6]uint8{}
}

// Press adds a keycode to the first free key slot. Reports a rollover in
// all slots when more than six keys are held.
func (r *KeyboardReport) Press(key uint8) {
	for i, k := range r.Keys {
		if k == key {
			return
		}
		if k == KeyNone {
			r.Keys[i] = key
			return
		}
	}
	for i := range r.Keys {
		r.Keys[i] = 0x01 // ErrorRollOver
	}
}

// Release removes a keycode from the report.
func (r *KeyboardReport) Release(key uint8) {
	for i, k := range r.Keys {
		if k == key {
			copy(r.Keys[i:], r.Keys[i+1:])
			r.Keys[len(r.Keys)-1] = KeyNone
			return
		}
	}
}
