package hid

import (
	"bytes"
	"testing"

	"github.com/embenix/usbfs/device"
)

func TestClassBlob(t *testing.T) {
	blob := ClassBlob(len(KeyboardReportDescriptor))

	want := []byte{
		9, device.DescriptorTypeHID,
		0x11, 0x01, // bcdHID 1.11
		0, // country code
		1, // one descriptor
		device.DescriptorTypeHIDReport,
		byte(len(KeyboardReportDescriptor)), 0,
	}
	if !bytes.Equal(blob, want) {
		t.Errorf("ClassBlob() = % X, want % X", blob, want)
	}
}

func TestNewKeyboardConfig(t *testing.T) {
	cfg, ep, err := NewKeyboardConfig(1, 10, nil)
	if err != nil {
		t.Fatalf("NewKeyboardConfig() error = %v", err)
	}

	if !bytes.Equal(cfg.ReportBlob, KeyboardReportDescriptor) {
		t.Errorf("ReportBlob not the keyboard report descriptor")
	}
	if ep.Number != 1 || ep.Cap != device.CapIn || ep.MaxPacketSize != KeyboardReportSize {
		t.Errorf("endpoint = %+v", ep)
	}

	ifaces := cfg.Interfaces()
	if len(ifaces) != 1 {
		t.Fatalf("declared %d interfaces, want 1", len(ifaces))
	}
	if ifaces[0].Class != device.ClassHID || ifaces[0].SubClass != SubclassBoot || ifaces[0].Protocol != ProtocolKeyboard {
		t.Errorf("interface identity = %d/%d/%d", ifaces[0].Class, ifaces[0].SubClass, ifaces[0].Protocol)
	}

	// The whole declaration passes controller validation.
	if err := device.Validate(device.Identity{}, 0, []*device.Config{cfg}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestKeyboardReportMarshalTo(t *testing.T) {
	report := KeyboardReport{
		Modifiers: ModLeftShift,
		Keys:      [6]uint8{KeyA, KeyB},
	}

	var buf [KeyboardReportSize]byte
	if n := report.MarshalTo(buf[:]); n != KeyboardReportSize {
		t.Fatalf("MarshalTo() = %d, want %d", n, KeyboardReportSize)
	}

	want := []byte{ModLeftShift, 0, KeyA, KeyB, 0, 0, 0, 0}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("MarshalTo() = % X, want % X", buf[:], want)
	}
}

func TestKeyboardReportPressRelease(t *testing.T) {
	var report KeyboardReport

	report.Press(KeyA)
	report.Press(KeyB)
	report.Press(KeyA) // duplicate ignored
	if report.Keys != [6]uint8{KeyA, KeyB} {
		t.Errorf("Keys = %v after presses", report.Keys)
	}

	report.Release(KeyA)
	if report.Keys != [6]uint8{KeyB} {
		t.Errorf("Keys = %v after release", report.Keys)
	}

	report.Release(KeyA) // already released
	if report.Keys != [6]uint8{KeyB} {
		t.Errorf("Keys = %v after double release", report.Keys)
	}
}

func TestKeyboardReportRollover(t *testing.T) {
	var report KeyboardReport
	for key := uint8(KeyA); key < KeyA+7; key++ {
		report.Press(key)
	}
	if report.Keys != [6]uint8{1, 1, 1, 1, 1, 1} {
		t.Errorf("Keys = %v after rollover, want all ErrorRollOver", report.Keys)
	}
}

func TestKeyboardReportClear(t *testing.T) {
	report := KeyboardReport{Modifiers: ModLeftCtrl, Keys: [6]uint8{KeyC}}
	report.Clear()
	if report.Modifiers != 0 || report.Keys != [6]uint8{} {
		t.Errorf("report = %+v after Clear", report)
	}
}
