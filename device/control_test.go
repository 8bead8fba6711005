package device

import (
	"bytes"
	"testing"

	"github.com/embenix/usbfs/device/hw"
)

func TestControlGetDeviceDescriptor(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeDevice, 0, 18)
	rig.deliverSetup(t, &setup)

	sent := rig.sentBytes()
	if len(sent) != DeviceDescriptorSize {
		t.Fatalf("sent %d bytes, want %d", len(sent), DeviceDescriptorSize)
	}
	if sent[0] != 18 || sent[1] != DescriptorTypeDevice {
		t.Errorf("descriptor header = % X", sent[:2])
	}
	if sent[8] != 0x34 || sent[9] != 0x12 {
		t.Errorf("idVendor bytes = % X, want 34 12", sent[8:10])
	}
	if sent[10] != 0x78 || sent[11] != 0x56 {
		t.Errorf("idProduct bytes = % X, want 78 56", sent[10:12])
	}
	if sent[7] != 64 {
		t.Errorf("bMaxPacketSize0 = %d, want 64", sent[7])
	}
	if sent[17] != 1 {
		t.Errorf("bNumConfigurations = %d, want 1", sent[17])
	}
	if got := rig.ctrl.EP0().TxStatus(); got != hw.StatusValid {
		t.Errorf("TxStatus() = %v, want valid", got)
	}
}

func TestControlGetDescriptorClampsToRequest(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	// Typical first enumeration request: only 8 bytes wanted.
	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeDevice, 0, 8)
	rig.deliverSetup(t, &setup)

	if sent := rig.sentBytes(); len(sent) != 8 {
		t.Errorf("sent %d bytes, want 8", len(sent))
	}
}

func TestControlGetDescriptorClampsToPayload(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	// Host over-asks; the response is the full 18-byte descriptor, no
	// padding.
	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeDevice, 0, 64)
	rig.deliverSetup(t, &setup)

	if sent := rig.sentBytes(); len(sent) != DeviceDescriptorSize {
		t.Errorf("sent %d bytes, want %d", len(sent), DeviceDescriptorSize)
	}
}

func TestControlGetConfigurationDescriptor(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeConfiguration, 0, 255)
	rig.deliverSetup(t, &setup)

	sent := rig.sentBytes()
	wantLen := ConfigurationDescriptorSize + InterfaceDescriptorSize + EndpointDescriptorSize
	if len(sent) != wantLen {
		t.Fatalf("sent %d bytes, want %d", len(sent), wantLen)
	}
	if sent[1] != DescriptorTypeConfiguration {
		t.Errorf("descriptor type = 0x%02X", sent[1])
	}
	if got := uint16(sent[2]) | uint16(sent[3])<<8; got != uint16(wantLen) {
		t.Errorf("wTotalLength = %d, want %d", got, wantLen)
	}
}

func TestControlGetConfigurationDescriptorOutOfRange(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeConfiguration, 1, 255)
	rig.deliverSetup(t, &setup)

	ep0 := rig.ctrl.EP0()
	if got := ep0.TxStatus(); got != hw.StatusStall {
		t.Errorf("TxStatus() = %v, want stall", got)
	}
	if got := ep0.RxStatus(); got != hw.StatusValid {
		t.Errorf("RxStatus() = %v, want valid after stall", got)
	}
}

func TestControlGetReportDescriptor(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeHIDReport, 0, 255)
	rig.deliverSetup(t, &setup)

	if sent := rig.sentBytes(); !bytes.Equal(sent, keyboardReport) {
		t.Errorf("sent % X, want % X", sent, keyboardReport)
	}
}

func TestControlUnsupportedDescriptorStalls(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeString, 0, 255)
	rig.deliverSetup(t, &setup)

	ep0 := rig.ctrl.EP0()
	if got := ep0.TxStatus(); got != hw.StatusStall {
		t.Errorf("TxStatus() = %v, want stall", got)
	}
	if got := ep0.RxStatus(); got != hw.StatusValid {
		t.Errorf("RxStatus() = %v, want valid after stall", got)
	}
}

func TestControlSetAddressDeferredCommit(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetSetAddressSetup(&setup, 5)
	rig.deliverSetup(t, &setup)

	// The acknowledgment is staged but the address register still holds
	// address zero until the status stage leaves the wire.
	if got := rig.ctrl.control.PendingAddress(); got != 5 {
		t.Fatalf("PendingAddress() = %d, want 5", got)
	}
	if got := rig.regs.DADDR.Get(); got != hw.DADDREF {
		t.Errorf("DADDR = 0x%04X before status stage, want 0x%04X", got, uint16(hw.DADDREF))
	}
	if got := rig.mem.TxCount(0, 0); got != 0 {
		t.Errorf("status stage COUNT_TX = %d, want 0", got)
	}

	rig.completeIn()

	if got := rig.regs.DADDR.Get(); got != hw.DADDREF|5 {
		t.Errorf("DADDR = 0x%04X after status stage, want 0x%04X", got, uint16(hw.DADDREF|5))
	}
	if got := rig.ctrl.control.PendingAddress(); got != 0 {
		t.Errorf("PendingAddress() = %d after commit, want 0", got)
	}
}

func TestControlGetStatus(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetStatusSetup(&setup, RequestRecipientDevice, 0)
	rig.deliverSetup(t, &setup)

	if sent := rig.sentBytes(); !bytes.Equal(sent, []byte{0, 0}) {
		t.Errorf("sent % X, want 00 00", sent)
	}
}

func TestControlSetConfiguration(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetSetConfigurationSetup(&setup, 1)
	rig.deliverSetup(t, &setup)

	ep0 := rig.ctrl.EP0()
	if got := rig.mem.TxCount(0, 0); got != 0 {
		t.Errorf("acknowledgment COUNT_TX = %d, want 0", got)
	}
	if got := ep0.TxStatus(); got != hw.StatusValid {
		t.Errorf("TxStatus() = %v, want valid", got)
	}
	if got := rig.ctrl.control.Stage(); got != StageStatus {
		t.Errorf("Stage() = %v, want STATUS", got)
	}
}

func TestControlUnknownRequestStalls(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	setup := SetupPacket{
		RequestType: RequestDirectionHostToDevice | RequestTypeStandard | RequestRecipientDevice,
		Request:     RequestSetDescriptor,
	}
	rig.deliverSetup(t, &setup)

	ep0 := rig.ctrl.EP0()
	if got := ep0.TxStatus(); got != hw.StatusStall {
		t.Errorf("TxStatus() = %v, want stall", got)
	}
	if got := ep0.RxStatus(); got != hw.StatusValid {
		t.Errorf("RxStatus() = %v, want valid after stall", got)
	}
}

func TestControlResetDiscardsPendingAddress(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetSetAddressSetup(&setup, 5)
	rig.deliverSetup(t, &setup)

	rig.ctrl.control.Reset()

	if got := rig.ctrl.control.PendingAddress(); got != 0 {
		t.Errorf("PendingAddress() = %d after reset, want 0", got)
	}
	if got := rig.ctrl.control.Stage(); got != StageIdle {
		t.Errorf("Stage() = %v after reset, want IDLE", got)
	}
}

func TestControlStages(t *testing.T) {
	rig := newTestRig(t, nopHandler{})

	var setup SetupPacket
	GetDescriptorSetup(&setup, DescriptorTypeDevice, 0, 18)
	rig.deliverSetup(t, &setup)

	if got := rig.ctrl.control.Stage(); got != StageData {
		t.Fatalf("Stage() = %v after setup, want DATA", got)
	}

	rig.completeIn()

	if got := rig.ctrl.control.Stage(); got != StageIdle {
		t.Errorf("Stage() = %v after IN completion, want IDLE", got)
	}
}
