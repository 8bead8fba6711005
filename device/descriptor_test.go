package device

import (
	"bytes"
	"testing"
)

func TestDeviceDescriptorMarshalTo(t *testing.T) {
	desc := DeviceDescriptor{
		USBVersion:        0x0200,
		DeviceClass:       ClassPerInterface,
		MaxPacketSize0:    64,
		VendorID:          0x1234,
		ProductID:         0x5678,
		DeviceVersion:     0x0100,
		NumConfigurations: 1,
	}

	var buf [DeviceDescriptorSize]byte
	if n := desc.MarshalTo(buf[:]); n != DeviceDescriptorSize {
		t.Fatalf("MarshalTo() = %d, want %d", n, DeviceDescriptorSize)
	}

	want := []byte{
		18, DescriptorTypeDevice,
		0x00, 0x02, // bcdUSB 2.00
		0x00, 0x00, 0x00, // class, subclass, protocol
		64,         // bMaxPacketSize0
		0x34, 0x12, // idVendor
		0x78, 0x56, // idProduct
		0x00, 0x01, // bcdDevice 1.00
		0, 0, 0, // string indices
		1, // bNumConfigurations
	}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("MarshalTo() = % X, want % X", buf[:], want)
	}
}

func TestDeviceDescriptorMarshalToShortBuffer(t *testing.T) {
	var desc DeviceDescriptor
	if n := desc.MarshalTo(make([]byte, DeviceDescriptorSize-1)); n != 0 {
		t.Errorf("MarshalTo(short) = %d, want 0", n)
	}
}

func TestConfigurationDescriptorMarshalTo(t *testing.T) {
	desc := ConfigurationDescriptor{
		TotalLength:        34,
		NumInterfaces:      1,
		ConfigurationValue: 1,
		Attributes:         ConfigAttrBusPowered,
		MaxPower:           50,
	}

	var buf [ConfigurationDescriptorSize]byte
	if n := desc.MarshalTo(buf[:]); n != ConfigurationDescriptorSize {
		t.Fatalf("MarshalTo() = %d, want %d", n, ConfigurationDescriptorSize)
	}

	want := []byte{9, DescriptorTypeConfiguration, 34, 0, 1, 1, 0, 0x80, 50}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("MarshalTo() = % X, want % X", buf[:], want)
	}
}

func TestInterfaceDescriptorMarshalTo(t *testing.T) {
	desc := InterfaceDescriptor{
		InterfaceNumber:   0,
		NumEndpoints:      1,
		InterfaceClass:    ClassHID,
		InterfaceSubClass: 1, // boot
		InterfaceProtocol: 1, // keyboard
	}

	var buf [InterfaceDescriptorSize]byte
	if n := desc.MarshalTo(buf[:]); n != InterfaceDescriptorSize {
		t.Fatalf("MarshalTo() = %d, want %d", n, InterfaceDescriptorSize)
	}

	want := []byte{9, DescriptorTypeInterface, 0, 0, 1, 0x03, 1, 1, 0}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("MarshalTo() = % X, want % X", buf[:], want)
	}
}

func TestEndpointDescriptorMarshalTo(t *testing.T) {
	desc := EndpointDescriptor{
		EndpointAddress: 0x81,
		Attributes:      0x03, // interrupt
		MaxPacketSize:   8,
		Interval:        10,
	}

	var buf [EndpointDescriptorSize]byte
	if n := desc.MarshalTo(buf[:]); n != EndpointDescriptorSize {
		t.Fatalf("MarshalTo() = %d, want %d", n, EndpointDescriptorSize)
	}

	want := []byte{7, DescriptorTypeEndpoint, 0x81, 0x03, 8, 0, 10}
	if !bytes.Equal(buf[:], want) {
		t.Errorf("MarshalTo() = % X, want % X", buf[:], want)
	}
}
