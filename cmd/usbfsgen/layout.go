package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/embenix/usbfs/device"
	"github.com/embenix/usbfs/device/hw"
)

// Layout is the TOML schema of a device layout file.
type Layout struct {
	Name    string         `toml:"name"`
	Device  DeviceLayout   `toml:"device"`
	Configs []ConfigLayout `toml:"config"`
}

// DeviceLayout carries the device identity fields.
type DeviceLayout struct {
	USBVersion       uint16 `toml:"usb_version"`
	Class            uint8  `toml:"class"`
	SubClass         uint8  `toml:"subclass"`
	Protocol         uint8  `toml:"protocol"`
	VendorID         uint16 `toml:"vendor_id"`
	ProductID        uint16 `toml:"product_id"`
	Release          uint16 `toml:"release"`
	EP0MaxPacketSize uint16 `toml:"ep0_max_packet_size"`
}

// ConfigLayout is one configuration with its interfaces.
type ConfigLayout struct {
	Value      uint8             `toml:"value"`
	SelfPower  bool              `toml:"self_powered"`
	MaxPower   uint8             `toml:"max_power"`
	Interfaces []InterfaceLayout `toml:"interface"`
}

// InterfaceLayout is one interface with its endpoints.
type InterfaceLayout struct {
	Class     uint8            `toml:"class"`
	SubClass  uint8            `toml:"subclass"`
	Protocol  uint8            `toml:"protocol"`
	Endpoints []EndpointLayout `toml:"endpoint"`
}

// EndpointLayout is one endpoint declaration.
type EndpointLayout struct {
	Number        uint8  `toml:"number"`
	Direction     string `toml:"direction"` // "in" or "out"
	Type          string `toml:"type"`      // "bulk", "interrupt", or "iso"
	MaxPacketSize uint16 `toml:"max_packet_size"`
	Interval      uint8  `toml:"interval"`
}

// LoadLayout reads and parses a layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout parses layout TOML.
func ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	if err := toml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if layout.Name == "" {
		return nil, fmt.Errorf("layout has no name")
	}
	if len(layout.Configs) == 0 {
		return nil, fmt.Errorf("layout %q has no configurations", layout.Name)
	}
	return &layout, nil
}

// Identity converts the device section to a controller identity.
func (l *Layout) Identity() device.Identity {
	return device.Identity{
		USBVersion:    l.Device.USBVersion,
		Class:         l.Device.Class,
		SubClass:      l.Device.SubClass,
		Protocol:      l.Device.Protocol,
		VendorID:      l.Device.VendorID,
		ProductID:     l.Device.ProductID,
		ReleaseNumber: l.Device.Release,
	}
}

// Declarations builds the configuration tree declared by the layout.
// Endpoints carry no handlers; the output is for validation and
// generation, not for driving hardware.
func (l *Layout) Declarations() ([]*device.Config, error) {
	configs := make([]*device.Config, 0, len(l.Configs))
	for _, cl := range l.Configs {
		cfg := device.NewConfig(cl.Value)
		if cl.SelfPower {
			cfg.Attributes |= device.ConfigAttrSelfPowered
		}
		if cl.MaxPower != 0 {
			cfg.MaxPower = cl.MaxPower
		}

		for _, il := range cl.Interfaces {
			iface := device.NewInterface(il.Class, il.SubClass, il.Protocol)
			for _, el := range il.Endpoints {
				ep, err := el.declaration()
				if err != nil {
					return nil, err
				}
				if err := iface.AddEndpoint(ep); err != nil {
					return nil, fmt.Errorf("endpoint %d: %w", el.Number, err)
				}
			}
			if err := cfg.AddInterface(iface); err != nil {
				return nil, fmt.Errorf("config %d: %w", cl.Value, err)
			}
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Validate runs the controller's declaration checks against the layout.
func (l *Layout) Validate() error {
	configs, err := l.Declarations()
	if err != nil {
		return err
	}
	return device.Validate(l.Identity(), l.Device.EP0MaxPacketSize, configs)
}

func (e *EndpointLayout) declaration() (*device.Endpoint, error) {
	capability, err := parseDirection(e.Direction)
	if err != nil {
		return nil, fmt.Errorf("endpoint %d: %w", e.Number, err)
	}
	typ, err := parseEndpointType(e.Type)
	if err != nil {
		return nil, fmt.Errorf("endpoint %d: %w", e.Number, err)
	}
	return &device.Endpoint{
		Number:        e.Number,
		Cap:           capability,
		Type:          typ,
		MaxPacketSize: e.MaxPacketSize,
		Interval:      e.Interval,
	}, nil
}

func parseDirection(s string) (device.Capability, error) {
	switch s {
	case "in":
		return device.CapIn, nil
	case "out":
		return device.CapOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func parseEndpointType(s string) (uint16, error) {
	switch s {
	case "bulk":
		return hw.TypeBulk, nil
	case "interrupt":
		return hw.TypeInterrupt, nil
	case "iso", "isochronous":
		return hw.TypeIso, nil
	default:
		return 0, fmt.Errorf("unknown endpoint type %q", s)
	}
}
