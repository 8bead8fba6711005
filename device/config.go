package device

import (
	"github.com/embenix/usbfs/pkg"
)

// Static declaration limits.
const (
	// MaxConfigurations is the maximum number of configurations per device.
	MaxConfigurations = 4

	// MaxInterfacesPerConfig is the maximum number of interfaces per
	// configuration.
	MaxInterfacesPerConfig = 8

	// MaxEndpointsPerInterface is the maximum number of endpoints per
	// interface.
	MaxEndpointsPerInterface = 8

	// ComposeScratchSize is the capacity of the configuration-descriptor
	// scratch buffer. Configurations that compose larger than this are
	// rejected when the controller is built, never truncated at runtime.
	ComposeScratchSize = 64
)

// Identity holds the device identity fields of the device descriptor.
type Identity struct {
	USBVersion    uint16 // USB specification version (BCD)
	Class         uint8  // Device class code
	SubClass      uint8  // Device subclass code
	Protocol      uint8  // Device protocol code
	VendorID      uint16 // Vendor ID
	ProductID     uint16 // Product ID
	ReleaseNumber uint16 // Device release number (BCD)
}

// Interface is one statically declared interface of a configuration.
type Interface struct {
	Class    uint8 // Interface class code
	SubClass uint8 // Interface subclass code
	Protocol uint8 // Interface protocol code

	// ClassBlob is an optional class-specific descriptor emitted verbatim
	// between this interface's descriptor and its endpoint descriptors
	// (e.g. a HID class descriptor). The core treats it as opaque bytes.
	ClassBlob []byte

	number        uint8
	endpoints     [MaxEndpointsPerInterface]*Endpoint
	endpointCount int
}

// NewInterface creates an interface declaration.
func NewInterface(class, subClass, protocol uint8) *Interface {
	return &Interface{
		Class:    class,
		SubClass: subClass,
		Protocol: protocol,
	}
}

// AddEndpoint appends an endpoint to the interface in declaration order.
func (i *Interface) AddEndpoint(ep *Endpoint) error {
	if ep == nil {
		return pkg.ErrInvalidEndpoint
	}
	if i.endpointCount >= MaxEndpointsPerInterface {
		return pkg.ErrNoMemory
	}
	i.endpoints[i.endpointCount] = ep
	i.endpointCount++
	return nil
}

// Endpoints returns the declared endpoints in declaration order.
func (i *Interface) Endpoints() []*Endpoint {
	return i.endpoints[:i.endpointCount]
}

// Config is one statically declared device configuration: an ordered list
// of interfaces, each with its endpoints, plus an optional opaque
// class-specific report blob served via GetDescriptor.
type Config struct {
	Value      uint8 // Configuration value for SET_CONFIGURATION
	Attributes uint8 // Configuration attribute bits
	MaxPower   uint8 // Maximum power consumption (2mA units)

	// ReportBlob is the class-specific report descriptor (e.g. a HID
	// report descriptor) served for report-descriptor requests. Opaque to
	// the core.
	ReportBlob []byte

	interfaces     [MaxInterfacesPerConfig]*Interface
	interfaceCount int
}

// NewConfig creates a configuration declaration with the given value.
// Configurations are bus-powered unless self-powered is set explicitly.
func NewConfig(value uint8) *Config {
	return &Config{
		Value:      value,
		Attributes: ConfigAttrBusPowered,
		MaxPower:   50, // 100 mA
	}
}

// AddInterface appends an interface in declaration order and assigns its
// interface number.
func (c *Config) AddInterface(iface *Interface) error {
	if iface == nil {
		return pkg.ErrInvalidParameter
	}
	if c.interfaceCount >= MaxInterfacesPerConfig {
		return pkg.ErrNoMemory
	}
	iface.number = uint8(c.interfaceCount)
	c.interfaces[c.interfaceCount] = iface
	c.interfaceCount++
	return nil
}

// Interfaces returns the declared interfaces in declaration order.
func (c *Config) Interfaces() []*Interface {
	return c.interfaces[:c.interfaceCount]
}

// Compose assembles the configuration descriptor stream into buf: the
// 9-byte configuration header, then for each interface its descriptor,
// optional class blob, and endpoint descriptors in declaration order.
// Returns the total composed byte count.
//
// Compose is a pure function of the declaration: composing twice yields
// identical bytes.
func (c *Config) Compose(buf []byte) (int, error) {
	header := ConfigurationDescriptor{
		Length:             ConfigurationDescriptorSize,
		DescriptorType:     DescriptorTypeConfiguration,
		NumInterfaces:      uint8(c.interfaceCount),
		ConfigurationValue: c.Value,
		Attributes:         c.Attributes,
		MaxPower:           c.MaxPower,
	}

	n := header.MarshalTo(buf)
	if n == 0 {
		return 0, pkg.ErrBufferTooSmall
	}

	for _, iface := range c.Interfaces() {
		desc := InterfaceDescriptor{
			Length:            InterfaceDescriptorSize,
			DescriptorType:    DescriptorTypeInterface,
			InterfaceNumber:   iface.number,
			NumEndpoints:      uint8(iface.endpointCount),
			InterfaceClass:    iface.Class,
			InterfaceSubClass: iface.SubClass,
			InterfaceProtocol: iface.Protocol,
		}
		written := desc.MarshalTo(buf[n:])
		if written == 0 {
			return 0, pkg.ErrBufferTooSmall
		}
		n += written

		if len(iface.ClassBlob) > 0 {
			if len(buf[n:]) < len(iface.ClassBlob) {
				return 0, pkg.ErrBufferTooSmall
			}
			n += copy(buf[n:], iface.ClassBlob)
		}

		for _, ep := range iface.Endpoints() {
			var epDesc EndpointDescriptor
			ep.descriptor(&epDesc)
			written := epDesc.MarshalTo(buf[n:])
			if written == 0 {
				return 0, pkg.ErrBufferTooSmall
			}
			n += written
		}
	}

	// Patch wTotalLength now that the walk is complete.
	buf[2] = byte(n)
	buf[3] = byte(n >> 8)
	return n, nil
}

// Reset broadcasts the bus-reset to every endpoint of the configuration.
func (c *Config) Reset() {
	for _, iface := range c.Interfaces() {
		for _, ep := range iface.Endpoints() {
			ep.Reset()
		}
	}
}

// forEachEndpoint calls fn for every endpoint of the configuration in
// declaration order.
func (c *Config) forEachEndpoint(fn func(*Endpoint) error) error {
	for _, iface := range c.Interfaces() {
		for _, ep := range iface.Endpoints() {
			if err := fn(ep); err != nil {
				return err
			}
		}
	}
	return nil
}
