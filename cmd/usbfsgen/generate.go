package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"

	"github.com/embenix/usbfs/device"
	"github.com/embenix/usbfs/device/hw"
	"github.com/embenix/usbfs/pkg"
)

type generateCmd struct {
	Layout  string `arg:"" help:"Device layout file (TOML)" type:"existingfile"`
	Package string `help:"Package name for the generated file" default:"main"`
	Output  string `help:"Output file, '-' for stdout" default:"-"`
}

// Run validates the layout and emits it as Go source.
func (g *generateCmd) Run() error {
	layout, err := LoadLayout(g.Layout)
	if err != nil {
		return err
	}
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("layout %q: %w", layout.Name, err)
	}

	src, err := GenerateSource(layout, g.Package)
	if err != nil {
		return err
	}

	if g.Output == "-" {
		_, err := os.Stdout.Write(src)
		return err
	}
	if err := os.WriteFile(g.Output, src, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	pkg.LogInfo(pkg.ComponentTool, "layout generated",
		"name", layout.Name,
		"output", g.Output)
	return nil
}

// GenerateSource renders the layout as a Go declaration function and
// formats it with the standard formatter.
func GenerateSource(layout *Layout, pkgName string) ([]byte, error) {
	var buf bytes.Buffer

	// The hw package is only referenced by endpoint type expressions. A
	// layout without endpoints must not import it.
	needsHW := false
	for _, cl := range layout.Configs {
		for _, il := range cl.Interfaces {
			if len(il.Endpoints) > 0 {
				needsHW = true
			}
		}
	}

	fmt.Fprintf(&buf, "// Code generated by usbfsgen from layout %q. DO NOT EDIT.\n\n", layout.Name)
	fmt.Fprintf(&buf, "package %s\n\n", pkgName)
	fmt.Fprintf(&buf, "import (\n")
	fmt.Fprintf(&buf, "\t%q\n", "github.com/embenix/usbfs/device")
	if needsHW {
		fmt.Fprintf(&buf, "\t%q\n", "github.com/embenix/usbfs/device/hw")
	}
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "// DeviceIdentity is the identity declared by layout %q.\n", layout.Name)
	fmt.Fprintf(&buf, "var DeviceIdentity = device.Identity{\n")
	fmt.Fprintf(&buf, "\tUSBVersion:    0x%04X,\n", layout.Device.USBVersion)
	fmt.Fprintf(&buf, "\tClass:         0x%02X,\n", layout.Device.Class)
	fmt.Fprintf(&buf, "\tSubClass:      0x%02X,\n", layout.Device.SubClass)
	fmt.Fprintf(&buf, "\tProtocol:      0x%02X,\n", layout.Device.Protocol)
	fmt.Fprintf(&buf, "\tVendorID:      0x%04X,\n", layout.Device.VendorID)
	fmt.Fprintf(&buf, "\tProductID:     0x%04X,\n", layout.Device.ProductID)
	fmt.Fprintf(&buf, "\tReleaseNumber: 0x%04X,\n", layout.Device.Release)
	fmt.Fprintf(&buf, "}\n\n")

	fmt.Fprintf(&buf, "// NewDeviceConfigs declares the configurations of layout %q.\n", layout.Name)
	fmt.Fprintf(&buf, "// Handlers are looked up by endpoint number.\n")
	fmt.Fprintf(&buf, "func NewDeviceConfigs(handlers map[uint8]device.Handler) ([]*device.Config, error) {\n")

	for ci, cl := range layout.Configs {
		fmt.Fprintf(&buf, "\tcfg%d := device.NewConfig(%d)\n", ci, cl.Value)
		if cl.SelfPower {
			fmt.Fprintf(&buf, "\tcfg%d.Attributes |= device.ConfigAttrSelfPowered\n", ci)
		}
		if cl.MaxPower != 0 {
			fmt.Fprintf(&buf, "\tcfg%d.MaxPower = %d\n", ci, cl.MaxPower)
		}
		for ii, il := range cl.Interfaces {
			fmt.Fprintf(&buf, "\tiface%d_%d := device.NewInterface(0x%02X, 0x%02X, 0x%02X)\n",
				ci, ii, il.Class, il.SubClass, il.Protocol)
			for _, el := range il.Endpoints {
				capability, err := parseDirection(el.Direction)
				if err != nil {
					return nil, err
				}
				typ, err := parseEndpointType(el.Type)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(&buf, "\tif err := iface%d_%d.AddEndpoint(&device.Endpoint{\n", ci, ii)
				fmt.Fprintf(&buf, "\t\tNumber:        %d,\n", el.Number)
				fmt.Fprintf(&buf, "\t\tCap:           %s,\n", capabilityExpr(capability))
				fmt.Fprintf(&buf, "\t\tType:          %s,\n", typeExpr(typ))
				fmt.Fprintf(&buf, "\t\tMaxPacketSize: %d,\n", el.MaxPacketSize)
				if el.Interval != 0 {
					fmt.Fprintf(&buf, "\t\tInterval:      %d,\n", el.Interval)
				}
				fmt.Fprintf(&buf, "\t\tHandler:       handlers[%d],\n", el.Number)
				fmt.Fprintf(&buf, "\t}); err != nil {\n\t\treturn nil, err\n\t}\n")
			}
			fmt.Fprintf(&buf, "\tif err := cfg%d.AddInterface(iface%d_%d); err != nil {\n\t\treturn nil, err\n\t}\n", ci, ci, ii)
		}
	}

	fmt.Fprintf(&buf, "\treturn []*device.Config{")
	for ci := range layout.Configs {
		if ci > 0 {
			fmt.Fprintf(&buf, ", ")
		}
		fmt.Fprintf(&buf, "cfg%d", ci)
	}
	fmt.Fprintf(&buf, "}, nil\n}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func capabilityExpr(c device.Capability) string {
	if c == device.CapOut {
		return "device.CapOut"
	}
	return "device.CapIn"
}

func typeExpr(t uint16) string {
	switch t {
	case hw.TypeBulk:
		return "hw.TypeBulk"
	case hw.TypeIso:
		return "hw.TypeIso"
	case hw.TypeInterrupt:
		return "hw.TypeInterrupt"
	default:
		return "hw.TypeControl"
	}
}
