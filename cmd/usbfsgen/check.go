package main

import (
	"fmt"

	"github.com/embenix/usbfs/pkg"
)

type checkCmd struct {
	Layout string `arg:"" help:"Device layout file (TOML)" type:"existingfile"`
}

// Run validates the layout against the controller's declaration checks.
func (c *checkCmd) Run() error {
	layout, err := LoadLayout(c.Layout)
	if err != nil {
		return err
	}
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("layout %q: %w", layout.Name, err)
	}

	pkg.LogInfo(pkg.ComponentTool, "layout valid",
		"name", layout.Name,
		"configs", len(layout.Configs))

	fmt.Printf("%s: ok\n", layout.Name)
	return nil
}
