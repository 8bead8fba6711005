// Command usbfsgen validates device layouts and generates their Go
// declarations.
//
// A layout is a TOML file describing a device: identity, configurations,
// interfaces, and endpoints. The check command runs the same validation
// the controller applies at construction, so a layout that passes here
// cannot fail declaration at runtime. The generate command emits the
// layout as Go source ready to hand to device.New.
//
// Usage:
//
//	usbfsgen check keyboard.toml
//	usbfsgen generate keyboard.toml --package firmware --output zz_layout.go
package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/embenix/usbfs/pkg"
)

type cli struct {
	LogLevel string `help:"Log level: debug, info, warn, error" default:"warn" env:"USBFSGEN_LOG_LEVEL"`

	Check    checkCmd    `cmd:"" help:"Validate a device layout file"`
	Generate generateCmd `cmd:"" help:"Generate Go source from a device layout file"`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("usbfsgen"),
		kong.Description("USB device layout checker and code generator"),
		kong.UsageOnError(),
	)

	pkg.SetLogLevel(parseLevel(c.LogLevel))

	ctx.FatalIfErrorf(ctx.Run())
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
