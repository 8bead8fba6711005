package pkg

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a controller subsystem in log records.
type Component string

// Subsystems emitting log records.
const (
	ComponentController Component = "controller"
	ComponentControl    Component = "control"
	ComponentEndpoint   Component = "endpoint"
	ComponentBuffers    Component = "buffers"
	ComponentDispatch   Component = "dispatch"
	ComponentTool       Component = "tool"
)

// LogFormat selects the encoding of the default logger.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

var (
	// DefaultLogger receives all controller log records. Replace it with
	// SetLogger or reconfigure its encoding with SetLogFormat.
	DefaultLogger *slog.Logger

	logLevel = new(slog.LevelVar)
	logMutex sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	DefaultLogger = NewLogger(os.Stderr, nil)
}

// SetLogLevel sets the minimum level for the default logger and for any
// logger built with nil handler options.
func SetLogLevel(level slog.Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logLevel.Set(level)
}

// GetLogLevel returns the current minimum log level.
func GetLogLevel() slog.Level {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logLevel.Level()
}

// SetLogger replaces the default logger.
func SetLogger(logger *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	DefaultLogger = logger
}

// SetLogFormat rebuilds the default logger on os.Stderr with the given
// encoding. The logger keeps tracking the level set by SetLogLevel.
func SetLogFormat(format LogFormat) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if format == LogFormatJSON {
		DefaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, trackingOpts(nil)))
		return
	}
	DefaultLogger = slog.New(slog.NewTextHandler(os.Stderr, trackingOpts(nil)))
}

// trackingOpts substitutes options that follow the package log level when
// the caller passed none.
func trackingOpts(opts *slog.HandlerOptions) *slog.HandlerOptions {
	if opts == nil {
		return &slog.HandlerOptions{Level: logLevel}
	}
	return opts
}

// NewLogger creates a text logger writing to w. Nil opts track the
// package log level.
func NewLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, trackingOpts(opts)))
}

// NewJSONLogger creates a JSON logger writing to w. Nil opts track the
// package log level.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, trackingOpts(opts)))
}

func activeLogger() *slog.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return DefaultLogger
}

func tagged(component Component, args []any) []any {
	return append([]any{"component", string(component)}, args...)
}

// LogDebug logs a debug message tagged with the given component.
func LogDebug(component Component, msg string, args ...any) {
	activeLogger().Debug(msg, tagged(component, args)...)
}

// LogInfo logs an info message tagged with the given component.
func LogInfo(component Component, msg string, args ...any) {
	activeLogger().Info(msg, tagged(component, args)...)
}

// LogWarn logs a warning tagged with the given component.
func LogWarn(component Component, msg string, args ...any) {
	activeLogger().Warn(msg, tagged(component, args)...)
}

// LogError logs an error tagged with the given component.
func LogError(component Component, msg string, args ...any) {
	activeLogger().Error(msg, tagged(component, args)...)
}
