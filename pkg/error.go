package pkg

import "errors"

// Configuration and protocol errors.
var (
	// ErrNoMemory indicates the static endpoint set does not fit the
	// peripheral's packet-memory region.
	ErrNoMemory = errors.New("packet memory exhausted")

	// ErrBufferTooSmall indicates the provided buffer cannot hold the
	// composed descriptor stream.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrSetupPacketTooShort indicates the setup packet data is too short.
	ErrSetupPacketTooShort = errors.New("setup packet too short")

	// ErrInvalidEndpoint indicates an invalid endpoint declaration.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidState indicates an operation was attempted in the wrong
	// construction order.
	ErrInvalidState = errors.New("invalid state")

	// ErrBusy indicates a duplicate declaration (endpoint slot or
	// configuration value already taken).
	ErrBusy = errors.New("resource busy")

	// ErrNotSupported indicates an unsupported declaration or feature.
	ErrNotSupported = errors.New("not supported")
)
