// Package device implements a statically configured USB full-speed device
// controller core.
//
// A device is declared once, up front: its [Identity], one or more [Config]
// values holding [Interface] and [Endpoint] declarations, and the platform
// hooks for clock and interrupt control. [New] validates the whole
// declaration, plans packet-memory buffers, and builds the dispatch table;
// every configuration error surfaces there, before the peripheral is
// touched.
//
// # Architecture
//
// The core is organized around a small set of cooperating pieces:
//
//   - [Controller] owns the peripheral: enable, bus reset, and the
//     interrupt service routine that routes transfer completions
//   - [Control] is the endpoint-0 engine serving the standard device
//     requests, with the deferred address commit of SET_ADDRESS
//   - [Endpoint] wraps one hardware endpoint register and its packet
//     buffers: arm, stall, send, receive
//   - [Config] composes the configuration descriptor stream from the
//     declaration, deterministically, into a caller-provided buffer
//
// # Interrupt Path
//
// [Controller.Handler] is the only runtime entry point. It is called from
// the interrupt service routine, never blocks, and never allocates:
//
//	func USBHandler() {
//	    ctrl.Handler()
//	}
//
// Data endpoints receive their completions through the [Handler] interface
// registered on each endpoint declaration.
//
// # Zero-Allocation Design
//
// Descriptors serialize via MarshalTo(buf) into fixed scratch buffers,
// SETUP packets parse in place from the receive buffer, and the dispatch
// table is a flat array indexed by endpoint number. Nothing on the
// interrupt path reaches the heap.
package device
