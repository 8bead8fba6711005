package device

import (
	"fmt"

	"github.com/embenix/usbfs/device/hw"
	"github.com/embenix/usbfs/pkg"
)

// Handler services transfer-complete events for one endpoint.
//
// HandleTransfer runs inside the peripheral's interrupt context: it must
// run to completion without blocking, and may freely touch the endpoint's
// registers and packet buffers.
type Handler interface {
	HandleTransfer(dir Direction)
}

// dispatchTable maps endpoint numbers reported by hardware to their
// handlers. It is built once when the controller is constructed: a flat
// array indexed by endpoint number, no search and no allocation on the
// interrupt path.
type dispatchTable struct {
	slots [hw.NumEndpointSlots]Handler
}

// buildDispatch fills the table from the control engine and the declared
// configurations. Slot 0 is always the control engine, substituted for
// whatever handler the endpoint-0 declaration carried.
func buildDispatch(control Handler, configs []*Config) (dispatchTable, error) {
	var table dispatchTable
	table.slots[0] = control

	for _, cfg := range configs {
		err := cfg.forEachEndpoint(func(ep *Endpoint) error {
			if ep.Number == 0 {
				// The control engine owns slot 0.
				return pkg.ErrBusy
			}
			if table.slots[ep.Number] != nil {
				return pkg.ErrBusy
			}
			if ep.Handler == nil {
				return pkg.ErrInvalidEndpoint
			}
			table.slots[ep.Number] = ep.Handler
			pkg.LogDebug(pkg.ComponentDispatch, "endpoint registered",
				"number", ep.Number)
			return nil
		})
		if err != nil {
			return dispatchTable{}, err
		}
	}

	return table, nil
}

// handle routes a transfer-complete event to the endpoint's handler.
//
// An endpoint id outside the registered set means the peripheral and the
// static configuration disagree; that is a hardware contract violation,
// not a recoverable protocol event.
func (t *dispatchTable) handle(slot uint8, dir Direction) {
	if slot >= hw.NumEndpointSlots || t.slots[slot] == nil {
		panic(fmt.Sprintf("usbfs: transfer-complete for unregistered endpoint %d", slot))
	}
	t.slots[slot].HandleTransfer(dir)
}
