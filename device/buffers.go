package device

import (
	"github.com/embenix/usbfs/device/hw"
	"github.com/embenix/usbfs/pkg"
)

// rxAlloc returns the packet-memory bytes reserved for a receive buffer of
// the given maximum packet size, rounded up to what the buffer-descriptor
// table's block encoding can express.
func rxAlloc(maxPacket uint16) uint16 {
	if maxPacket > 62 {
		return (maxPacket + 31) / 32 * 32
	}
	return (maxPacket + 1) &^ 1
}

// txAlloc returns the packet-memory bytes reserved for a transmit buffer.
// Offsets stay 2-byte aligned for the 16-bit buffer-descriptor accesses.
func txAlloc(maxPacket uint16) uint16 {
	return (maxPacket + 1) &^ 1
}

// planBuffers assigns non-overlapping packet-memory offsets to the control
// endpoint and to every endpoint of every declared configuration. The
// buffer-descriptor table occupies the start of packet memory; buffers are
// packed behind it in declaration order. Returns the total bytes used.
//
// The planner only computes and assigns offsets; the endpoints remain
// owned by their declaring configurations.
func planBuffers(ep0 *Endpoint, configs []*Config) (uint16, error) {
	offset := uint16(hw.BTableSize)

	assign := func(ep *Endpoint) error {
		if ep.Cap != CapOut { // transmit side
			need := txAlloc(ep.MaxPacketSize)
			if int(offset)+int(need) > hw.PacketMemorySize {
				return pkg.ErrNoMemory
			}
			ep.txAddr = offset
			offset += need
		}
		if ep.Cap != CapIn { // receive side
			need := rxAlloc(ep.MaxPacketSize)
			if int(offset)+int(need) > hw.PacketMemorySize {
				return pkg.ErrNoMemory
			}
			ep.rxAddr = offset
			ep.rxCap = need
			offset += need
		}
		return nil
	}

	if err := assign(ep0); err != nil {
		return 0, err
	}
	for _, cfg := range configs {
		if err := cfg.forEachEndpoint(assign); err != nil {
			return 0, err
		}
	}

	pkg.LogDebug(pkg.ComponentBuffers, "packet memory planned",
		"used", offset,
		"capacity", hw.PacketMemorySize)

	return offset, nil
}

// initBufferTable writes the planned assignments into the hardware
// buffer-descriptor table. Called exactly once, during device enable.
func initBufferTable(mem *hw.PacketMemory, btable uint16, ep0 *Endpoint, configs []*Config) {
	write := func(ep *Endpoint) error {
		if ep.Cap != CapOut {
			mem.SetTxAddr(btable, ep.Number, ep.txAddr)
			mem.SetTxCount(btable, ep.Number, 0)
		}
		if ep.Cap != CapIn {
			mem.SetRxAddr(btable, ep.Number, ep.rxAddr)
			mem.SetRxCap(btable, ep.Number, ep.rxCap)
		}
		return nil
	}

	_ = write(ep0)
	for _, cfg := range configs {
		_ = cfg.forEachEndpoint(write)
	}
}
