package main

// ExternalDevice is the uniform capability external port devices expose
// to the dispatcher: a byte in, a byte out, keyed by 8-bit port number.
type ExternalDevice interface {
	In(port byte) byte
	Out(port byte, value byte)
}

// Dispatcher implements the Z180 I/O decode described in 4.D: it
// demultiplexes the low 8 bits of a port address between the
// relocatable 64-byte internal register window (MMU/ASCI/PRT/ICR) and
// externally registered devices, and arbitrates the single pending
// interrupt vector the CPU polls once per Step.
type Dispatcher struct {
	internalBase byte
	regs         [64]byte

	mmu   *MMU
	asci0 *ASCI
	asci1 *ASCI
	prt   *PRT

	external map[byte]ExternalDevice
}

func NewDispatcher(mmu *MMU, asci0, asci1 *ASCI, prt *PRT) *Dispatcher {
	d := &Dispatcher{
		mmu:      mmu,
		asci0:    asci0,
		asci1:    asci1,
		prt:      prt,
		external: make(map[byte]ExternalDevice),
	}
	d.Reset()
	return d
}

func (d *Dispatcher) Reset() {
	d.internalBase = 0x00
	for i := range d.regs {
		d.regs[i] = 0
	}
}

// RegisterDevice binds an external device to an 8-bit port number.
func (d *Dispatcher) RegisterDevice(port byte, dev ExternalDevice) {
	d.external[port] = dev
}

func (d *Dispatcher) isInternal(port byte) bool {
	return port&0xC0 == d.internalBase&0xC0
}

func (d *Dispatcher) In(addr uint16) byte {
	port := byte(addr)
	if !d.isInternal(port) {
		if dev, ok := d.external[port]; ok {
			return dev.In(port)
		}
		return 0xFF
	}
	return d.internalRead(port & 0x3F)
}

func (d *Dispatcher) Out(addr uint16, value byte) {
	port := byte(addr)
	if !d.isInternal(port) {
		if dev, ok := d.external[port]; ok {
			dev.Out(port, value)
		}
		return
	}
	d.internalWrite(port&0x3F, value)
}

func (d *Dispatcher) internalRead(offset byte) byte {
	switch offset {
	case 0x00:
		return d.asci0.ReadCNTLA()
	case 0x02:
		return d.asci0.ReadCNTLB()
	case 0x04:
		return d.asci0.ReadSTAT()
	case 0x06, 0x08:
		return d.asci0.ReadRDR()
	case 0x0E:
		return d.asci0.ReadIER()
	case 0x12:
		return d.asci0.ReadASEXT()

	case 0x01:
		return d.asci1.ReadCNTLA()
	case 0x03:
		return d.asci1.ReadCNTLB()
	case 0x05:
		return d.asci1.ReadSTAT()
	case 0x07, 0x09:
		return d.asci1.ReadRDR()
	case 0x0F:
		return d.asci1.ReadIER()
	case 0x13:
		return d.asci1.ReadASEXT()

	case 0x10:
		return d.prt.ReadTMDRLow(0)
	case 0x11:
		return d.prt.ReadTMDRHigh(0)
	case 0x14:
		return d.prt.ReadTMDRLow(1)
	case 0x15:
		return d.prt.ReadTMDRHigh(1)
	case 0x16:
		return d.prt.ReadTRLDLow(0)
	case 0x17:
		return d.prt.ReadTRLDHigh(0)
	case 0x18:
		return d.prt.ReadTRLDLow(1)
	case 0x19:
		return d.prt.ReadTRLDHigh(1)
	case 0x1A:
		return d.prt.ReadTCR()

	case 0x38:
		return d.mmu.CBR
	case 0x39:
		return d.mmu.BBR
	case 0x3A:
		return d.mmu.CBAR

	case 0x3F:
		return d.internalBase & 0xC0

	case 0x0A:
		return 0x00
	case 0x0B:
		return 0xFF

	default:
		return d.regs[offset]
	}
}

func (d *Dispatcher) internalWrite(offset byte, value byte) {
	switch offset {
	case 0x00:
		d.asci0.WriteCNTLA(value)
	case 0x02:
		d.asci0.WriteCNTLB(value)
	case 0x04:
		d.asci0.WriteSTAT(value)
	case 0x06:
		d.asci0.WriteTDR(value)
	case 0x08:
		// ASCI0.RDR alias: not writable, but tolerated as a no-op.
	case 0x0E:
		d.asci0.WriteIER(value)
	case 0x12:
		d.asci0.WriteASEXT(value)

	case 0x01:
		d.asci1.WriteCNTLA(value)
	case 0x03:
		d.asci1.WriteCNTLB(value)
	case 0x05:
		d.asci1.WriteSTAT(value)
	case 0x07:
		d.asci1.WriteTDR(value)
	case 0x09:
	case 0x0F:
		d.asci1.WriteIER(value)
	case 0x13:
		d.asci1.WriteASEXT(value)

	case 0x10:
		d.prt.WriteTMDRLow(0, value)
	case 0x11:
		d.prt.WriteTMDRHigh(0, value)
	case 0x14:
		d.prt.WriteTMDRLow(1, value)
	case 0x15:
		d.prt.WriteTMDRHigh(1, value)
	case 0x16:
		d.prt.WriteTRLDLow(0, value)
	case 0x17:
		d.prt.WriteTRLDHigh(0, value)
	case 0x18:
		d.prt.WriteTRLDLow(1, value)
	case 0x19:
		d.prt.WriteTRLDHigh(1, value)
	case 0x1A:
		d.prt.WriteTCR(value)

	case 0x38:
		d.mmu.CBR = value
	case 0x39:
		d.mmu.BBR = value
	case 0x3A:
		d.mmu.CBAR = value

	case 0x3F:
		d.internalBase = value & 0xC0

	case 0x0A, 0x0B:
		// CSIO stub: writes are discarded.

	default:
		d.regs[offset] = value
	}
}

// PendingInterrupt implements the Bus contract: priority order is PRT
// channel 0, PRT channel 1, ASCI0, each forming its vector from bits
// 7-5 of the internal register file's IL byte (offset 0x33).
func (d *Dispatcher) PendingInterrupt() (byte, bool) {
	il := d.regs[0x33]
	switch {
	case d.prt.InterruptPending(0):
		return il&0xE0 | 0x04, true
	case d.prt.InterruptPending(1):
		return il&0xE0 | 0x06, true
	case d.asci0.InterruptPending():
		return il&0xE0 | 0x0E, true
	default:
		return 0, false
	}
}
