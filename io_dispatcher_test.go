package main

import "testing"

func newTestDispatcher() (*Dispatcher, *MMU, *ASCI, *ASCI, *PRT) {
	mmu := NewMMU()
	asci0 := NewASCI()
	asci1 := NewASCI()
	prt := NewPRT()
	d := NewDispatcher(mmu, asci0, asci1, prt)
	d.internalBase = 0xC0
	return d, mmu, asci0, asci1, prt
}

func TestDispatcherASCI0RoundTripAtInternalOffset(t *testing.T) {
	d, _, asci0, _, _ := newTestDispatcher()
	d.Out(0xC6, 0x41) // internal port, offset 0x06 -> ASCI0.TDR
	got := asci0.DrainTx()
	if len(got) != 1 || got[0] != 0x41 {
		t.Fatalf("DrainTx = %v, want [0x41]", got)
	}

	asci0.ReceiveFromConsole(0x5A)
	if v := d.In(0xC6); v != 0x5A {
		t.Fatalf("In(0xC6) = 0x%02X, want 0x5A", v)
	}
	if v := d.In(0xC6); v != 0 {
		t.Fatalf("second In(0xC6) = 0x%02X, want 0", v)
	}
}

func TestDispatcherMMURegistersRouteThrough(t *testing.T) {
	d, mmu, _, _, _ := newTestDispatcher()
	d.Out(0xFA, 0x80) // offset 0x3A -> CBAR
	if mmu.CBAR != 0x80 {
		t.Fatalf("CBAR = 0x%02X, want 0x80", mmu.CBAR)
	}
	if got := d.In(0xFA); got != 0x80 {
		t.Fatalf("In(CBAR offset) = 0x%02X, want 0x80", got)
	}
}

func TestDispatcherICRSetsInternalBase(t *testing.T) {
	d, _, _, _, _ := newTestDispatcher()
	d.Out(0xFF, 0xC0) // offset 0x3F -> ICR
	if d.internalBase != 0xC0 {
		t.Fatalf("internalBase = 0x%02X, want 0xC0", d.internalBase)
	}
	if got := d.In(0xFF); got != 0xC0 {
		t.Fatalf("In(ICR) = 0x%02X, want 0xC0", got)
	}
}

func TestDispatcherPRTTCRRoutesThrough(t *testing.T) {
	d, _, _, _, prt := newTestDispatcher()
	d.Out(0xDA, 0x11) // offset 0x1A -> TCR (TDE0 + TIE0)
	if prt.ReadTCR() != 0x11 {
		t.Fatalf("TCR = 0x%02X, want 0x11", prt.ReadTCR())
	}
	if got := d.In(0xDA); got != 0x11 {
		t.Fatalf("In(TCR offset) = 0x%02X, want 0x11", got)
	}

	prt.WriteTRLDLow(0, 100)
	prt.WriteTMDRLow(0, 1)
	prt.WriteTMDRHigh(0, 0)
	prt.Step(20) // expires channel 0, sets TIF0
	if got := d.In(0xDA); got != 0x11|0x40 {
		t.Fatalf("In(TCR offset) after expiry = 0x%02X, want 0x%02X", got, 0x11|0x40)
	}
}

func TestDispatcherCSIOStubFixedValues(t *testing.T) {
	d, _, _, _, _ := newTestDispatcher()
	if got := d.In(0xCA); got != 0x00 {
		t.Fatalf("CSIO offset 0x0A = 0x%02X, want 0x00", got)
	}
	if got := d.In(0xCB); got != 0xFF {
		t.Fatalf("CSIO offset 0x0B = 0x%02X, want 0xFF", got)
	}
	d.Out(0xCA, 0x99) // writes must be discarded
	if got := d.In(0xCA); got != 0x00 {
		t.Fatalf("CSIO write should not change stub value")
	}
}

func TestDispatcherNonInternalPortRoutesToRegisteredDevice(t *testing.T) {
	d, _, _, _, _ := newTestDispatcher()
	dev := &fakeExternalDevice{}
	d.RegisterDevice(0x20, dev)

	d.Out(0x20, 0x77)
	if dev.lastOut != 0x77 {
		t.Fatalf("external device did not receive Out value")
	}
	dev.inValue = 0x88
	if got := d.In(0x20); got != 0x88 {
		t.Fatalf("In = 0x%02X, want 0x88", got)
	}
}

func TestDispatcherUnmappedExternalPortDefaults(t *testing.T) {
	d, _, _, _, _ := newTestDispatcher()
	if got := d.In(0x20); got != 0xFF {
		t.Fatalf("unmapped external read = 0x%02X, want 0xFF", got)
	}
	d.Out(0x20, 0x01) // must not panic; discarded silently
}

func TestDispatcherInterruptArbitrationPriority(t *testing.T) {
	d, _, asci0, _, prt := newTestDispatcher()
	d.regs[0x33] = 0xE0 // IL

	asci0.WriteCNTLA(0x08)
	asci0.ReceiveFromConsole(0x01)
	prt.WriteTCR(0x11)
	prt.WriteTRLDLow(0, 1)
	prt.WriteTMDRLow(0, 1)
	prt.WriteTMDRHigh(0, 0)
	prt.Step(20) // expires channel 0

	vector, ok := d.PendingInterrupt()
	if !ok {
		t.Fatalf("expected a pending interrupt")
	}
	if vector != 0xE0|0x04 {
		t.Fatalf("vector = 0x%02X, want PRT0 vector 0x%02X", vector, 0xE0|0x04)
	}
}

func TestDispatcherPRTInterruptVectorScenario(t *testing.T) {
	d, _, _, _, prt := newTestDispatcher()
	d.regs[0x33] = 0x00

	prt.WriteTCR(0x11)
	prt.WriteTRLDLow(0, 100)
	prt.WriteTMDRLow(0, 1)
	prt.WriteTMDRHigh(0, 0)
	prt.Step(20)

	vector, ok := d.PendingInterrupt()
	if !ok || vector != 0x04 {
		t.Fatalf("vector = 0x%02X ok=%v, want 0x04/true", vector, ok)
	}
}

type fakeExternalDevice struct {
	lastOut byte
	inValue byte
}

func (f *fakeExternalDevice) In(port byte) byte       { return f.inValue }
func (f *fakeExternalDevice) Out(port byte, v byte) { f.lastOut = v }
