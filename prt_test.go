package main

import "testing"

func TestPRTResetDefaults(t *testing.T) {
	p := NewPRT()
	if p.tmdr[0] != 0xFFFF || p.tmdr[1] != 0xFFFF {
		t.Fatalf("TMDR should reset to 0xFFFF")
	}
	if p.trld[0] != 0xFFFF || p.trld[1] != 0xFFFF {
		t.Fatalf("TRLD should reset to 0xFFFF")
	}
	if p.tcr != 0 {
		t.Fatalf("TCR should reset to 0")
	}
}

func TestPRTInterruptScenario(t *testing.T) {
	p := NewPRT()
	p.WriteTCR(0x11) // TDE0 + TIE0
	p.WriteTRLDLow(0, 100)
	p.WriteTRLDHigh(0, 0)
	p.WriteTMDRLow(0, 1)
	p.WriteTMDRHigh(0, 0)

	p.Step(20) // ticks = 1

	if got := p.ReadTMDRLow(0); got != 100 {
		t.Fatalf("TMDR0 low = %d, want 100", got)
	}
	if got := p.ReadTMDRHigh(0); got != 0 {
		t.Fatalf("TMDR0 high = %d, want 0", got)
	}
	if !p.InterruptPending(0) {
		t.Fatalf("channel 0 interrupt should be pending after expiry")
	}
}

func TestPRTStepDecrementsWithoutExpiry(t *testing.T) {
	p := NewPRT()
	p.WriteTCR(0x01) // TDE0 only
	p.WriteTMDRLow(0, 50)
	p.WriteTMDRHigh(0, 0)

	p.Step(40) // ticks = 2

	if got := p.ReadTMDRLow(0); got != 48 {
		t.Fatalf("TMDR0 = %d, want 48", got)
	}
	if p.InterruptPending(0) {
		t.Fatalf("no interrupt should be pending before expiry")
	}
}

func TestPRTWriteOneToTIFDoesNotSetIt(t *testing.T) {
	p := NewPRT()
	p.WriteTCR(0xC0) // attempt to set both TIF bits directly
	if p.tcr&tcrTIF0 != 0 || p.tcr&tcrTIF1 != 0 {
		t.Fatalf("TIF bits must never be settable via direct write")
	}
}

func TestPRTWriteZeroToTIFClearsIt(t *testing.T) {
	p := NewPRT()
	p.WriteTCR(0x11)
	p.WriteTRLDLow(0, 1)
	p.WriteTMDRLow(0, 1)
	p.WriteTMDRHigh(0, 0)
	p.Step(20)
	if !p.InterruptPending(0) {
		t.Fatalf("expected TIF0 to be set")
	}

	p.WriteTCR(0x11) // TIF0 bit written as 0 alongside TDE0/TIE0
	if p.tcr&tcrTIF0 != 0 {
		t.Fatalf("writing 0 to TIF0 should clear it")
	}
}

func TestPRTChannelsAreIndependent(t *testing.T) {
	p := NewPRT()
	p.WriteTCR(0x02) // TDE1 only
	p.WriteTMDRLow(1, 5)
	p.WriteTMDRHigh(1, 0)

	p.Step(20)

	if p.ReadTMDRLow(0) != 0xFF || p.ReadTMDRHigh(0) != 0xFF {
		t.Fatalf("channel 0 should be untouched when only TDE1 is set")
	}
	if got := p.ReadTMDRLow(1); got != 4 {
		t.Fatalf("TMDR1 = %d, want 4", got)
	}
}
