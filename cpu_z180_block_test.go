package main

import "testing"

func TestLDIRCopiesAllBytesAndClearsPV(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB0}) // LDIR
	rig.cpu.SetHL(0x1000)
	rig.cpu.SetDE(0x2000)
	rig.cpu.SetBC(3)
	rig.bus.mem[0x1000] = 0xAA
	rig.bus.mem[0x1001] = 0xBB
	rig.bus.mem[0x1002] = 0xCC

	// LDIR loops in place until BC==0; drive enough steps to finish.
	for i := 0; i < 3; i++ {
		rig.cpu.Step()
	}

	requireEqualU8(t, "(0x2000)", rig.bus.mem[0x2000], 0xAA)
	requireEqualU8(t, "(0x2001)", rig.bus.mem[0x2001], 0xBB)
	requireEqualU8(t, "(0x2002)", rig.bus.mem[0x2002], 0xCC)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0)
	if rig.cpu.Flag(flagPV) {
		t.Fatalf("P/V should be clear once BC reaches 0")
	}
}

func TestLDIRWithZeroBCRunsOnceThenWraps(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB0}) // LDIR
	rig.cpu.SetHL(0x1000)
	rig.cpu.SetDE(0x2000)
	rig.cpu.SetBC(0)
	rig.bus.mem[0x1000] = 0x42

	rig.cpu.Step() // single LDI; BC wraps to 0xFFFF but must not repeat

	requireEqualU8(t, "(0x2000)", rig.bus.mem[0x2000], 0x42)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0xFFFF)
	if rig.cpu.PC != 0x0002 {
		t.Fatalf("PC = 0x%04X, want 0x0002 (LDIR must terminate, not repeat)", rig.cpu.PC)
	}

	rig.bus.mem[0x1001] = 0x99
	rig.cpu.Step() // next fetch must read whatever follows LDIR, not loop again
	if rig.bus.mem[0x2001] == 0x99 {
		t.Fatalf("LDIR repeated after BC wrapped to 0xFFFF from a starting BC of 0")
	}
}

func TestCPIRWithZeroBCRunsOnceThenWraps(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB1}) // CPIR
	rig.cpu.A = 0x42
	rig.cpu.SetHL(0x1000)
	rig.cpu.SetBC(0)
	rig.bus.mem[0x1000] = 0x99 // no match, so Z stays clear too

	rig.cpu.Step() // single CPI; BC wraps to 0xFFFF but must not repeat

	requireEqualU16(t, "BC", rig.cpu.BC(), 0xFFFF)
	if rig.cpu.PC != 0x0002 {
		t.Fatalf("PC = 0x%04X, want 0x0002 (CPIR must terminate, not repeat)", rig.cpu.PC)
	}
}

func TestEXDEHLTwiceIsIdentity(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0xEB, 0xEB}) // EX DE,HL twice
	rig.cpu.SetDE(0x1234)
	rig.cpu.SetHL(0x5678)

	rig.cpu.Step()
	rig.cpu.Step()

	requireEqualU16(t, "DE", rig.cpu.DE(), 0x1234)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x5678)
}

func TestEXXTwiceIsIdentity(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0xD9, 0xD9}) // EXX twice
	rig.cpu.SetBC(0x1111)
	rig.cpu.SetDE(0x2222)
	rig.cpu.SetHL(0x3333)

	rig.cpu.Step()
	rig.cpu.Step()

	requireEqualU16(t, "BC", rig.cpu.BC(), 0x1111)
	requireEqualU16(t, "DE", rig.cpu.DE(), 0x2222)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x3333)
}

func TestPushPopRoundTrip(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0xC5, 0xC1}) // PUSH BC ; POP BC
	rig.cpu.SetBC(0xBEEF)
	rig.cpu.SP = 0x8000

	rig.cpu.Step()
	rig.cpu.Step()

	requireEqualU16(t, "BC", rig.cpu.BC(), 0xBEEF)
	requireEqualU16(t, "SP", rig.cpu.SP, 0x8000)
}

func TestLDNNHLRoundTrip(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0x22, 0x00, 0x30, 0x2A, 0x00, 0x30}) // LD (0x3000),HL ; LD HL,(0x3000)
	rig.cpu.SetHL(0xCAFE)

	rig.cpu.Step()
	rig.cpu.SetHL(0)
	rig.cpu.Step()

	requireEqualU16(t, "HL", rig.cpu.HL(), 0xCAFE)
}

func TestRLCThenRRCIsIdentity(t *testing.T) {
	rig := newCPUZ180TestRig()
	rig.resetAndLoad(0x0000, []byte{0x07, 0x0F}) // RLCA ; RRCA
	rig.cpu.A = 0x81

	rig.cpu.Step()
	rig.cpu.Step()

	requireEqualU8(t, "A", rig.cpu.A, 0x81)
}
