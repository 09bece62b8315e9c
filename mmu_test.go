package main

import "testing"

func TestTranslateBelowBankAreaIsIdentity(t *testing.T) {
	m := NewMMU()
	m.CBAR = 0xF4 // BA threshold = 4 << 12 = 0x4000, so 0x1234 lies below BA
	m.BBR = 0x20
	if got := m.Translate(0x1234); got != 0x1234 {
		t.Fatalf("translate = 0x%05X, want identity 0x1234", got)
	}
}

func TestTranslateStaysWithinPhysicalRange(t *testing.T) {
	m := NewMMU()
	for _, cbar := range []byte{0x00, 0x0F, 0xF0, 0xFF, 0x80} {
		m.CBAR = cbar
		m.BBR = 0xFF
		m.CBR = 0xFF
		for _, logical := range []uint16{0, 0x7FFF, 0x8000, 0xFFFF} {
			phys := m.Translate(logical)
			if phys >= memSize { // memSize is the top of RAM; 0x100000 total span
				t.Fatalf("CBAR=0x%02X logical=0x%04X: phys 0x%05X out of range", cbar, logical, phys)
			}
		}
	}
}

func TestBankSwitchReadsCorrectPhysicalByte(t *testing.T) {
	m := NewMMU()
	m.CBAR = 0x80 // CA threshold = 0x8000, so logical 0x8000 is in common area 1
	m.CBR = 0x98  // 0x8000 + (0x98 << 12) = 0xA0000
	m.RAM[0xA0000-romSize] = 0x55

	if got := m.Translate(0x8000); got != 0xA0000 {
		t.Fatalf("translate(0x8000) = 0x%05X, want 0xA0000", got)
	}
	if got := m.Read(0x8000); got != 0x55 {
		t.Fatalf("read(0x8000) = 0x%02X, want 0x55", got)
	}
}

func TestWriteReadRoundTripInRAM(t *testing.T) {
	m := NewMMU()
	m.CBAR = 0x80
	m.CBR = 0x80 // logical 0x8000 -> physical 0x88000 (RAM)
	m.Write(0x8000, 0x42)
	if got := m.Read(0x8000); got != 0x42 {
		t.Fatalf("read-after-write = 0x%02X, want 0x42", got)
	}
}

func TestWriteToROMIsDiscarded(t *testing.T) {
	m := NewMMU()
	m.ROM[0] = 0xAA
	m.Write(0x0000, 0x99) // bank area with BBR=0, maps to physical 0x0000 (ROM)
	if got := m.Read(0x0000); got != 0xAA {
		t.Fatalf("ROM write should be ignored; read = 0x%02X, want 0xAA", got)
	}
}

func TestResetRestoresRegisterDefaults(t *testing.T) {
	m := NewMMU()
	m.CBAR, m.BBR, m.CBR = 0x12, 0x34, 0x56
	m.Reset()
	requireEqualU8(t, "CBAR", m.CBAR, 0xF0)
	requireEqualU8(t, "BBR", m.BBR, 0x00)
	requireEqualU8(t, "CBR", m.CBR, 0x00)
}

func TestLoadROMShorterThanFullSizeZeroPads(t *testing.T) {
	m := NewMMU()
	m.LoadROM([]byte{0x01, 0x02, 0x03})
	requireEqualU8(t, "ROM[0]", m.ROM[0], 0x01)
	requireEqualU8(t, "ROM[2]", m.ROM[2], 0x03)
	requireEqualU8(t, "ROM[3]", m.ROM[3], 0x00)
}
