package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ram.bin")

	ram := make([]byte, ramSize)
	ram[0] = 0xAA
	ram[ramSize-1] = 0x55

	if err := Save(path, ram); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok := Load(path)
	if !ok {
		t.Fatalf("Load reported failure on a valid snapshot")
	}
	if len(got) != ramSize {
		t.Fatalf("loaded length = %d, want %d", len(got), ramSize)
	}
	if got[0] != 0xAA || got[ramSize-1] != 0x55 {
		t.Fatalf("loaded contents did not round-trip")
	}
}

func TestLoadMissingFileReturnsNotOK(t *testing.T) {
	_, ok := Load(filepath.Join(t.TempDir(), "missing.bin"))
	if ok {
		t.Fatalf("Load should report false for a missing file")
	}
}

func TestLoadWrongSizeReturnsNotOK(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}

	_, ok := Load(path)
	if ok {
		t.Fatalf("Load should reject a file that isn't exactly ramSize bytes")
	}
}

func TestLoadEmptyPathReturnsNotOK(t *testing.T) {
	_, ok := Load("")
	if ok {
		t.Fatalf("Load with empty path should report false")
	}
}
