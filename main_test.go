package main

import "testing"

func TestParseByteArgDecimal(t *testing.T) {
	b, err := parseByteArg("65")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != 'A' {
		t.Fatalf("got 0x%02X, want 'A'", b)
	}
}

func TestParseByteArgHex(t *testing.T) {
	b, err := parseByteArg("0x41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != 'A' {
		t.Fatalf("got 0x%02X, want 'A'", b)
	}
}

func TestParseByteArgOutOfRange(t *testing.T) {
	if _, err := parseByteArg("256"); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}

func TestParseByteArgInvalid(t *testing.T) {
	if _, err := parseByteArg("not-a-byte"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
