package main

import "testing"

func TestNormalizePasteConvertsCRLF(t *testing.T) {
	got := NormalizePaste("abc\r\ndef")
	want := "abc\rdef"
	if string(got) != want {
		t.Fatalf("NormalizePaste = %q, want %q", got, want)
	}
}

func TestNormalizePasteConvertsLoneLF(t *testing.T) {
	got := NormalizePaste("abc\ndef")
	want := "abc\rdef"
	if string(got) != want {
		t.Fatalf("NormalizePaste = %q, want %q", got, want)
	}
}

func TestNormalizePasteLeavesOtherBytesUntouched(t *testing.T) {
	got := NormalizePaste("hello, world! \t 0x42")
	want := "hello, world! \t 0x42"
	if string(got) != want {
		t.Fatalf("NormalizePaste = %q, want %q", got, want)
	}
}

func TestNormalizePasteHandlesLoneCR(t *testing.T) {
	got := NormalizePaste("abc\rdef")
	want := "abc\rdef"
	if string(got) != want {
		t.Fatalf("NormalizePaste = %q, want %q", got, want)
	}
}
