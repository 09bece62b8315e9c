//go:build !headless

package main

import "testing"

func TestEbitenFrontendRenderOutputKeepsOnlyRecentRows(t *testing.T) {
	mb := NewMotherboard(nil, "")
	f := NewEbitenFrontend(mb).(*ebitenFrontend)
	f.cfg = GUIConfig{Cols: 80, Rows: 2}

	f.RenderOutput("line1\nline2\nline3\n")

	f.mu.Lock()
	got := append([]string(nil), f.lines...)
	f.mu.Unlock()

	if len(got) != 2 {
		t.Fatalf("lines = %v, want 2 retained lines", got)
	}
	if got[0] != "line2" || got[1] != "line3" {
		t.Fatalf("lines = %v, want [line2 line3]", got)
	}
}
