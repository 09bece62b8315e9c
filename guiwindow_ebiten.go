//go:build !headless

package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	glyphW = 7
	glyphH = 13
)

// ebitenFrontend renders a monospace glyph grid fed by RenderOutput,
// captures keyboard input via ebiten.AppendInputChars, and forwards a
// Ctrl+V hotkey through the clipboard bridge.
type ebitenFrontend struct {
	cfg       GUIConfig
	mb        *Motherboard
	mu        sync.Mutex
	lines     []string
	visible   bool
	lastError error
}

func NewEbitenFrontend(mb *Motherboard) GUIFrontend {
	return &ebitenFrontend{mb: mb}
}

func (f *ebitenFrontend) Initialize(cfg GUIConfig) error {
	if cfg.Cols == 0 {
		cfg.Cols = 80
	}
	if cfg.Rows == 0 {
		cfg.Rows = 25
	}
	f.cfg = cfg
	return nil
}

func (f *ebitenFrontend) Show() error {
	ebiten.SetWindowSize(f.cfg.Cols*glyphW, f.cfg.Rows*glyphH)
	ebiten.SetWindowTitle(f.cfg.Title)
	ebiten.SetWindowResizable(true)
	f.visible = true
	go func() {
		if err := ebiten.RunGame(f); err != nil {
			f.mu.Lock()
			f.lastError = err
			f.mu.Unlock()
		}
	}()
	return nil
}

func (f *ebitenFrontend) Close() {
	f.visible = false
}

func (f *ebitenFrontend) IsVisible() bool { return f.visible }

func (f *ebitenFrontend) SendEvent(event GUIEvent) {
	switch event.Type {
	case EventPaste:
		for _, b := range ReadClipboardPaste() {
			f.mb.EnqueueHostByte(b)
		}
	}
}

// RenderOutput appends text to the glyph-grid buffer, keeping only the
// most recent Rows lines.
func (f *ebitenFrontend) RenderOutput(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line := ""
	for _, r := range text {
		if r == '\n' {
			f.lines = append(f.lines, line)
			line = ""
			continue
		}
		line += string(r)
	}
	if line != "" {
		f.lines = append(f.lines, line)
	}
	if len(f.lines) > f.cfg.Rows {
		f.lines = f.lines[len(f.lines)-f.cfg.Rows:]
	}
}

func (f *ebitenFrontend) GetLastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// Update implements ebiten.Game: it forwards typed characters to the
// motherboard's host-input queue and watches for the Ctrl+V paste
// hotkey.
func (f *ebitenFrontend) Update() error {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && ebiten.IsKeyPressed(ebiten.KeyV) {
		f.SendEvent(GUIEvent{Type: EventPaste})
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		f.mb.EnqueueHostByte(byte(r))
	}
	return nil
}

func (f *ebitenFrontend) Draw(screen *ebiten.Image) {
	f.mu.Lock()
	lines := append([]string(nil), f.lines...)
	f.mu.Unlock()

	for row, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 0, row*glyphH)
	}
}

func (f *ebitenFrontend) Layout(_, _ int) (int, int) {
	return f.cfg.Cols * glyphW, f.cfg.Rows * glyphH
}
