//go:build headless

package main

// headlessFrontend implements GUIFrontend as a no-op sink, for CI and
// scripted use where no display is available.
type headlessFrontend struct {
	cfg     GUIConfig
	visible bool
}

func NewEbitenFrontend(mb *Motherboard) GUIFrontend {
	return &headlessFrontend{}
}

func (f *headlessFrontend) Initialize(cfg GUIConfig) error {
	f.cfg = cfg
	return nil
}

func (f *headlessFrontend) Show() error {
	f.visible = true
	return nil
}

func (f *headlessFrontend) Close() {
	f.visible = false
}

func (f *headlessFrontend) IsVisible() bool { return f.visible }

func (f *headlessFrontend) SendEvent(event GUIEvent) {}

func (f *headlessFrontend) RenderOutput(text string) {}

func (f *headlessFrontend) GetLastError() error { return nil }
