package main

import (
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	ttsSampleRate = 22050
	ttsToneHz     = 440.0
	ttsToneLen    = ttsSampleRate / 5 // a fifth of a second per allophone
)

// TTSDevice is a narrow stand-in for an SP0256-style allophone
// synthesizer. spec.md explicitly disclaims hardware-accurate audio as
// a non-goal, so Speak renders a short tone through oto rather
// than real allophone synthesis — its only job is to prove the hook
// is wired end to end.
type TTSDevice struct {
	ctx    *oto.Context
	mutex  sync.Mutex
	player *oto.Player
}

func NewTTSDevice() (*TTSDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   ttsSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &TTSDevice{ctx: ctx}, nil
}

// Speak plays a short tone whose pitch varies with the allophone code,
// standing in for the SP0256 hardware hook.
func (t *TTSDevice) Speak(allophoneCode byte) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	freq := ttsToneHz * (1.0 + float64(allophoneCode)/128.0)
	samples := make([]float32, ttsToneLen)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / ttsSampleRate))
	}

	if t.player != nil {
		t.player.Close()
	}
	t.player = t.ctx.NewPlayer(&toneReader{samples: samples})
	t.player.Play()
}

func (t *TTSDevice) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.player != nil {
		t.player.Close()
		t.player = nil
	}
}

// In/Out let TTSDevice be registered against an external port on the
// dispatcher (io_dispatcher.go's ExternalDevice capability): writing an
// allophone code speaks it, reading back reports 0x00 while a tone is
// still playing and 0xFF once idle, the minimal "busy" handshake the
// firmware's speech driver polls for.
func (t *TTSDevice) Out(_ byte, value byte) {
	t.Speak(value)
}

func (t *TTSDevice) In(_ byte) byte {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.player != nil && t.player.IsPlaying() {
		return 0x00
	}
	return 0xFF
}

// toneReader adapts a precomputed sample buffer to io.Reader for oto.
type toneReader struct {
	samples []float32
	pos     int
}

func (r *toneReader) Read(p []byte) (int, error) {
	n := 0
	for n+4 <= len(p) && r.pos < len(r.samples) {
		bits := math.Float32bits(r.samples[r.pos])
		p[n] = byte(bits)
		p[n+1] = byte(bits >> 8)
		p[n+2] = byte(bits >> 16)
		p[n+3] = byte(bits >> 24)
		n += 4
		r.pos++
	}
	for n < len(p) {
		p[n] = 0
		n++
	}
	if r.pos >= len(r.samples) {
		return n, nil
	}
	return n, nil
}
