package main

import (
	"log"
	"time"
)

const (
	internalBaseDefault = 0xC0
	defaultBurstSteps   = 5000
	hostInputInterval   = 10000
	snapshotPeriod      = 30 * time.Second
)

// systemBus adapts the MMU and Dispatcher (kept as separate components
// per the component table) into the single Bus the CPU depends on.
type systemBus struct {
	mmu        *MMU
	dispatcher *Dispatcher
	cycles     uint64
}

func (b *systemBus) Read(addr uint16) byte         { return b.mmu.Read(addr) }
func (b *systemBus) Write(addr uint16, value byte) { b.mmu.Write(addr, value) }
func (b *systemBus) In(port uint16) byte           { return b.dispatcher.In(port) }
func (b *systemBus) Out(port uint16, value byte)   { b.dispatcher.Out(port, value) }
func (b *systemBus) Tick(cycles int)               { b.cycles += uint64(cycles) }
func (b *systemBus) PendingInterrupt() (byte, bool) {
	return b.dispatcher.PendingInterrupt()
}

// Motherboard wires the MMU, ASCI channels, PRT, dispatcher and CPU
// together and drives them from a host-side clock tick (4.F). It also
// owns the host-input queue and the periodic snapshot writer.
type Motherboard struct {
	bus        *systemBus
	mmu        *MMU
	asci0      *ASCI
	asci1      *ASCI
	prt        *PRT
	dispatcher *Dispatcher
	cpu        *CPUZ180

	hostInput  []byte
	lastFed    uint64
	burstSteps int

	snapshotPath string
	snapshotStop chan struct{}
}

// NewMotherboard constructs a fully wired system and loads rom into
// the MMU. If snapshotPath names a file of exactly the RAM size, its
// contents seed RAM; otherwise RAM starts zeroed.
func NewMotherboard(rom []byte, snapshotPath string) *Motherboard {
	mb := &Motherboard{
		mmu:          NewMMU(),
		asci0:        NewASCI(),
		asci1:        NewASCI(),
		prt:          NewPRT(),
		burstSteps:   defaultBurstSteps,
		snapshotPath: snapshotPath,
	}
	mb.dispatcher = NewDispatcher(mb.mmu, mb.asci0, mb.asci1, mb.prt)
	mb.dispatcher.internalBase = internalBaseDefault
	mb.bus = &systemBus{mmu: mb.mmu, dispatcher: mb.dispatcher}
	mb.cpu = NewCPUZ180(mb.bus)

	mb.mmu.LoadROM(rom)
	if data, ok := Load(snapshotPath); ok {
		mb.mmu.LoadRAM(data)
	}

	return mb
}

// RunBurst executes N CPU steps, advances the PRT by the elapsed
// cycles, feeds at most one throttled host-input byte to ASCI0, and
// drains ASCI0's TX queue for the caller to forward to the console.
func (mb *Motherboard) RunBurst() []byte {
	before := mb.bus.cycles
	for i := 0; i < mb.burstSteps; i++ {
		mb.cpu.Step()
	}
	mb.prt.Step(int(mb.bus.cycles - before))

	if len(mb.hostInput) > 0 && mb.bus.cycles-mb.lastFed >= hostInputInterval {
		mb.asci0.ReceiveFromConsole(mb.hostInput[0])
		mb.hostInput = mb.hostInput[1:]
		mb.lastFed = mb.bus.cycles
	}

	return mb.asci0.DrainTx()
}

// EnqueueHostByte appends a byte to the throttled host-input queue.
func (mb *Motherboard) EnqueueHostByte(b byte) {
	mb.hostInput = append(mb.hostInput, b)
}

// RegisterDevice binds an external collaborator (the TTS stub, or any
// future MMIO peripheral) to a port on the I/O dispatcher.
func (mb *Motherboard) RegisterDevice(port byte, dev ExternalDevice) {
	mb.dispatcher.RegisterDevice(port, dev)
}

// Reset zeroes CPU state, resets MMU/PRT/ASCI registers, re-establishes
// the firmware-expected internal base, and clears the input queue.
// ROM is not reloaded: it keeps the image loaded at construction. RAM
// is left untouched.
func (mb *Motherboard) Reset() {
	mb.cpu.Reset()
	mb.mmu.Reset()
	mb.prt.Reset()
	mb.asci0.Reset()
	mb.asci1.Reset()
	mb.dispatcher.Reset()
	mb.dispatcher.internalBase = internalBaseDefault
	mb.hostInput = nil
	mb.lastFed = 0
}

// StartSnapshotTicker starts a background goroutine that saves a RAM
// snapshot every 30 seconds. Call StopSnapshotTicker to stop it.
func (mb *Motherboard) StartSnapshotTicker() {
	if mb.snapshotPath == "" || mb.snapshotStop != nil {
		return
	}
	mb.snapshotStop = make(chan struct{})
	ticker := time.NewTicker(snapshotPeriod)
	stop := mb.snapshotStop
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				mb.saveSnapshot()
			case <-stop:
				return
			}
		}
	}()
}

func (mb *Motherboard) StopSnapshotTicker() {
	if mb.snapshotStop == nil {
		return
	}
	close(mb.snapshotStop)
	mb.snapshotStop = nil
}

// Shutdown forces a final RAM snapshot and stops the background ticker.
func (mb *Motherboard) Shutdown() {
	mb.StopSnapshotTicker()
	mb.saveSnapshot()
}

func (mb *Motherboard) saveSnapshot() {
	if mb.snapshotPath == "" {
		return
	}
	ram := make([]byte, ramSize)
	copy(ram, mb.mmu.RAM[:])
	if err := Save(mb.snapshotPath, ram); err != nil {
		log.Printf("snapshot write failed: %v", err)
	}
}
