package main

import (
	"log"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// ConsoleHost puts stdin into raw mode and feeds every byte it reads
// into a Motherboard's host-input queue, exactly the transport role
// terminal_host.go played for the teacher's MMIO terminal device.
type ConsoleHost struct {
	mb           *Motherboard
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewConsoleHost(mb *Motherboard) *ConsoleHost {
	return &ConsoleHost{
		mb:     mb,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw mode when it is a terminal, makes it
// non-blocking, and begins forwarding bytes to the motherboard in a
// background goroutine. A stdin that is not a terminal (a pipe) is
// read without raw mode. Call Stop to restore the terminal.
func (h *ConsoleHost) Start() {
	h.fd = int(os.Stdin.Fd())

	if oldState, err := term.MakeRaw(h.fd); err != nil {
		log.Printf("console: stdin not in raw mode: %v", err)
	} else {
		h.oldTermState = oldState
	}

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		log.Printf("console: failed to set nonblocking stdin: %v", err)
		if h.oldTermState != nil {
			_ = term.Restore(h.fd, h.oldTermState)
			h.oldTermState = nil
		}
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.mb.EnqueueHostByte(buf[0])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// Stop terminates the reader goroutine and restores stdin.
func (h *ConsoleHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// WriteConsoleOutput writes bytes drained from ASCI0's TX queue to
// stdout. Backspace is written as BS, space, BS so the previous glyph
// is erased; tab, LF, CR and every other byte are written through
// unchanged for the terminal to act on (a terminal moves a tab to its
// next tab stop, every 8 columns by default).
func WriteConsoleOutput(out []byte) {
	for _, b := range out {
		switch b {
		case 0x08:
			os.Stdout.Write([]byte{0x08, ' ', 0x08})
		default:
			os.Stdout.Write([]byte{b})
		}
	}
}
