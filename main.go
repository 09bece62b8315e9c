// main.go - Command-line entry point for the SC126/SC131 Z180 emulator

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func boilerPlate() {
	fmt.Println("sc126 - Zilog Z180 (SC126/SC131) emulator for RomWBW/CP-M guests")
	fmt.Println("Core: MMU + ASCI + PRT + I/O dispatcher + Z180 interpreter + motherboard")
}

func main() {
	var romPath string
	var snapshotPath string
	var headless bool
	var burstHz int
	var withTTS bool

	rootCmd := &cobra.Command{
		Use:   "sc126",
		Short: "Run the SC126/SC131 Z180 emulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmulator(romPath, snapshotPath, headless, burstHz, withTTS)
		},
	}
	rootCmd.PersistentFlags().StringVar(&romPath, "rom", "", "ROM image path (raw binary, up to 0x80000 bytes)")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "RAM snapshot path (raw 0x80000-byte binary, loaded at start and saved periodically/on exit)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", false, "run without opening a GUI window, console-only")
	rootCmd.PersistentFlags().IntVar(&burstHz, "tick-hz", 100, "host clock tick rate driving RunBurst")
	rootCmd.PersistentFlags().BoolVar(&withTTS, "tts", false, "wire the SP0256-stub TTS device on port 0x20")

	rootCmd.AddCommand(newPasteCmd())
	rootCmd.AddCommand(newSendByteCmd())
	rootCmd.AddCommand(newInspectSnapshotCmd())
	rootCmd.AddCommand(newXmodemSendCmd())
	rootCmd.AddCommand(newXmodemRecvCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runEmulator wires a Motherboard to its console/GUI collaborators and
// drives it at tick-hz until interrupted, per spec.md §4.F / §5.
func runEmulator(romPath, snapshotPath string, headless bool, tickHz int, withTTS bool) error {
	boilerPlate()

	if romPath == "" {
		return fmt.Errorf("--rom is required")
	}
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	mb := NewMotherboard(rom, snapshotPath)

	if withTTS {
		tts, err := NewTTSDevice()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tts: disabled (%v)\n", err)
		} else {
			mb.RegisterDevice(0x20, tts)
			defer tts.Close()
		}
	}

	var gui GUIFrontend
	if !headless {
		if err := InitClipboard(); err != nil {
			fmt.Fprintf(os.Stderr, "clipboard: init failed (%v)\n", err)
		}
		gui = NewEbitenFrontend(mb)
		if err := gui.Initialize(GUIConfig{Width: 800, Height: 600, Title: "SC126 Z180", Cols: 80, Rows: 25}); err != nil {
			return fmt.Errorf("gui init: %w", err)
		}
		if err := gui.Show(); err != nil {
			return fmt.Errorf("gui show: %w", err)
		}
	}

	console := NewConsoleHost(mb)
	console.Start()
	defer console.Stop()

	mb.StartSnapshotTicker()
	defer mb.Shutdown()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if tickHz <= 0 {
		tickHz = 100
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			return nil
		case <-ticker.C:
			out := mb.RunBurst()
			if len(out) > 0 {
				WriteConsoleOutput(out)
				if gui != nil {
					gui.RenderOutput(string(out))
				}
			}
			if gui != nil && !gui.IsVisible() {
				return gui.GetLastError()
			}
		}
	}
}

// newPasteCmd is a stateless filter: normalize stdin's line endings the
// way paste-text does (CRLF/LF -> CR, spec.md §6) and write the result
// to stdout, so it composes as `sc126 paste < file | sc126 --rom ...`.
func newPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Normalize stdin as paste-text (CRLF/LF -> CR) and write to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(NormalizePaste(string(data)))
			return err
		},
	}
}

// newSendByteCmd writes a single raw byte to stdout, for composing a
// one-off send-byte hook into a shell pipeline feeding a running
// instance's stdin.
func newSendByteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-byte <hex-or-decimal>",
		Short: "Write a single byte to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseByteArg(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write([]byte{b})
			return err
		},
	}
}

// parseByteArg accepts either a decimal literal ("65") or a 0x-prefixed
// hex literal ("0x41") and returns the corresponding byte value.
func parseByteArg(s string) (byte, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	base := 10
	if trimmed != strings.ToLower(s) {
		base = 16
	}
	v, err := strconv.ParseUint(trimmed, base, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q: %w", s, err)
	}
	return byte(v), nil
}

// newInspectSnapshotCmd reports whether a snapshot file would load, per
// spec.md §7's size-mismatch-is-ignored policy.
func newInspectSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect-snapshot <path>",
		Short: "Report whether a RAM snapshot file is exactly 0x80000 bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if info.Size() == ramSize {
				fmt.Printf("%s: valid snapshot (0x%X bytes)\n", args[0], info.Size())
				return nil
			}
			fmt.Printf("%s: ignored on load, size 0x%X != 0x%X\n", args[0], info.Size(), int64(ramSize))
			return nil
		},
	}
}

// newXmodemSendCmd frames a file into XMODEM-CRC blocks, reading the
// receiver's handshake bytes from stdin and writing frames to stdout,
// so it sits directly on top of the console byte stream (spec.md §6).
func newXmodemSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xmodem-send <file>",
		Short: "Send a file as XMODEM-CRC frames over stdin/stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sender := NewXmodemSender(data)
			in := make([]byte, 1)
			for !sender.Done() {
				n, err := os.Stdin.Read(in)
				if n == 0 || err != nil {
					if err == io.EOF {
						return fmt.Errorf("receiver closed before transfer completed")
					}
					return err
				}
				frame := sender.Feed(in[0])
				if len(frame) > 0 {
					if _, err := os.Stdout.Write(frame); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// newXmodemRecvCmd is the receive-side counterpart: it writes the
// initial 'C' handshake byte, reads framed blocks from stdin, replies
// with ACK/NAK over stdout, and saves the reassembled payload.
func newXmodemRecvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xmodem-recv <outfile>",
		Short: "Receive XMODEM-CRC frames over stdin/stdout and save to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recv := NewXmodemReceiver()
			if _, err := os.Stdout.Write([]byte{recv.Start()}); err != nil {
				return err
			}
			frameBuf := make([]byte, 0, 133)
			for !recv.Done() {
				b := make([]byte, 1)
				n, err := os.Stdin.Read(b)
				if n == 0 || err != nil {
					if err == io.EOF {
						break
					}
					return err
				}
				if len(frameBuf) == 0 && (b[0] == 0x04 || b[0] == 0x18) { // EOT / CAN are single-byte frames
					reply := recv.FeedFrame(b)
					if _, err := os.Stdout.Write([]byte{reply}); err != nil {
						return err
					}
					continue
				}
				frameBuf = append(frameBuf, b[0])
				if len(frameBuf) == 1+1+1+128+2 {
					reply := recv.FeedFrame(frameBuf)
					frameBuf = frameBuf[:0]
					if _, err := os.Stdout.Write([]byte{reply}); err != nil {
						return err
					}
				}
			}
			return os.WriteFile(args[0], recv.Payload(), 0644)
		},
	}
}
