package main

import "testing"

func TestXmodemCRC16KnownVector(t *testing.T) {
	// CRC-16/XMODEM of the ASCII string "123456789" is the well-known
	// check value 0x31C3.
	got := xmodemCRC16([]byte("123456789"))
	if got != 0x31C3 {
		t.Fatalf("CRC16 = 0x%04X, want 0x31C3", got)
	}
}

func TestXmodemSendReceiveRoundTrip(t *testing.T) {
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}

	sender := NewXmodemSender(payload)
	receiver := NewXmodemReceiver()

	control := receiver.Start()
	for !sender.Done() {
		frame := sender.Feed(control)
		if frame == nil {
			t.Fatalf("sender produced no frame before completion")
		}
		control = receiver.FeedFrame(frame)
	}
	if control != xmodemACK {
		t.Fatalf("final control = 0x%02X, want ACK", control)
	}
	if !receiver.Done() {
		t.Fatalf("receiver should be done once EOT is ACKed")
	}

	got := receiver.Payload()
	want := make([]byte, 3*xmodemBlockSize) // 300 bytes padded to 3 full blocks
	copy(want, payload)
	for i := len(payload); i < len(want); i++ {
		want[i] = xmodemPad
	}
	if len(got) != len(want) {
		t.Fatalf("payload length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}

func TestXmodemReceiverRejectsBadCRC(t *testing.T) {
	r := NewXmodemReceiver()
	frame := make([]byte, 3+xmodemBlockSize+2)
	frame[0] = xmodemSOH
	frame[1] = 1
	frame[2] = ^byte(1)
	frame[3+xmodemBlockSize] = 0xFF
	frame[3+xmodemBlockSize+1] = 0xFF

	if got := r.FeedFrame(frame); got != xmodemNAK {
		t.Fatalf("control = 0x%02X, want NAK on bad CRC", got)
	}
}

func TestXmodemReceiverHonorsCAN(t *testing.T) {
	r := NewXmodemReceiver()
	if got := r.FeedFrame([]byte{xmodemCAN}); got != xmodemCAN {
		t.Fatalf("control = 0x%02X, want CAN echoed back", got)
	}
	if !r.Done() {
		t.Fatalf("receiver should stop on CAN")
	}
}

func TestXmodemSenderStopsOnCAN(t *testing.T) {
	s := NewXmodemSender([]byte("hello"))
	s.Feed(xmodemCAN)
	if !s.Done() {
		t.Fatalf("sender should stop once it sees CAN")
	}
}
