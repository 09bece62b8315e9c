package main

import (
	"bytes"

	"golang.design/x/clipboard"
)

// InitClipboard starts the clipboard package's platform backend. It
// must be called once before ReadClipboardPaste is used.
func InitClipboard() error {
	return clipboard.Init()
}

// NormalizePaste converts CRLF and lone LF to CR, per spec.md §6's
// paste-text normalization rule, leaving every other byte untouched.
func NormalizePaste(text string) []byte {
	var out bytes.Buffer
	data := []byte(text)
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == '\r' && i+1 < len(data) && data[i+1] == '\n':
			out.WriteByte('\r')
			i++
		case b == '\n':
			out.WriteByte('\r')
		default:
			out.WriteByte(b)
		}
	}
	return out.Bytes()
}

// ReadClipboardPaste reads the current clipboard text contents,
// already normalized and ready to feed to a host-input queue.
func ReadClipboardPaste() []byte {
	data := clipboard.Read(clipboard.FmtText)
	if data == nil {
		return nil
	}
	return NormalizePaste(string(data))
}
