// keyboard_host.go - raw stdin keystrokes become MIDI note on/off bytes,
// adapted from the raw-mode terminal host pattern this tool was built
// alongside (golang.org/x/term for MakeRaw/Restore).
package main

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/opfm/dx7engine"
)

// keyRow maps a row of QWERTY keys to consecutive MIDI notes starting at
// middle C (60), piano-style.
var keyRow = []byte("awsedftgyhujk")

const sustainToggleKey = 'q'
const quitKey = 0x1b // esc

type keyboardHost struct {
	engine  *dx7.Engine
	fd      int
	oldTerm *term.State
	held    map[byte]bool
	sustain bool
}

func newKeyboardHost(engine *dx7.Engine) (*keyboardHost, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &keyboardHost{engine: engine, fd: fd, oldTerm: old, held: make(map[byte]bool)}, nil
}

// Run reads raw keystrokes until esc, translating key-down transitions
// into note on/off MIDI bytes. A terminal delivers no key-up event, so
// each keystroke is treated as an immediate on followed by an off -- good
// enough for a one-shot-per-keystroke demo, not a true sustained chord.
func (h *keyboardHost) Run() {
	defer term.Restore(h.fd, h.oldTerm)
	_ = syscall.SetNonblock(h.fd, true)
	defer syscall.SetNonblock(h.fd, false)

	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == quitKey {
				return
			}
			if b == sustainToggleKey {
				h.sustain = !h.sustain
				h.sendControlChange(64, sustainValue(h.sustain))
				continue
			}
			if note, ok := noteForKey(b); ok {
				h.sendNoteOn(note, 100)
				h.sendNoteOff(note)
			}
			continue
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

func sustainValue(on bool) int {
	if on {
		return 127
	}
	return 0
}

func noteForKey(b byte) (int, bool) {
	for i, k := range keyRow {
		if k == b {
			return 60 + i, true
		}
	}
	return 0, false
}

func (h *keyboardHost) sendNoteOn(note, velocity int) {
	h.engine.SendMidi([]byte{0x90, byte(note), byte(velocity)})
}

func (h *keyboardHost) sendNoteOff(note int) {
	h.engine.SendMidi([]byte{0x80, byte(note), 0})
}

func (h *keyboardHost) sendControlChange(controller, value int) {
	h.engine.SendMidi([]byte{0xb0, byte(controller), byte(value)})
}
