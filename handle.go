// handle.go - the Core API host bindings call: create, send_midi,
// get_samples, destroy (spec.md 2, 9).

package dx7

import (
	"io"
	"log"
)

// Engine is a complete, independent synthesizer instance. It is safe for
// one goroutine to call SendMidi while another calls GetSamples -- that
// is exactly the producer/consumer split the ring buffer exists for --
// but GetSamples itself must not be called concurrently with another
// GetSamples, nor SendMidi with another SendMidi.
type Engine struct {
	unit *synthUnit
}

// Option configures an Engine at construction time.
type Option func(*engineOptions)

type engineOptions struct {
	logger *log.Logger
}

// WithLogger routes diagnostic messages (dropped MIDI, malformed sysex)
// to logger. A nil logger (the default) is silent (SPEC_FULL.md 3.1).
func WithLogger(logger *log.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

// Silent returns a logger that discards everything, for callers that want
// to be explicit about opting out of diagnostics.
func Silent() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// Create builds a new Engine at the given sample rate, in Hz (spec.md 4.G
// "create"). The only construction-time errors are an invalid sample
// rate or a failed ring-buffer capacity check; after Create succeeds the
// only hot-path error is GetSamples rejecting a bad sample count.
func Create(sampleRate int, opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	unit, err := newSynthUnit(sampleRate, o.logger)
	if err != nil {
		return nil, err
	}
	return &Engine{unit: unit}, nil
}

// SendMidi queues raw MIDI bytes -- one or more complete or partial
// messages -- for processing on the next GetSamples call, returning how
// many bytes were accepted (spec.md 4.G "send_midi").
func (e *Engine) SendMidi(data []byte) int {
	return e.unit.sendMidi(data)
}

// GetSamples renders n samples of 16-bit PCM into out (spec.md 4.G
// "get_samples"). n must be a positive multiple of the engine's internal
// control block size.
func (e *Engine) GetSamples(n int, out []int16) error {
	return e.unit.getSamples(n, out)
}

// LoadBank replaces the active patch bank with a raw 4096-byte sysex
// bulk-dump payload, the same path a sysex MIDI message would take
// (spec.md 4.G).
func (e *Engine) LoadBank(payload []byte) error {
	if len(payload) != bankSize {
		return errBankTooSmall
	}
	e.unit.bank.loadSysexPayload(payload)
	return nil
}

// CurrentPatchName returns the name of the currently selected patch
// (spec.md 3, 4.E "patch name", 4.G "current-patch reporting").
func (e *Engine) CurrentPatchName() string {
	return patchName(e.unit.bank.patch(e.unit.program))
}

// Close releases the Engine. There is nothing to flush or unwind on this
// engine's resource model -- no goroutines, no open files -- but the
// method exists so callers have a symmetrical "destroy" per spec.md 4.G
// and so a future resource can be added without an API break.
func (e *Engine) Close() error {
	return nil
}
