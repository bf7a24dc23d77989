// errors.go - construction-time error kinds
//
// Everything on the audio/MIDI hot path is silent-recoverable (spec.md 7).
// Most of these are returned from construction, before any real-time
// deadline applies; errBankTooSmall comes from LoadBank, and
// errSamplesNotMultiple from GetSamples when its sample count or output
// slice is unusable.

package dx7

import "errors"

var (
	errInvalidSampleRate   = errors.New("dx7: sample rate must be positive")
	errInvalidRingCapacity = errors.New("dx7: ring buffer capacity must be a positive power of two")
	errBankTooSmall        = errors.New("dx7: patch bank must be exactly 4096 bytes")
	errSamplesNotMultiple  = errors.New("dx7: sample count must be a positive multiple of the control block size")
)
