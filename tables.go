// tables.go - fixed-point lookup tables shared by every voice.
//
// Every table here is initialized once (offline, using float64 math --
// exactly how the reference sawtooth generator precomputes its partials)
// and is read-only and allocation-free afterwards. Per-sample lookups use
// only integer arithmetic so they stay deterministic across platforms.

package dx7

import (
	"math"
	"sync"
)

// Q24 is the fractional bit count used throughout the audio-rate signal
// path. All Q24 values are stored in int32; multiplications go through
// int64 accumulators and shift back by q24Shift.
const q24Shift = 24
const q24One = int32(1) << q24Shift

const (
	sinLgSamples = 10
	sinSamples   = 1 << sinLgSamples
)

const (
	exp2LgSamples = 10
	exp2Samples   = 1 << exp2LgSamples
	exp2Shift     = q24Shift - exp2LgSamples
)

// sinTable holds one full cycle plus a wraparound guard sample, Q24
// amplitude in [-q24One, q24One].
var sinTable [sinSamples + 1]int32

// exp2FracTable covers 2^f for f in [0,1), represented in Q24 (so values
// run from q24One to just under 2*q24One). Used by exp2Lookup and, via
// freqLookup, by every operator's phase increment.
var exp2FracTable [exp2Samples + 1]int32

var tablesOnce sync.Once
var freqTableRate int

// initTables builds the sine and exp2 fraction tables once, and (re)builds
// the sample-rate-dependent frequency behavior for sampleRate. Safe to
// call repeatedly with the same sampleRate (idempotent, per spec.md 4.A).
func initTables(sampleRate int) {
	tablesOnce.Do(func() {
		for i := 0; i <= sinSamples; i++ {
			angle := 2 * math.Pi * float64(i) / float64(sinSamples)
			sinTable[i] = int32(math.Round(math.Sin(angle) * float64(q24One)))
		}
		for i := 0; i <= exp2Samples; i++ {
			frac := float64(i) / float64(exp2Samples)
			exp2FracTable[i] = int32(math.Round(math.Exp2(frac) * float64(q24One)))
		}
	})
	freqTableRate = sampleRate
	initSawtooth(sampleRate)
}

// sinLookup returns sin(2*pi*phase/2^24) in Q24. phase is a 24-bit
// fixed-point cycle position; only the low 24 bits are significant.
func sinLookup(phase int32) int32 {
	p := uint32(phase) & uint32(q24One-1)
	idx := p >> exp2Shift
	frac := int32(p & (1<<exp2Shift - 1))
	y0 := sinTable[idx]
	y1 := sinTable[idx+1]
	return y0 + int32((int64(y1-y0)*int64(frac))>>exp2Shift)
}

// exp2Lookup returns 2^(x/2^24) in Q24, for x spanning several octaves in
// either direction. The fractional part is interpolated from
// exp2FracTable; the integer part (the octave) becomes a shift, which is
// how the full exponential range fits in an int32 without a table per
// octave (spec.md 4.A, SPEC_FULL.md 7).
func exp2Lookup(x int32) int32 {
	octave := x >> q24Shift // arithmetic shift: floors toward -inf, as needed
	frac := x - (octave << q24Shift)
	idx := uint32(frac) >> exp2Shift
	lowbits := frac & (1<<exp2Shift - 1)
	y0 := exp2FracTable[idx]
	y1 := exp2FracTable[idx+1]
	base := y0 + int32((int64(y1-y0)*int64(lowbits))>>exp2Shift)
	switch {
	case octave == 0:
		return base
	case octave > 0:
		if octave > 6 {
			return math.MaxInt32
		}
		return base << uint(octave)
	default:
		if octave < -30 {
			return 0
		}
		return base >> uint(-octave)
	}
}

// freqLookup converts a Q24 log2(Hz) value into a 24-bit phase increment
// per sample: freq * 2^24 / sampleRate (spec.md 4.A). It is the only
// table-backed computation whose result depends on the sample rate, so it
// derives its increment directly from exp2Lookup rather than its own
// cached table -- exp2Lookup already amortizes the octave-spanning shift
// trick, and freqLookup just needs to additionally divide by sampleRate.
func freqLookup(logFreqQ24 int32) int32 {
	// The octave shift is applied in int64 here: freq*2^24 passes int32
	// range from 128 Hz up, where exp2Lookup itself saturates.
	octave := logFreqQ24 >> q24Shift
	if octave > 30 {
		return math.MaxInt32
	}
	freqHzQ24 := int64(exp2Lookup(logFreqQ24 - octave<<q24Shift))
	if octave >= 0 {
		freqHzQ24 <<= uint(octave)
	} else {
		freqHzQ24 >>= uint(-octave)
	}
	inc := freqHzQ24 / int64(freqTableRate)
	if inc > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(inc)
}
