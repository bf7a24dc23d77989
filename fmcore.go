// fmcore.go - per-operator phase modulation and the per-block render loop
//
// An operator's frequency is either a ratio of the note's fundamental or a
// fixed Hz value (spec.md 3's freq mode/coarse/fine/detune fields); the
// upstream dx7note.cc that defines the exact coarse/fine encoding wasn't
// part of the retrieval pack, so computeOperatorLogFreq below is a
// deliberate, documented reconstruction (same reasoning as patch.go's
// byte layout and envelope.go's rate table): ratio mode treats coarse 0 as
// 0.5 and 1-31 as themselves, fine scales that ratio up by 0-99%, fixed
// mode treats coarse%4 as a decade and fine as a
// 0-9x multiplier within it, and detune is +-7 one-cent steps either way.
package dx7

import "math"

// blockSize is the number of samples rendered between envelope ticks
// (spec.md 4.D, 4.E); every voice advances its six envelopes exactly once
// per block and linearly interpolates amplitude across it to avoid
// zipper noise at the block boundary.
const blockSize = 64

// noteToLogFreqQ24 converts a MIDI note number to Q24 log2(Hz), taking
// A4 (note 69) as 440Hz.
func noteToLogFreqQ24(midiNote int) int32 {
	octaves := float64(midiNote-69) / 12.0
	freqHz := 440.0 * math.Pow(2, octaves)
	return int32(math.Round(math.Log2(freqHz) * float64(q24One)))
}

// computeOperatorLogFreq derives one operator's Q24 log2(Hz) from the
// note's fundamental and the operator's frequency-mode byte block.
func computeOperatorLogFreq(baseLogFreq int32, opBytes []byte) int32 {
	mode := opBytes[opFreqModeCoarse] & 0x01
	coarse := int((opBytes[opFreqModeCoarse] >> 1) & 0x1f)
	fine := int(opBytes[opFreqFine])
	if fine > 99 {
		fine = 99
	}
	detune := int(opBytes[opDetune])
	if detune > 14 {
		detune = 14
	}
	detuneOctaves := float64(detune-7) / 1200.0

	var log2Freq float64
	if mode == 0 {
		ratio := float64(coarse)
		if coarse == 0 {
			ratio = 0.5
		}
		ratio *= 1 + float64(fine)/100.0
		log2Freq = float64(baseLogFreq)/float64(q24One) + math.Log2(ratio)
	} else {
		decade := coarse % 4
		fixedHz := math.Pow(10, float64(decade)) * (1 + float64(fine)/99.0*9)
		log2Freq = math.Log2(fixedHz)
	}
	log2Freq += detuneOctaves
	return int32(math.Round(log2Freq * float64(q24One)))
}

// outputLevelToQ24 converts an operator's 0-99 output level byte to the
// same Q24 log2-amplitude domain the envelope targets live in, so the two
// combine by simple addition before exp2Lookup turns them linear.
func outputLevelToQ24(b byte) int32 {
	return levelByteToQ24(b)
}

// Oscillator waveform tags. spec.md's REDESIGN FLAGS section prefers a
// tagged variant selected once per operator over a virtual Module
// interface with per-sample dispatch; waveform is decoded once at voice
// construction and read here as a plain field comparison.
const (
	waveSine = iota
	waveSawtooth
)

// fmOperator is one operator's run-time DSP state: a phase accumulator
// advanced every sample, plus a two-word feedback delay line a
// self-modulated operator averages between samples before applying
// fb_shift (spec.md 3, 4.D).
type fmOperator struct {
	phase     int32
	increment int32
	outLevel  int32 // Q24 log2 amplitude, from the operator's output-level byte
	feedback  [2]int32
	waveform  int
	logFreq   int32 // Q24 log2(Hz), needed by the sawtooth table's pitch-slice lookup
}

// oscillatorSample reads the operator's selected waveform table at the
// given modulated phase.
func oscillatorSample(op *fmOperator, phase int32) int32 {
	if op.waveform == waveSawtooth {
		return sawtoothLookup(phase, op.logFreq)
	}
	return sinLookup(phase)
}

// computeVoiceBlock renders blockSize samples, added into the caller's
// buf rather than overwriting it, so several voices can be summed with
// repeated calls (spec.md 4.E). It advances every operator's phase and
// interpolates each one's envelope-driven amplitude linearly from
// ampStart to ampEnd across the block (spec.md 4.D). Operators are
// processed from index 5 down to 0: buildAlgorithm
// only ever lets a higher-indexed operator modulate a lower-indexed one,
// so that order guarantees every modulator's sample is already computed
// before it's needed.
func computeVoiceBlock(alg *algorithm, ops *[6]fmOperator, feedbackShift int32, ampStart, ampEnd [6]int32, buf *[blockSize]int32) {
	var outputs [6]int32
	for n := 0; n < blockSize; n++ {
		var mix int32
		for op := 5; op >= 0; op-- {
			level := ampStart[op] + int32((int64(ampEnd[op]-ampStart[op])*int64(n))/blockSize)
			linearAmp := exp2Lookup(level + ops[op].outLevel)

			var modInput int32
			for _, src := range alg.modulators[op] {
				modInput += outputs[src]
			}
			if op == alg.feedbackOp && feedbackShift < 32 {
				avg := (ops[op].feedback[0] + ops[op].feedback[1]) / 2
				modInput += avg >> uint(feedbackShift)
			}

			sample := oscillatorSample(&ops[op], ops[op].phase+modInput)
			sample = int32((int64(sample) * int64(linearAmp)) >> q24Shift)
			outputs[op] = sample

			if op == alg.feedbackOp {
				ops[op].feedback[1] = ops[op].feedback[0]
				ops[op].feedback[0] = sample
			}
			ops[op].phase += ops[op].increment

			if alg.carrier[op] {
				mix += sample
			}
		}
		buf[n] += mix
	}
}
