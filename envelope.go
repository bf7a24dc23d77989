// envelope.go - four-stage ADSR producing a Q24 log-amplitude per tick
//
// One tick is one control block (N samples, see fmcore.go); advance is
// called exactly once per block from Dx7Note.compute (spec.md 4.E).
// Levels live in Q24 log2 space: 0 means full scale, more negative means
// quieter; exp2Lookup turns a level into a linear Q24 amplitude.

package dx7

import "math"

const (
	envStageAttack = iota
	envStageDecay
	envStageSustain
	envStageRelease
	envStageDone
)

// envFloor is the quietest representable level: -16 octaves below full
// scale is inaudible at any sample rate this engine targets, and keeps
// exp2Lookup's octave shift comfortably inside int32 range.
const envFloor = int32(-16) << q24Shift

// envRateTable maps a 0-99 DX7 rate byte to a per-tick Q24 level delta.
// The DX7's published rate curve is roughly exponential -- rate 99
// crosses the full envelope range in about two ticks, rate 0 takes
// thousands (SPEC_FULL.md 7: resolved Open Question, the original env.cc
// curve was not present in the retrieval pack, so this is a deliberate,
// documented reconstruction rather than a guess at missing bytes).
var envRateTable [100]int32

func init() {
	const slowest = 3000.0 // ticks to cross the full range at rate 0
	const fastest = 2.0    // ticks to cross the full range at rate 99
	fullRange := float64(-envFloor)
	deltaSlow := fullRange / slowest
	deltaFast := fullRange / fastest
	for r := 0; r < 100; r++ {
		t := float64(r) / 99.0
		delta := deltaSlow * math.Pow(deltaFast/deltaSlow, t)
		envRateTable[r] = int32(delta + 0.5)
	}
}

// envelope is a single operator's ADSR state.
type envelope struct {
	stage   int
	level   int32 // current Q24 log-amplitude
	targets [4]int32
	rates   [4]int32
}

// newEnvelope decodes an operator's four rate/level byte pairs and starts
// the envelope at the attack stage from the envelope floor.
func newEnvelope(opBytes []byte) envelope {
	e := envelope{stage: envStageAttack, level: envFloor}
	rates := [4]byte{opBytes[opEGRate1], opBytes[opEGRate2], opBytes[opEGRate3], opBytes[opEGRate4]}
	levels := [4]byte{opBytes[opEGLevel1], opBytes[opEGLevel2], opBytes[opEGLevel3], opBytes[opEGLevel4]}
	for i := 0; i < 4; i++ {
		e.rates[i] = envRateTable[clampByteRate(rates[i])]
		e.targets[i] = levelByteToQ24(levels[i])
	}
	return e
}

func clampByteRate(b byte) byte {
	if b > 99 {
		return 99
	}
	return b
}

// levelByteToQ24 maps a 0-99 DX7 level byte onto [envFloor, 0] linearly in
// log2 space: 99 is full scale, 0 is the envelope floor.
func levelByteToQ24(b byte) int32 {
	if b > 99 {
		b = 99
	}
	return envFloor + int32((int64(-envFloor)*int64(b))/99)
}

// advance moves the envelope forward by nticks control blocks and returns
// the resulting Q24 log-amplitude. Reaching stage 0 or 1's target moves to
// the next stage; reaching stage 2's (sustain) target just holds there
// until keyUp is called; reaching stage 3's (release) target marks the
// envelope done.
func (e *envelope) advance(nticks int) int32 {
	for t := 0; t < nticks && e.stage != envStageDone; t++ {
		target := e.targets[e.stage]
		rate := e.rates[e.stage]
		if e.level < target {
			e.level += rate
			if e.level > target {
				e.level = target
			}
		} else if e.level > target {
			e.level -= rate
			if e.level < target {
				e.level = target
			}
		}
		if e.level == target {
			switch e.stage {
			case envStageAttack, envStageDecay:
				e.stage++
			case envStageRelease:
				e.stage = envStageDone
			}
			// envStageSustain holds at its target until keyUp.
		}
	}
	return e.level
}

// keyUp forces the envelope into its release stage regardless of current
// stage, per spec.md 4.C.
func (e *envelope) keyUp() {
	if e.stage != envStageDone {
		e.stage = envStageRelease
	}
}

// isDone reports whether the release stage has reached its level-4
// target. That target is the floor only when the level-4 byte is 0; a
// nonzero level-4 byte ends the envelope above the floor.
func (e *envelope) isDone() bool {
	return e.stage == envStageDone
}
