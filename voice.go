// voice.go - a single sounding note: six operators, their envelopes, and
// the algorithm wiring them together (spec.md 3 "Voice", 4.E).

package dx7

// dx7Note is one active voice: the patch it was struck with, decoded once
// at note-on, plus the per-operator run-time state computeVoiceBlock
// advances every block.
type dx7Note struct {
	alg           *algorithm
	ops           [6]fmOperator
	envs          [6]envelope
	feedbackShift int32
	midiNote      int
	velocity      int
	noteLogFreq   int32
}

// newDx7Note decodes patch for the given note/velocity and starts all six
// operators and envelopes (spec.md 4.E "create a voice from a patch and a
// note-on").
func newDx7Note(patch []byte, midiNote, velocity int) *dx7Note {
	n := &dx7Note{
		alg:           &algorithms[patchAlgorithm(patch)],
		feedbackShift: feedbackShift(patch),
		midiNote:      midiNote,
		velocity:      velocity,
		noteLogFreq:   noteToLogFreqQ24(midiNote),
	}
	for op := 0; op < 6; op++ {
		opBytes := opParamBytes(patch, op)
		logFreq := computeOperatorLogFreq(n.noteLogFreq, opBytes)
		n.ops[op].outLevel = outputLevelToQ24(opBytes[opOutputLevel])
		n.ops[op].logFreq = logFreq
		n.ops[op].increment = freqLookup(logFreq)
		n.ops[op].waveform = int(opBytes[opWaveform] & 0x01)
		n.envs[op] = newEnvelope(opBytes)
	}
	return n
}

// keyUp releases every operator's envelope (spec.md 4.E "note-off moves
// every operator's envelope to its release stage").
func (n *dx7Note) keyUp() {
	for op := range n.envs {
		n.envs[op].keyUp()
	}
}

// isDone reports whether every operator's envelope has finished its
// release stage, meaning the voice can be reclaimed (spec.md 4.E).
func (n *dx7Note) isDone() bool {
	for op := range n.envs {
		if !n.envs[op].isDone() {
			return false
		}
	}
	return true
}

// compute advances every operator's envelope by one tick and renders
// blockSize samples into buf, additive across the note's carrier
// operators (spec.md 4.D, 4.E).
func (n *dx7Note) compute(buf *[blockSize]int32) {
	var ampStart, ampEnd [6]int32
	for op := 0; op < 6; op++ {
		ampStart[op] = n.envs[op].level
		ampEnd[op] = n.envs[op].advance(1)
	}
	computeVoiceBlock(n.alg, &n.ops, n.feedbackShift, ampStart, ampEnd, buf)
}
