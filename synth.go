// synth.go - the synth unit: patch bank, voice allocation, and the
// render loop that turns MIDI into samples (spec.md 3 "Synth unit", 4.G).

package dx7

import "log"

// maxVoices is the number of simultaneously active notes (spec.md 3:
// "16 active-note slots").
const maxVoices = 16

// midiStagingSize is the MIDI staging buffer's capacity in bytes (spec.md
// 4.G's 8192-byte input_buffer_ equivalent). It backs both the producer
// ring buffer and the fixed scratch drainMidi reads into, so nothing on
// the render path ever allocates (spec.md 5, 7).
const midiStagingSize = 8192

// Filter control constants from MIDI CC1 (mod wheel) and CC2 (breath
// controller): controller 1 maps its 0-127 value onto cutoff, a Q24
// log2(Hz) value fed through freqLookup; controller 2 maps onto k, the
// resonance feedback coefficient, directly in the same Q24 domain
// resoFilter.process expects. These must be preserved exactly to keep
// audible behavior identical (spec.md 4.G, 9).
const (
	cc1CutoffBase       = 129423563
	cc1CutoffPerStep    = 1019083
	cc2ResonancePerStep = 528416
)

// synthUnit owns everything a Create call allocates: the patch bank, the
// MIDI staging ring buffer, the active voice table, and the output
// filter. The staging buffers and the mix buffer are fixed at
// construction; each note-on allocates its new voice, and the sustained
// set is a map that note-offs under the pedal insert into and a pedal
// release replaces.
type synthUnit struct {
	logger *log.Logger

	bank    *patchBank
	program int

	midi        *ringBuffer
	parser      midiParser
	midiScratch [midiStagingSize]byte

	voices      [maxVoices]*dx7Note
	noteNums    [maxVoices]int
	keydown     [maxVoices]bool
	allocCursor int
	sustain     bool
	sustained   map[int]bool

	filter        *resoFilter
	cutoffLogFreq int32
	resonanceK    int32
	prevAlpha     int32
	prevK         int32

	mix [blockSize]int32
}

// newSynthUnit builds a synth unit for sampleRate, sized per the ambient
// stack's defaults (SPEC_FULL.md 3.3).
func newSynthUnit(sampleRate int, logger *log.Logger) (*synthUnit, error) {
	if sampleRate <= 0 {
		return nil, errInvalidSampleRate
	}
	initTables(sampleRate)
	ring, err := newRingBuffer(midiStagingSize)
	if err != nil {
		return nil, err
	}
	startAlpha := freqLookup(cc1CutoffBase)
	if startAlpha > q24One {
		startAlpha = q24One
	}
	return &synthUnit{
		logger:        logger,
		bank:          newPatchBank(),
		midi:          ring,
		sustained:     make(map[int]bool),
		filter:        newResoFilter(),
		cutoffLogFreq: cc1CutoffBase,
		prevAlpha:     startAlpha,
	}, nil
}

// sendMidi queues raw MIDI bytes for processing on the next getSamples
// call and returns how many bytes were accepted: all of data if it fits
// in the staging buffer, otherwise none of it (0) (spec.md 4.B, 4.G).
func (s *synthUnit) sendMidi(data []byte) int {
	if s.midi.write(data) {
		return len(data)
	}
	if s.logger != nil {
		s.logger.Printf("dx7: dropping %d midi bytes, staging buffer full", len(data))
	}
	return 0
}

// drainMidi parses every byte currently staged, applying note/CC/program
// change/sysex effects immediately (spec.md 4.G: MIDI takes effect at
// block granularity, once per getSamples block). It reads into the
// synth unit's own fixed scratch array, never allocating on this path
// (spec.md 5, 7).
func (s *synthUnit) drainMidi() {
	avail := s.midi.bytesAvailable()
	if avail == 0 {
		return
	}
	scratch := s.midiScratch[:avail]
	s.midi.read(avail, scratch)
	for _, b := range scratch {
		s.parser.feed(b, s)
	}
}

// noteOn allocates a slot for midiNote by scanning round-robin from
// allocCursor for the first slot whose key is not currently held
// (keydown == false -- a free slot or one whose key was already
// released, even if its voice is still sounding a release tail); any
// existing voice there is destroyed and replaced. If every one of the
// maxVoices slots is keydown, the note-on is silently dropped (spec.md
// 4.G: "round-robin from cursor; first slot not keydown wins; returns
// -1 if all held, in which case message is consumed but ignored").
func (s *synthUnit) noteOn(midiNote, velocity int) {
	slot := -1
	for i := 0; i < maxVoices; i++ {
		idx := (s.allocCursor + i) % maxVoices
		if !s.keydown[idx] {
			slot = idx
			break
		}
	}
	if slot == -1 {
		return
	}
	s.voices[slot] = newDx7Note(s.bank.patch(s.program), midiNote, velocity)
	s.noteNums[slot] = midiNote
	s.keydown[slot] = true
	s.allocCursor = (slot + 1) % maxVoices
}

// noteOff clears keydown for every slot sounding midiNote -- the key is
// physically up regardless of the sustain pedal -- then releases the
// voice's envelopes, unless the sustain pedal is held, in which case the
// release is deferred (spec.md 4.G "sustain pedal semantics distinct
// from keydown").
func (s *synthUnit) noteOff(midiNote int) {
	for i, v := range s.voices {
		if v == nil || s.noteNums[i] != midiNote || !s.keydown[i] {
			continue
		}
		s.keydown[i] = false
		if s.sustain {
			s.sustained[midiNote] = true
			continue
		}
		v.keyUp()
	}
}

// controlChange implements modulation wheel (CC1) driving filter cutoff,
// breath controller (CC2) driving resonance, and sustain (CC64); volume
// and pan are ignored. Cutoff and resonance are applied at the next
// getSamples block, interpolated from their previous value exactly like
// an operator's envelope amplitude (spec.md 4.G).
func (s *synthUnit) controlChange(controller, value int) {
	switch controller {
	case 1:
		s.cutoffLogFreq = cc1CutoffBase + int32(value)*cc1CutoffPerStep
	case 2:
		s.resonanceK = int32(value) * cc2ResonancePerStep
	case 64:
		held := s.sustain
		s.sustain = value >= 64
		if held && !s.sustain {
			for note := range s.sustained {
				for i, v := range s.voices {
					if v != nil && s.noteNums[i] == note {
						v.keyUp()
					}
				}
			}
			s.sustained = make(map[int]bool)
		}
	}
}

// programChange selects the active patch, clamping into the bank's valid
// 0-31 range (spec.md 4.G).
func (s *synthUnit) programChange(program int) {
	if program < 0 {
		program = 0
	}
	if program > patchesPerBank-1 {
		program = patchesPerBank - 1
	}
	s.program = program
}

// headroomShift and outputShift reduce a mixed Q24 sample (up to
// maxVoices voices, six operators each) down toward int16 range in two
// steps: headroom first, to keep the filter's internal state well inside
// int32, then the final scale to sample amplitude.
const headroomShift = 4
const outputShift = 9

func clipToInt16(sample int32) int16 {
	sample >>= headroomShift
	sample >>= outputShift
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}

// getSamples renders n int16 samples into out, which the caller sizes to
// hold at least n samples (spec.md 4.G). n must be a positive multiple of
// blockSize; MIDI is drained once per block so its effects land on block
// boundaries.
func (s *synthUnit) getSamples(n int, out []int16) error {
	if n <= 0 || n%blockSize != 0 || len(out) < n {
		return errSamplesNotMultiple
	}
	for off := 0; off < n; off += blockSize {
		s.drainMidi()

		for i := range s.mix {
			s.mix[i] = 0
		}
		for i, v := range s.voices {
			if v == nil {
				continue
			}
			v.compute(&s.mix)
			if v.isDone() {
				s.voices[i] = nil
				s.keydown[i] = false
			}
		}

		targetAlpha := freqLookup(s.cutoffLogFreq)
		if targetAlpha > q24One {
			targetAlpha = q24One
		}
		if targetAlpha < 0 {
			targetAlpha = 0
		}
		targetK := s.resonanceK
		s.filter.process(&s.mix, s.prevAlpha, targetAlpha, s.prevK, targetK)
		s.prevAlpha = targetAlpha
		s.prevK = targetK

		for j := 0; j < blockSize; j++ {
			out[off+j] = clipToInt16(s.mix[j])
		}
	}
	return nil
}
