package dx7

import "testing"

func newTestSynth(t *testing.T) *synthUnit {
	t.Helper()
	s, err := newSynthUnit(44100, nil)
	if err != nil {
		t.Fatalf("newSynthUnit: %v", err)
	}
	return s
}

func feedBytes(p *midiParser, s *synthUnit, data []byte) {
	for _, b := range data {
		p.feed(b, s)
	}
}

func TestMidiParserNoteOnOff(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser
	feedBytes(&p, s, []byte{0x90, 60, 100})
	if s.voices[0] == nil {
		t.Fatal("note-on should allocate a voice")
	}
	feedBytes(&p, s, []byte{0x80, 60, 0})
	if s.voices[0].envs[0].stage != envStageRelease {
		t.Fatal("note-off should move the voice's envelopes to release")
	}
}

func TestMidiParserNoteOnVelocityZeroIsNoteOff(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser
	feedBytes(&p, s, []byte{0x90, 60, 100})
	feedBytes(&p, s, []byte{0x90, 60, 0})
	if s.voices[0].envs[0].stage != envStageRelease {
		t.Fatal("note-on with velocity 0 should behave like note-off")
	}
}

func TestMidiParserRunningStatusAppliesToSubsequentMessages(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser
	feedBytes(&p, s, []byte{0x90, 60, 100, 64, 100}) // second note-on via running status
	if s.voices[0] == nil || s.voices[1] == nil {
		t.Fatal("running status should let a second note-on through without its own status byte")
	}
}

func TestMidiParserSysexLoadsBank(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser

	frame := make([]byte, sysexFrameLen)
	frame[0] = sysexStart
	frame[1] = sysexManufacturer
	frame[2] = sysexSubStatus
	frame[3] = sysexFormatBulk
	frame[4] = sysexByteCountMSB
	frame[5] = sysexByteCountLSB
	for i := 0; i < bankSize; i++ {
		frame[6+i] = byte(i)
	}
	frame[len(frame)-1] = sysexEnd

	feedBytes(&p, s, frame)
	if s.bank.data[0] != 0 || s.bank.data[10] != 10 {
		t.Fatal("a well-formed sysex bulk dump should load into the bank")
	}
}

func TestMidiParserMalformedSysexIsDropped(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser

	before := s.bank.data
	frame := make([]byte, sysexFrameLen)
	frame[0] = sysexStart
	frame[1] = 0x00 // wrong manufacturer
	frame[len(frame)-1] = sysexEnd
	feedBytes(&p, s, frame)
	if s.bank.data != before {
		t.Fatal("a sysex frame with the wrong manufacturer byte should be dropped, not loaded")
	}
}

func TestMidiParserProgramChangeClamped(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser
	feedBytes(&p, s, []byte{0xc0, 0x7f})
	if s.program != patchesPerBank-1 {
		t.Fatalf("program = %d, want clamped to %d", s.program, patchesPerBank-1)
	}
}

func TestMidiParserSustainPedalDefersNoteOff(t *testing.T) {
	s := newTestSynth(t)
	var p midiParser
	feedBytes(&p, s, []byte{0xb0, 64, 127}) // sustain on
	feedBytes(&p, s, []byte{0x90, 60, 100})
	feedBytes(&p, s, []byte{0x80, 60, 0})
	if s.voices[0].envs[0].stage == envStageRelease {
		t.Fatal("note-off while sustain is held should not release the voice yet")
	}
	feedBytes(&p, s, []byte{0xb0, 64, 0}) // sustain off
	if s.voices[0].envs[0].stage != envStageRelease {
		t.Fatal("releasing the sustain pedal should release the deferred note-off")
	}
}
