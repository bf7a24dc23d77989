package dx7

import "testing"

func TestGetSamplesSilentBeforeAnyNote(t *testing.T) {
	s := newTestSynth(t)
	out := make([]int16, blockSize*4)
	if err := s.getSamples(len(out), out); err != nil {
		t.Fatalf("getSamples: %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %d, want silence with no active voices", i, v)
		}
	}
}

func TestGetSamplesRejectsNonBlockMultiple(t *testing.T) {
	s := newTestSynth(t)
	out := make([]int16, blockSize+1)
	if err := s.getSamples(blockSize+1, out); err == nil {
		t.Fatal("getSamples should reject a sample count that isn't a multiple of the block size")
	}
}

func TestSingleNoteProducesNonSilentOutput(t *testing.T) {
	s := newTestSynth(t)
	s.sendMidi([]byte{0x90, 60, 100})

	out := make([]int16, blockSize*20)
	if err := s.getSamples(len(out), out); err != nil {
		t.Fatalf("getSamples: %v", err)
	}
	heard := false
	for _, v := range out {
		if v != 0 {
			heard = true
			break
		}
	}
	if !heard {
		t.Fatal("a struck note should eventually produce non-zero output")
	}
}

func TestSustainPedalEndToEnd(t *testing.T) {
	s := newTestSynth(t)
	s.sendMidi([]byte{0xb0, 64, 127, 0x90, 60, 100, 0x80, 60, 0})

	out := make([]int16, blockSize)
	s.getSamples(len(out), out)
	if s.voices[0] == nil {
		t.Fatal("sustain should defer the release, so the voice should still be active")
	}

	s.sendMidi([]byte{0xb0, 64, 0})
	for i := 0; i < 2000 && s.voices[0] != nil; i++ {
		s.getSamples(blockSize, out)
	}
	if s.voices[0] != nil {
		t.Fatal("voice should finish releasing and be freed once sustain is released")
	}
}

func TestProgramChangeClampingEndToEnd(t *testing.T) {
	s := newTestSynth(t)
	s.sendMidi([]byte{0xc0, 99})
	out := make([]int16, blockSize)
	if err := s.getSamples(len(out), out); err != nil {
		t.Fatalf("getSamples: %v", err)
	}
	if s.program != patchesPerBank-1 {
		t.Fatalf("program = %d, want clamped to %d", s.program, patchesPerBank-1)
	}
}

func TestSysexBankLoadEndToEnd(t *testing.T) {
	s := newTestSynth(t)
	frame := make([]byte, sysexFrameLen)
	frame[0] = sysexStart
	frame[1] = sysexManufacturer
	frame[2] = sysexSubStatus
	frame[3] = sysexFormatBulk
	frame[4] = sysexByteCountMSB
	frame[5] = sysexByteCountLSB
	copy(frame[6:], defaultBank[:])
	frame[6] = 42 // mutate one byte so we can confirm it landed
	frame[len(frame)-1] = sysexEnd

	s.sendMidi(frame)
	out := make([]int16, blockSize)
	s.getSamples(len(out), out)
	if s.bank.data[0] != 42 {
		t.Fatalf("bank byte 0 = %d, want 42 after sysex load", s.bank.data[0])
	}
}

func TestPolyphonyCapDropsNoteOnWhenAllKeysHeld(t *testing.T) {
	s := newTestSynth(t)
	for i := 0; i < maxVoices; i++ {
		s.sendMidi([]byte{0x90, byte(60 + i), 100})
		out := make([]int16, blockSize)
		s.getSamples(len(out), out)
	}
	for _, v := range s.voices {
		if v == nil {
			t.Fatal("all voice slots should be in use after maxVoices note-ons")
		}
	}
	firstVoice := s.voices[0]
	s.sendMidi([]byte{0x90, 99, 100})
	out := make([]int16, blockSize)
	s.getSamples(len(out), out)
	if s.voices[0] != firstVoice {
		t.Fatal("a 17th note-on with all 16 keys still held should be silently dropped, not steal a slot")
	}
	for _, note := range s.noteNums {
		if note == 99 {
			t.Fatal("a dropped note-on must not be allocated to any slot")
		}
	}
}

func TestPolyphonyReusesReleasedSlotBeforeDropping(t *testing.T) {
	s := newTestSynth(t)
	for i := 0; i < maxVoices; i++ {
		s.sendMidi([]byte{0x90, byte(60 + i), 100})
	}
	out := make([]int16, blockSize)
	s.getSamples(len(out), out)

	s.sendMidi([]byte{0x80, 60, 0}) // release the first key; still sounding its release tail
	s.getSamples(len(out), out)
	if s.voices[0] == nil {
		t.Fatal("a released voice should still be sounding its release stage, not freed yet")
	}

	s.sendMidi([]byte{0x90, 99, 100})
	s.getSamples(len(out), out)
	if s.noteNums[0] != 99 {
		t.Fatal("a note-on should reuse a released (non-keydown) slot before dropping")
	}
}
