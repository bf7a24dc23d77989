// patch.go - patch byte layout, patch bank, and per-operator parameter decode
//
// A patch is a 128-byte packed-voice record (spec.md 3): six 17-byte
// operator blocks (bytes 0-101) followed by a 26-byte common block (bytes
// 102-127), whose last 10 bytes (118-127) are the patch name. The decode
// below fixes the exact per-byte meaning left open by spec.md's generic
// description (SPEC_FULL.md 5 "Patch decode detail") since the upstream
// dx7note.cc that would have defined it was not part of the retrieval
// pack; offsets are chosen to be internally consistent and to cover every
// field spec.md 4.E requires a voice to decode.

package dx7

const (
	patchSize       = 128
	patchesPerBank  = 32
	bankSize        = patchesPerBank * patchSize
	opBlockSize     = 17
	commonBlockSize = patchSize - 6*opBlockSize // 26
	nameOffset      = 118
	nameLength      = 10
)

// Per-operator block byte offsets (relative to the start of the block).
const (
	opEGRate1 = iota
	opEGRate2
	opEGRate3
	opEGRate4
	opEGLevel1
	opEGLevel2
	opEGLevel3
	opEGLevel4
	opLevelScaleBreakpoint
	opRateScaling
	opVelocitySensitivity
	opOutputLevel
	opFreqModeCoarse // bit0: 0=ratio 1=fixed; bits1-5: coarse multiple/exponent
	opFreqFine
	opDetune
	opWaveform // bit0: 0=sine 1=band-limited sawtooth (spec.md REDESIGN FLAGS: tagged variant over virtual dispatch)
	opReserved1
)

// Common-block byte offsets, relative to byte 102 (patchSize - commonBlockSize).
const (
	commonAlgorithm = iota
	commonFeedback  // bits0-2: depth 0-7; bit3: oscillator key sync
	commonLFOSpeed
	commonLFODelay
	commonLFOPitchModDepth
	commonLFOAmpModDepth
	commonLFOWaveSync // bits0-2: waveform; bit3: key sync
	commonPitchModSensitivity
	commonTranspose
)

func commonOffset() int { return patchSize - commonBlockSize }

// opParamBytes returns the 17-byte slice for operator index op (0-5).
func opParamBytes(patch []byte, op int) []byte {
	return patch[op*opBlockSize : op*opBlockSize+opBlockSize]
}

// commonBytes returns the 26-byte common block.
func commonBytes(patch []byte) []byte {
	off := commonOffset()
	return patch[off : off+commonBlockSize]
}

// patchName extracts the 10-byte ASCII name, trimmed of trailing spaces
// and NULs.
func patchName(patch []byte) string {
	raw := patch[nameOffset : nameOffset+nameLength]
	end := len(raw)
	for end > 0 && (raw[end-1] == ' ' || raw[end-1] == 0) {
		end--
	}
	return string(raw[:end])
}

// patchAlgorithm returns the patch's algorithm index, clamped into 0..31
// (spec.md 3: "algorithm index (0..31 inclusive)").
func patchAlgorithm(patch []byte) int {
	a := int(commonBytes(patch)[commonAlgorithm])
	if a < 0 {
		a = 0
	}
	if a > 31 {
		a = 31
	}
	return a
}

// feedbackShift returns the shift amount applied to the averaged feedback
// delay-line samples, derived from the patch's 0-7 feedback depth.
func feedbackShift(patch []byte) int32 {
	depth := int(commonBytes(patch)[commonFeedback] & 0x07)
	if depth == 0 {
		return 32 // mutes feedback: computeVoiceBlock skips the feedback tap for a shift of 32
	}
	return int32(8 - depth)
}

// patchBank is the 32-patch, 4096-byte in-memory bank the synth unit owns
// (spec.md 3).
type patchBank struct {
	data [bankSize]byte
}

// newPatchBank creates a bank seeded with defaultBank (spec.md 3:
// "A patch bank is an ordered sequence of 32 patches").
func newPatchBank() *patchBank {
	b := &patchBank{}
	copy(b.data[:], defaultBank[:])
	return b
}

// patch returns the 128-byte slice for the given 0-31 index.
func (b *patchBank) patch(index int) []byte {
	return b.data[index*patchSize : index*patchSize+patchSize]
}

// loadSysexPayload overwrites the whole bank from a 4096-byte payload
// (spec.md 4.G sysex bulk dump).
func (b *patchBank) loadSysexPayload(payload []byte) {
	copy(b.data[:], payload)
}
