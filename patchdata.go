// patchdata.go - stock patch bank, adapted from the reference SynthUnit's
// built-in "epiano" voice (synth_unit.cc), so Create never starts with an
// inaudible, uninitialized bank before any sysex load (SPEC_FULL.md 5).

package dx7

// epiano is the reference electric-piano patch, byte-for-byte from the
// original SynthUnit constructor.
var epiano = [patchSize]byte{
	95, 29, 20, 50, 99, 95, 0, 0, 41, 0, 19, 0, 115, 24, 79, 2, 0,
	95, 20, 20, 50, 99, 95, 0, 0, 0, 0, 0, 0, 3, 0, 99, 2, 0,
	95, 29, 20, 50, 99, 95, 0, 0, 0, 0, 0, 0, 59, 24, 89, 2, 0,
	95, 20, 20, 50, 99, 95, 0, 0, 0, 0, 0, 0, 59, 8, 99, 2, 0,
	95, 50, 35, 78, 99, 75, 0, 0, 0, 0, 0, 0, 59, 28, 58, 28, 0,
	96, 25, 25, 67, 99, 75, 0, 0, 0, 0, 0, 0, 83, 8, 99, 2, 0,

	94, 67, 95, 60, 50, 50, 50, 50, 4, 6, 34, 33, 0, 0, 56, 24,
	69, 46, 80, 73, 65, 78, 79, 32, 49, 32,
}

// defaultBank fills every one of the 32 bank slots with epiano, so a
// program change to any patch index is immediately audible before the
// first sysex bulk dump arrives.
var defaultBank = buildDefaultBank()

func buildDefaultBank() [bankSize]byte {
	var bank [bankSize]byte
	for i := 0; i < patchesPerBank; i++ {
		copy(bank[i*patchSize:(i+1)*patchSize], epiano[:])
	}
	return bank
}
