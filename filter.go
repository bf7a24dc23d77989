// filter.go - four-pole cascaded resonant low-pass, applied to the mixed
// voice output (spec.md 3 "Filter", 4.F), grounded on the reference
// ResoFilter's cascade-of-four-one-poles-plus-feedback structure.
//
// Alpha (cutoff) and k (resonance feedback) are supplied once per block
// and linearly interpolated sample-by-sample, exactly like an operator's
// envelope amplitude, so a cutoff/resonance change never produces a
// block-boundary click.

package dx7

// resoFilter is a single 4-pole cascade with resonance feedback around
// the whole chain, all state held in Q24.
type resoFilter struct {
	stage [4]int32
}

func newResoFilter() *resoFilter {
	return &resoFilter{}
}

// process filters buf in place, interpolating alpha and k from their
// *Start to *End values across the block. Per spec.md 4.F's instability
// edge case, any interpolated (alpha, k) pair whose product would push
// the feedback loop's gain past unity has k clamped down to the largest
// value that keeps alpha*k within the stable Q24 range.
func (f *resoFilter) process(buf *[blockSize]int32, alphaStart, alphaEnd, kStart, kEnd int32) {
	for n := 0; n < blockSize; n++ {
		alpha := alphaStart + int32((int64(alphaEnd-alphaStart)*int64(n))/blockSize)
		k := kStart + int32((int64(kEnd-kStart)*int64(n))/blockSize)
		if alpha < 0 {
			alpha = 0
		}
		if alpha > q24One {
			alpha = q24One
		}
		if int64(alpha)*int64(k) > int64(q24One)<<q24Shift {
			k = int32((int64(q24One) << q24Shift) / int64(alpha))
		}

		feedback := int32((int64(k) * int64(f.stage[3])) >> q24Shift)
		in := buf[n] - feedback

		f.stage[0] += int32((int64(alpha) * int64(in-f.stage[0])) >> q24Shift)
		f.stage[1] += int32((int64(alpha) * int64(f.stage[0]-f.stage[1])) >> q24Shift)
		f.stage[2] += int32((int64(alpha) * int64(f.stage[1]-f.stage[2])) >> q24Shift)
		f.stage[3] += int32((int64(alpha) * int64(f.stage[2]-f.stage[3])) >> q24Shift)

		buf[n] = f.stage[3]
	}
}
