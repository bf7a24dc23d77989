package dx7

import "testing"

func TestResoFilterLowpassAttenuatesImpulse(t *testing.T) {
	f := newResoFilter()
	var buf [blockSize]int32
	buf[0] = q24One
	f.process(&buf, q24One/8, q24One/8, 0, 0)
	if buf[0] >= q24One {
		t.Fatalf("a low alpha lowpass should attenuate a full-scale impulse: got %d", buf[0])
	}
	if buf[0] <= 0 {
		t.Fatalf("the impulse should still partially pass through: got %d", buf[0])
	}
}

func TestResoFilterClampsUnstableResonance(t *testing.T) {
	f := newResoFilter()
	var buf [blockSize]int32
	for i := range buf {
		buf[i] = q24One / 2
	}
	// alpha*k far exceeds unity feedback gain before clamping.
	f.process(&buf, q24One, q24One, q24One*4, q24One*4)
	for n, s := range buf {
		if s > q24One*2 || s < -q24One*2 {
			t.Fatalf("sample %d = %d blew up; instability clamp should have held it bounded", n, s)
		}
	}
}

func TestResoFilterPassesNearUnityAlphaAlmostUnchanged(t *testing.T) {
	f := newResoFilter()
	var buf [blockSize]int32
	for i := range buf {
		buf[i] = q24One / 4
	}
	f.process(&buf, q24One, q24One, 0, 0)
	if buf[blockSize-1] < q24One/4-q24One/1000 {
		t.Fatalf("alpha=1 should converge to the input almost exactly: got %d, want ~%d", buf[blockSize-1], q24One/4)
	}
}
